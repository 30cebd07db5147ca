package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/internal/scoring"
	"github.com/hindsightlab/hindsight/pkg/config"
	"github.com/hindsightlab/hindsight/pkg/logger"
	"github.com/hindsightlab/hindsight/pkg/redis"
)

// SessionStore is the persistence surface for game sessions.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)

	// Complete stores the scores and sets completed_at, but only if the
	// session is still pending. A no-op for an already completed session.
	Complete(ctx context.Context, sessionID int64, result scoring.ScoreResult, completedAt time.Time) error

	SetUsername(ctx context.Context, sessionID int64, username string) error
	SetReflection(ctx context.Context, sessionID int64, reflection string) error
}

// ScenarioStore loads scenarios with their monthly data.
type ScenarioStore interface {
	GetByID(ctx context.Context, id int64) (*scenario.Scenario, error)
}

// Service runs the game session lifecycle: start with validated player
// input, reveal with scoring and at-most-once completion.
type Service struct {
	sessions  SessionStore
	scenarios ScenarioStore
	engine    *scoring.Engine
	cache     *redis.Cache
	pipeline  config.PipelineConfig
	log       *logger.Logger
}

// NewService creates a game service. cache may be nil when redis is
// not configured.
func NewService(cfg *config.Config, sessions SessionStore, scenarios ScenarioStore, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		sessions:  sessions,
		scenarios: scenarios,
		engine:    scoring.NewEngine(cfg.Scoring),
		cache:     cache,
		pipeline:  cfg.Pipeline,
		log:       log,
	}
}

// Start validates the player's input and creates a pending session for
// the scenario. Returns the session with its fresh token.
func (s *Service) Start(ctx context.Context, scenarioID int64, preds scoring.PredictionSet, alloc scoring.Allocation, rationale string) (*Session, error) {
	if err := preds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := alloc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Scenario must exist before a session is handed out
	if _, err := s.scenarios.GetByID(ctx, scenarioID); err != nil {
		return nil, err
	}

	session := &Session{
		ScenarioID:  scenarioID,
		Token:       newToken(),
		Predictions: preds,
		Allocation:  alloc,
		Rationale:   rationale,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"session_id":  session.ID,
		"scenario_id": scenarioID,
	}).Info("game session started")

	return session, nil
}

// Reveal discloses the scenario's identity and computes every score for
// the session. The first reveal stores the scores and completes the
// session; later reveals recompute the identical bundle and leave the
// stored scores untouched.
func (s *Service) Reveal(ctx context.Context, token string) (*RevealResult, error) {
	if s.cache != nil {
		var cached RevealResult
		if hit, err := s.cache.Get(ctx, redis.RevealKey(token), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	scn, err := s.scenarios.GetByID(ctx, session.ScenarioID)
	if err != nil {
		return nil, err
	}

	monthly := scn.ForwardMonthlyReturns()
	result := s.engine.Score(session.Predictions, session.Allocation, scn.ForwardReturns, monthly)

	if !session.Completed() {
		now := time.Now().UTC()
		if err := s.sessions.Complete(ctx, session.ID, result, now); err != nil {
			return nil, fmt.Errorf("complete session: %w", err)
		}
		s.log.WithField("session_id", session.ID).Info("game session completed")
	}

	reveal := &RevealResult{
		SessionToken: token,

		ActualStartDate:       scn.AnchorDate,
		ActualPeriod:          s.formatPeriod(scn),
		HistoricalContext:     scn.HistoricalContext,
		HistoricalDescription: HistoricalDescription(scn.HistoricalContext),

		Months:       scn.Months,
		AssetReturns: scn.ForwardReturns,
		Allocation:   session.Allocation,
		Rationale:    session.Rationale,

		ScoreResult: result,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.RevealKey(token), reveal, redis.TTLReveal); err != nil {
			s.log.WithError(err).Warn("reveal cache write failed")
		}
	}

	return reveal, nil
}

// JoinLeaderboard attaches a public username to a completed session.
func (s *Service) JoinLeaderboard(ctx context.Context, token, username string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidInput)
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if !session.Completed() {
		return ErrNotCompleted
	}

	return s.sessions.SetUsername(ctx, session.ID, username)
}

// AddReflection stores the player's post-reveal reflection.
func (s *Service) AddReflection(ctx context.Context, token, reflection string) error {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.sessions.SetReflection(ctx, session.ID, reflection)
}

// formatPeriod renders the scenario's calendar span, e.g.
// "January 1998 - December 2000".
func (s *Service) formatPeriod(scn *scenario.Scenario) string {
	start := scn.WindowStart(s.pipeline.LookbackMonths)
	end := scn.WindowEnd(s.pipeline.ForwardMonths)
	return fmt.Sprintf("%s - %s", start.Format("January 2006"), end.Format("January 2006"))
}

// newToken returns a 32-byte random hex session token.
func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
