package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hindsightlab/hindsight/internal/scoring"
)

// Repository handles game session persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create stores a new pending session. The session's ID is filled in
// on success.
func (r *Repository) Create(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO game_sessions (
			scenario_id,
			session_token,
			pred_above_15pct,
			pred_above_10pct,
			pred_above_5pct,
			pred_above_0pct,
			alloc_stocks,
			alloc_bonds,
			alloc_cash,
			alloc_gold,
			rationale,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		s.ScenarioID,
		s.Token,
		s.Predictions.Above15Pct,
		s.Predictions.Above10Pct,
		s.Predictions.Above5Pct,
		s.Predictions.Above0Pct,
		s.Allocation.Stocks,
		s.Allocation.Bonds,
		s.Allocation.Cash,
		s.Allocation.Gold,
		s.Rationale,
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetByToken loads a session by its token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*Session, error) {
	query := `
		SELECT
			id,
			scenario_id,
			session_token,
			COALESCE(username, ''),
			pred_above_15pct,
			pred_above_10pct,
			pred_above_5pct,
			pred_above_0pct,
			alloc_stocks,
			alloc_bonds,
			alloc_cash,
			alloc_gold,
			COALESCE(rationale, ''),
			COALESCE(reflection, ''),
			brier_score,
			portfolio_return,
			portfolio_sharpe,
			vs_benchmark_return,
			vs_benchmark_sharpe,
			created_at,
			completed_at
		FROM game_sessions
		WHERE session_token = $1
	`

	var s Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&s.ID,
		&s.ScenarioID,
		&s.Token,
		&s.Username,
		&s.Predictions.Above15Pct,
		&s.Predictions.Above10Pct,
		&s.Predictions.Above5Pct,
		&s.Predictions.Above0Pct,
		&s.Allocation.Stocks,
		&s.Allocation.Bonds,
		&s.Allocation.Cash,
		&s.Allocation.Gold,
		&s.Rationale,
		&s.Reflection,
		&s.BrierScore,
		&s.PortfolioReturn,
		&s.PortfolioSharpe,
		&s.ExcessReturn,
		&s.ExcessSharpe,
		&s.CreatedAt,
		&s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	return &s, nil
}

// Complete stores the computed scores and marks the session completed.
// The completed_at guard makes this at-most-once: a session revealed
// twice keeps its first scores.
func (r *Repository) Complete(ctx context.Context, sessionID int64, result scoring.ScoreResult, completedAt time.Time) error {
	query := `
		UPDATE game_sessions SET
			brier_score = $2,
			portfolio_return = $3,
			portfolio_sharpe = $4,
			vs_benchmark_return = $5,
			vs_benchmark_sharpe = $6,
			completed_at = $7
		WHERE id = $1 AND completed_at IS NULL
	`

	_, err := r.db.Exec(ctx, query,
		sessionID,
		result.BrierScore,
		result.PortfolioReturn,
		result.PortfolioSharpe,
		result.ExcessReturn,
		result.ExcessSharpe,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}

	return nil
}

// SetUsername attaches a leaderboard username to a session.
func (r *Repository) SetUsername(ctx context.Context, sessionID int64, username string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE game_sessions SET username = $2 WHERE id = $1`,
		sessionID, username)
	if err != nil {
		return fmt.Errorf("set username: %w", err)
	}
	return nil
}

// SetReflection stores the post-reveal reflection text.
func (r *Repository) SetReflection(ctx context.Context, sessionID int64, reflection string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE game_sessions SET reflection = $2 WHERE id = $1`,
		sessionID, reflection)
	if err != nil {
		return fmt.Errorf("set reflection: %w", err)
	}
	return nil
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Username        string    `json:"username"`
	BrierScore      float64   `json:"brier_score"`
	PortfolioReturn float64   `json:"portfolio_return"`
	ExcessReturn    float64   `json:"excess_return"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Leaderboard returns the best completed, opted-in sessions ordered by
// Brier score (lower is better), portfolio return as tiebreaker.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT
			username,
			brier_score,
			portfolio_return,
			vs_benchmark_return,
			completed_at
		FROM game_sessions
		WHERE completed_at IS NOT NULL AND username IS NOT NULL AND username <> ''
		ORDER BY brier_score ASC, portfolio_return DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		err := rows.Scan(
			&e.Username,
			&e.BrierScore,
			&e.PortfolioReturn,
			&e.ExcessReturn,
			&e.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", rows.Err())
	}

	return entries, nil
}
