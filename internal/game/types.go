package game

import (
	"errors"
	"time"

	"github.com/hindsightlab/hindsight/internal/scenario"
	"github.com/hindsightlab/hindsight/internal/scoring"
)

var (
	// ErrSessionNotFound is returned for an unknown session token.
	ErrSessionNotFound = errors.New("game session not found")

	// ErrNotCompleted is returned when an operation requires a revealed
	// session.
	ErrNotCompleted = errors.New("game session not completed")

	// ErrInvalidInput wraps player-input validation failures at the
	// service boundary.
	ErrInvalidInput = errors.New("invalid game input")
)

// Session is one play-through of a scenario: the player's predictions,
// allocation, and rationale, plus the scores once revealed.
type Session struct {
	ID         int64  `json:"id"`
	ScenarioID int64  `json:"scenario_id"`
	Token      string `json:"session_token"`
	Username   string `json:"username,omitempty"` // leaderboard opt-in

	Predictions scoring.PredictionSet `json:"predictions"`
	Allocation  scoring.Allocation    `json:"allocation"`
	Rationale   string                `json:"rationale,omitempty"`
	Reflection  string                `json:"reflection,omitempty"`

	// Filled at reveal, immutable afterwards
	BrierScore      *float64 `json:"brier_score,omitempty"`
	PortfolioReturn *float64 `json:"portfolio_return,omitempty"`
	PortfolioSharpe *float64 `json:"portfolio_sharpe,omitempty"`
	ExcessReturn    *float64 `json:"excess_return,omitempty"`
	ExcessSharpe    *float64 `json:"excess_sharpe,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the session has been revealed and scored.
func (s *Session) Completed() bool {
	return s.CompletedAt != nil
}

// RevealResult is the full disclosure bundle: the scenario's true
// identity, the complete chart series, and every score. Recomputing it
// for the same session yields an identical bundle.
type RevealResult struct {
	SessionToken string `json:"session_token"`

	ActualStartDate       time.Time `json:"actual_start_date"`
	ActualPeriod          string    `json:"actual_period"` // e.g. "January 1998 - December 2000"
	HistoricalContext     string    `json:"historical_context,omitempty"`
	HistoricalDescription string    `json:"historical_description,omitempty"`

	Months       []scenario.MonthlyDataPoint `json:"monthly_data"`
	AssetReturns scoring.AssetValues         `json:"asset_returns"`
	Allocation   scoring.Allocation          `json:"allocation"`
	Rationale    string                      `json:"rationale,omitempty"`

	scoring.ScoreResult
}
