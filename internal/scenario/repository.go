package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a scenario id does not exist.
var ErrNotFound = errors.New("scenario not found")

// Repository handles scenario persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a scenario and its monthly data points in one
// transaction. The scenario's ID is filled in on success.
func (r *Repository) Insert(ctx context.Context, s *Scenario) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO scenarios (
			anchor_date,
			display_label,
			historical_context,
			fwd_return_stocks,
			fwd_return_bonds,
			fwd_return_cash,
			fwd_return_gold,
			fwd_volatility_stocks,
			fwd_volatility_bonds,
			fwd_volatility_gold,
			benchmark_return,
			benchmark_sharpe,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		s.AnchorDate,
		s.DisplayLabel,
		s.HistoricalContext,
		s.ForwardReturns.Stocks,
		s.ForwardReturns.Bonds,
		s.ForwardReturns.Cash,
		s.ForwardReturns.Gold,
		s.ForwardVolatility.Stocks,
		s.ForwardVolatility.Bonds,
		s.ForwardVolatility.Gold,
		s.BenchmarkReturn,
		s.BenchmarkSharpe,
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}

	monthQuery := `
		INSERT INTO scenario_data (
			scenario_id,
			month_index,
			is_forward,
			idx_stocks,
			idx_bonds,
			idx_cash,
			idx_gold,
			gdp_growth_yoy,
			unemployment_rate,
			inflation_rate_yoy,
			fed_funds_rate,
			industrial_prod_yoy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, m := range s.Months {
		_, err := tx.Exec(ctx, monthQuery,
			s.ID,
			m.MonthIndex,
			m.IsForward,
			m.IdxStocks,
			m.IdxBonds,
			m.IdxCash,
			m.IdxGold,
			m.GDPGrowthYoY,
			m.UnemploymentRate,
			m.InflationRateYoY,
			m.FedFundsRate,
			m.IndustrialProdYoY,
		)
		if err != nil {
			return fmt.Errorf("insert scenario month %d: %w", m.MonthIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// ClearAll removes every scenario and its monthly data. Game sessions
// referencing the old scenarios go with them.
func (r *Repository) ClearAll(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM game_sessions`,
		`DELETE FROM scenario_data`,
		`DELETE FROM scenarios`,
	} {
		if _, err := tx.Exec(ctx, query); err != nil {
			return fmt.Errorf("clear scenarios: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Count returns the number of stored scenarios.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM scenarios`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	return count, nil
}

// List returns all scenarios without their monthly data, ordered by
// anchor date.
func (r *Repository) List(ctx context.Context) ([]Scenario, error) {
	query := scenarioSelect + ` ORDER BY anchor_date`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := make([]Scenario, 0)
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", rows.Err())
	}

	return scenarios, nil
}

// GetByID returns one scenario with its monthly data points.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Scenario, error) {
	query := scenarioSelect + ` WHERE id = $1`

	s, err := scanScenario(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	months, err := r.getMonths(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Months = months

	return s, nil
}

const scenarioSelect = `
	SELECT
		id,
		anchor_date,
		display_label,
		COALESCE(historical_context, ''),
		fwd_return_stocks,
		fwd_return_bonds,
		fwd_return_cash,
		fwd_return_gold,
		fwd_volatility_stocks,
		fwd_volatility_bonds,
		fwd_volatility_gold,
		benchmark_return,
		benchmark_sharpe,
		created_at
	FROM scenarios
`

func scanScenario(row pgx.Row) (*Scenario, error) {
	var s Scenario
	err := row.Scan(
		&s.ID,
		&s.AnchorDate,
		&s.DisplayLabel,
		&s.HistoricalContext,
		&s.ForwardReturns.Stocks,
		&s.ForwardReturns.Bonds,
		&s.ForwardReturns.Cash,
		&s.ForwardReturns.Gold,
		&s.ForwardVolatility.Stocks,
		&s.ForwardVolatility.Bonds,
		&s.ForwardVolatility.Gold,
		&s.BenchmarkReturn,
		&s.BenchmarkSharpe,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan scenario: %w", err)
	}
	return &s, nil
}

func (r *Repository) getMonths(ctx context.Context, scenarioID int64) ([]MonthlyDataPoint, error) {
	query := `
		SELECT
			month_index,
			is_forward,
			idx_stocks,
			idx_bonds,
			idx_cash,
			idx_gold,
			gdp_growth_yoy,
			unemployment_rate,
			inflation_rate_yoy,
			fed_funds_rate,
			industrial_prod_yoy
		FROM scenario_data
		WHERE scenario_id = $1
		ORDER BY month_index
	`

	rows, err := r.db.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query scenario months: %w", err)
	}
	defer rows.Close()

	months := make([]MonthlyDataPoint, 0)
	for rows.Next() {
		var m MonthlyDataPoint
		err := rows.Scan(
			&m.MonthIndex,
			&m.IsForward,
			&m.IdxStocks,
			&m.IdxBonds,
			&m.IdxCash,
			&m.IdxGold,
			&m.GDPGrowthYoY,
			&m.UnemploymentRate,
			&m.InflationRateYoY,
			&m.FedFundsRate,
			&m.IndustrialProdYoY,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scenario month: %w", err)
		}
		months = append(months, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate scenario months: %w", rows.Err())
	}

	return months, nil
}
