package advisory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yuvna_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists ROI simulations and reads buyer context for prompts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the advisory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BuyerContext is the slice of the buyer profile the prompts interpolate.
type BuyerContext struct {
	Persona    string
	BudgetBand string
	Goal       string
	Country    string
	Currency   string
}

func (r *Repository) BuyerContext(ctx context.Context, buyerID uuid.UUID) (BuyerContext, error) {
	query := `
		SELECT COALESCE(persona, ''), COALESCE(budget_band, ''), COALESCE(goal, ''),
			COALESCE(country, ''), currency
		FROM buyers
		WHERE id = $1
	`

	var bc BuyerContext
	err := r.pool.QueryRow(ctx, query, buyerID).Scan(&bc.Persona, &bc.BudgetBand, &bc.Goal, &bc.Country, &bc.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BuyerContext{}, apperr.NotFound("buyer not found")
		}
		return BuyerContext{}, fmt.Errorf("buyer context: %w", err)
	}
	return bc, nil
}

type roiRecord struct {
	ID           uuid.UUID
	BuyerID      uuid.UUID
	Budget       float64
	Currency     string
	TimeHorizon  int
	PropertyType string
	AreaCluster  string
	Outputs      []byte
	CreatedAt    time.Time
}

func (r *Repository) SaveSimulation(ctx context.Context, rec roiRecord) error {
	query := `
		INSERT INTO roi_simulations (id, buyer_id, budget, currency, time_horizon, property_type, area_cluster, outputs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.BuyerID, rec.Budget, rec.Currency, rec.TimeHorizon,
		rec.PropertyType, rec.AreaCluster, rec.Outputs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save roi simulation: %w", err)
	}
	return nil
}

// SimulationsByBuyer returns past runs, newest first.
func (r *Repository) SimulationsByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]roiRecord, error) {
	if limit < 1 {
		limit = 20
	}
	query := `
		SELECT id, buyer_id, budget, currency, time_horizon, property_type, area_cluster, outputs, created_at
		FROM roi_simulations
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, buyerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list roi simulations: %w", err)
	}
	defer rows.Close()

	var records []roiRecord
	for rows.Next() {
		var rec roiRecord
		if err := rows.Scan(
			&rec.ID, &rec.BuyerID, &rec.Budget, &rec.Currency, &rec.TimeHorizon,
			&rec.PropertyType, &rec.AreaCluster, &rec.Outputs, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan roi simulation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
