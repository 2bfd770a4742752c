package repository

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

const dealNotFoundMsg = "deal not found"

// Repository provides database operations for deals and stage history.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new deals repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Deal struct {
	ID        uuid.UUID
	BuyerID   uuid.UUID
	Title     string
	Stage     string
	AgentID   *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StageEntry struct {
	ID        uuid.UUID
	DealID    uuid.UUID
	Stage     string
	EnteredAt time.Time
	ExitedAt  *time.Time
}

// Create inserts the deal and its opening history entry in one transaction.
func (r *Repository) Create(ctx context.Context, deal Deal) (Deal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Deal{}, fmt.Errorf("begin create deal: %w", err)
	}
	defer tx.Rollback(ctx)

	insertDeal := `
		INSERT INTO deals (id, buyer_id, title, stage, agent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(ctx, insertDeal,
		deal.ID, deal.BuyerID, deal.Title, deal.Stage, deal.AgentID, deal.CreatedAt, deal.UpdatedAt,
	); err != nil {
		return Deal{}, fmt.Errorf("create deal: %w", err)
	}

	insertHistory := `
		INSERT INTO deal_stage_history (id, deal_id, stage, entered_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertHistory, uuid.New(), deal.ID, deal.Stage, deal.CreatedAt); err != nil {
		return Deal{}, fmt.Errorf("create deal history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Deal{}, fmt.Errorf("commit create deal: %w", err)
	}
	return deal, nil
}

const dealColumns = ` id, buyer_id, title, stage, agent_id, created_at, updated_at `

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Deal, error) {
	query := `SELECT` + dealColumns + `FROM deals WHERE id = $1`
	return scanDeal(r.pool.QueryRow(ctx, query, id))
}

// PrimaryByBuyer returns the buyer's most recently updated open deal,
// falling back to the newest closed one.
func (r *Repository) PrimaryByBuyer(ctx context.Context, buyerID uuid.UUID) (Deal, error) {
	query := `
		SELECT` + dealColumns + `
		FROM deals
		WHERE buyer_id = $1
		ORDER BY (stage IN ('closed-won', 'closed-lost')) ASC, updated_at DESC
		LIMIT 1
	`
	return scanDeal(r.pool.QueryRow(ctx, query, buyerID))
}

func scanDeal(row pgx.Row) (Deal, error) {
	var d Deal
	err := row.Scan(&d.ID, &d.BuyerID, &d.Title, &d.Stage, &d.AgentID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, apperr.NotFound(dealNotFoundMsg)
		}
		return Deal{}, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// MoveStage closes the open history entry, appends the new one, and updates
// the deal row atomically. The history stays append-only: entries are never
// rewritten, only their exited_at is set once.
func (r *Repository) MoveStage(ctx context.Context, dealID uuid.UUID, fromStage, toStage string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin move stage: %w", err)
	}
	defer tx.Rollback(ctx)

	closeEntry := `
		UPDATE deal_stage_history
		SET exited_at = $2
		WHERE deal_id = $1 AND exited_at IS NULL
	`
	if _, err := tx.Exec(ctx, closeEntry, dealID, at); err != nil {
		return fmt.Errorf("close stage entry: %w", err)
	}

	appendEntry := `
		INSERT INTO deal_stage_history (id, deal_id, stage, entered_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, appendEntry, uuid.New(), dealID, toStage, at); err != nil {
		return fmt.Errorf("append stage entry: %w", err)
	}

	updateDeal := `
		UPDATE deals
		SET stage = $2, updated_at = now()
		WHERE id = $1 AND stage = $3
	`
	tag, err := tx.Exec(ctx, updateDeal, dealID, toStage, fromStage)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("deal was moved concurrently")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit move stage: %w", err)
	}
	return nil
}

// History returns the stage log oldest first.
func (r *Repository) History(ctx context.Context, dealID uuid.UUID) ([]StageEntry, error) {
	query := `
		SELECT id, deal_id, stage, entered_at, exited_at
		FROM deal_stage_history
		WHERE deal_id = $1
		ORDER BY entered_at ASC
	`

	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("deal history: %w", err)
	}
	defer rows.Close()

	var entries []StageEntry
	for rows.Next() {
		var e StageEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Stage, &e.EnteredAt, &e.ExitedAt); err != nil {
			return nil, fmt.Errorf("scan stage entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HealStage rewrites the deal's cached stage from its history after an
// inconsistency was detected.
func (r *Repository) HealStage(ctx context.Context, dealID uuid.UUID, stage string) error {
	query := `UPDATE deals SET stage = $2, updated_at = now() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, dealID, stage); err != nil {
		return fmt.Errorf("heal deal stage: %w", err)
	}
	return nil
}

type ListParams struct {
	Stage    string
	AgentID  *uuid.UUID
	Page     int
	PageSize int
}

// DealSummary is the kanban card: deal plus buyer identity and signal count.
type DealSummary struct {
	Deal
	BuyerName        string
	Persona          *string
	BuyerSignalCount int
	StageEnteredAt   time.Time
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]DealSummary, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}

	query := `
		SELECT d.id, d.buyer_id, d.title, d.stage, d.agent_id, d.created_at, d.updated_at,
			b.full_name, b.persona,
			(
				SELECT COUNT(*)
				FROM chat_messages m
				JOIN conversations c ON c.id = m.conversation_id
				WHERE c.buyer_id = d.buyer_id AND m.role = 'buyer' AND array_length(m.signals, 1) > 0
			) AS signal_count,
			COALESCE((
				SELECT h.entered_at
				FROM deal_stage_history h
				WHERE h.deal_id = d.id AND h.exited_at IS NULL
				ORDER BY h.entered_at DESC
				LIMIT 1
			), d.created_at) AS stage_entered_at
		FROM deals d
		JOIN buyers b ON b.id = d.buyer_id
		WHERE ($1 = '' OR d.stage = $1)
		  AND ($2::uuid IS NULL OR d.agent_id = $2)
		ORDER BY d.updated_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query,
		params.Stage, params.AgentID, params.PageSize, (params.Page-1)*params.PageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var items []DealSummary
	for rows.Next() {
		var s DealSummary
		if err := rows.Scan(
			&s.ID, &s.BuyerID, &s.Title, &s.Stage, &s.AgentID, &s.CreatedAt, &s.UpdatedAt,
			&s.BuyerName, &s.Persona, &s.BuyerSignalCount, &s.StageEnteredAt,
		); err != nil {
			return nil, fmt.Errorf("scan deal summary: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// OpenStageEntry returns the history entry with no exit timestamp.
func (r *Repository) OpenStageEntry(ctx context.Context, dealID uuid.UUID) (StageEntry, error) {
	query := `
		SELECT id, deal_id, stage, entered_at, exited_at
		FROM deal_stage_history
		WHERE deal_id = $1 AND exited_at IS NULL
		ORDER BY entered_at DESC
		LIMIT 1
	`

	var e StageEntry
	err := r.pool.QueryRow(ctx, query, dealID).Scan(&e.ID, &e.DealID, &e.Stage, &e.EnteredAt, &e.ExitedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StageEntry{}, apperr.NotFound("deal has no open stage entry")
		}
		return StageEntry{}, fmt.Errorf("open stage entry: %w", err)
	}
	return e, nil
}

// BuyerSignalCount counts buyer messages carrying at least one signal.
func (r *Repository) BuyerSignalCount(ctx context.Context, buyerID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.buyer_id = $1 AND m.role = 'buyer' AND array_length(m.signals, 1) > 0
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, buyerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("buyer signal count: %w", err)
	}
	return count, nil
}

// BuyerPersona reads the buyer's assigned persona for advisor qualification.
func (r *Repository) BuyerPersona(ctx context.Context, buyerID uuid.UUID) (*string, error) {
	var persona *string
	err := r.pool.QueryRow(ctx, `SELECT persona FROM buyers WHERE id = $1`, buyerID).Scan(&persona)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("buyer not found")
		}
		return nil, fmt.Errorf("buyer persona: %w", err)
	}
	return persona, nil
}
