package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yuvna_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sequenceNotFoundMsg = "outreach sequence not found"
	campaignNotFoundMsg = "outreach campaign not found"
)

// Repository provides database operations for sequences and campaigns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the outreach repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Step is one templated touch in a sequence. Steps are stored as a JSONB
// document on the sequence row; they are immutable once a campaign runs.
type Step struct {
	ID           string   `json:"id"`
	DayOffset    int      `json:"dayOffset"`
	Channel      string   `json:"channel"`
	Subject      string   `json:"subject,omitempty"`
	Content      string   `json:"content"`
	StopOnReply  bool     `json:"stopOnReply"`
	StopOnOptOut bool     `json:"stopOnOptOut"`
	Tokens       []string `json:"personalizedFields,omitempty"`
}

type Sequence struct {
	ID            uuid.UUID
	Name          string
	TargetPersona string
	TargetCountry *string
	Steps         []Step
	Status        string
	CreatedAt     time.Time
}

type Campaign struct {
	ID            uuid.UUID
	SequenceID    uuid.UUID
	BuyerID       uuid.UUID
	CurrentStep   int
	Status        string
	StoppedReason *string
	StartedAt     time.Time
	CompletedAt   *time.Time
}

func (r *Repository) CreateSequence(ctx context.Context, seq Sequence) (Sequence, error) {
	steps, err := json.Marshal(seq.Steps)
	if err != nil {
		return Sequence{}, fmt.Errorf("encode steps: %w", err)
	}

	query := `
		INSERT INTO outreach_sequences (id, name, target_persona, target_country, steps, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.pool.Exec(ctx, query,
		seq.ID, seq.Name, seq.TargetPersona, seq.TargetCountry, steps, seq.Status, seq.CreatedAt,
	); err != nil {
		return Sequence{}, fmt.Errorf("create sequence: %w", err)
	}
	return seq, nil
}

func (r *Repository) GetSequence(ctx context.Context, id uuid.UUID) (Sequence, error) {
	query := `
		SELECT id, name, target_persona, target_country, steps, status, created_at
		FROM outreach_sequences
		WHERE id = $1
	`
	return scanSequence(r.pool.QueryRow(ctx, query, id))
}

func scanSequence(row pgx.Row) (Sequence, error) {
	var seq Sequence
	var steps []byte
	err := row.Scan(&seq.ID, &seq.Name, &seq.TargetPersona, &seq.TargetCountry, &steps, &seq.Status, &seq.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sequence{}, apperr.NotFound(sequenceNotFoundMsg)
		}
		return Sequence{}, fmt.Errorf("get sequence: %w", err)
	}
	if err := json.Unmarshal(steps, &seq.Steps); err != nil {
		return Sequence{}, fmt.Errorf("decode steps: %w", err)
	}
	return seq, nil
}

func (r *Repository) ListSequences(ctx context.Context) ([]Sequence, error) {
	query := `
		SELECT id, name, target_persona, target_country, steps, status, created_at
		FROM outreach_sequences
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	defer rows.Close()

	var sequences []Sequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
	return sequences, rows.Err()
}

func (r *Repository) UpdateSequenceStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE outreach_sequences SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sequence status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(sequenceNotFoundMsg)
	}
	return nil
}

func (r *Repository) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	query := `
		INSERT INTO outreach_campaigns (id, sequence_id, buyer_id, current_step, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query,
		c.ID, c.SequenceID, c.BuyerID, c.CurrentStep, c.Status, c.StartedAt,
	); err != nil {
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

const campaignColumns = ` id, sequence_id, buyer_id, current_step, status, stopped_reason, started_at, completed_at `

func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	query := `SELECT` + campaignColumns + `FROM outreach_campaigns WHERE id = $1`
	return scanCampaign(r.pool.QueryRow(ctx, query, id))
}

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.SequenceID, &c.BuyerID, &c.CurrentStep, &c.Status, &c.StoppedReason, &c.StartedAt, &c.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMsg)
		}
		return Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// ActiveCampaigns returns running campaigns joined with buyer consent state.
type ActiveCampaign struct {
	Campaign
	BuyerName    string
	BuyerEmail   string
	EmailConsent bool
	OptedOut     bool
}

func (r *Repository) ActiveCampaigns(ctx context.Context, limit int) ([]ActiveCampaign, error) {
	if limit < 1 {
		limit = 200
	}
	query := `
		SELECT c.id, c.sequence_id, c.buyer_id, c.current_step, c.status, c.stopped_reason, c.started_at, c.completed_at,
			b.full_name, b.email, b.email_consent, b.opted_out
		FROM outreach_campaigns c
		JOIN buyers b ON b.id = c.buyer_id
		WHERE c.status = 'active'
		ORDER BY c.started_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("active campaigns: %w", err)
	}
	defer rows.Close()

	var items []ActiveCampaign
	for rows.Next() {
		var a ActiveCampaign
		if err := rows.Scan(
			&a.ID, &a.SequenceID, &a.BuyerID, &a.CurrentStep, &a.Status, &a.StoppedReason, &a.StartedAt, &a.CompletedAt,
			&a.BuyerName, &a.BuyerEmail, &a.EmailConsent, &a.OptedOut,
		); err != nil {
			return nil, fmt.Errorf("scan active campaign: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// AdvanceCampaign moves the cursor past a delivered step, completing the
// campaign when it was the last one.
func (r *Repository) AdvanceCampaign(ctx context.Context, id uuid.UUID, nextStep int, completed bool) error {
	status := "active"
	var completedAt *time.Time
	if completed {
		status = "completed"
		now := time.Now()
		completedAt = &now
	}

	query := `
		UPDATE outreach_campaigns
		SET current_step = $2, status = $3, completed_at = $4
		WHERE id = $1 AND status = 'active'
	`
	tag, err := r.pool.Exec(ctx, query, id, nextStep, status, completedAt)
	if err != nil {
		return fmt.Errorf("advance campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("campaign is no longer active")
	}
	return nil
}

// StopCampaignsForBuyer halts every running campaign for the buyer.
func (r *Repository) StopCampaignsForBuyer(ctx context.Context, buyerID uuid.UUID, reason string) ([]uuid.UUID, error) {
	query := `
		UPDATE outreach_campaigns
		SET status = 'stopped', stopped_reason = $2
		WHERE buyer_id = $1 AND status = 'active'
		RETURNING id
	`

	rows, err := r.pool.Query(ctx, query, buyerID, reason)
	if err != nil {
		return nil, fmt.Errorf("stop campaigns: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stopped campaign: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetCampaignStatus pauses or resumes one campaign.
func (r *Repository) SetCampaignStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE outreach_campaigns SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(campaignNotFoundMsg)
	}
	return nil
}

func (r *Repository) CampaignsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Campaign, error) {
	query := `SELECT` + campaignColumns + `FROM outreach_campaigns WHERE buyer_id = $1 ORDER BY started_at DESC`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("campaigns by buyer: %w", err)
	}
	defer rows.Close()

	var items []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecordSend appends a delivery record for auditing.
func (r *Repository) RecordSend(ctx context.Context, campaignID uuid.UUID, stepID string, at time.Time) error {
	query := `
		INSERT INTO outreach_sends (id, campaign_id, step_id, sent_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, uuid.New(), campaignID, stepID, at); err != nil {
		return fmt.Errorf("record send: %w", err)
	}
	return nil
}
