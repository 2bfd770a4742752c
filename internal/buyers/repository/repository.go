package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yuvna_backend/internal/intelligence"
	"yuvna_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const buyerNotFoundMsg = "buyer not found"

// Repository provides database operations for buyer profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new buyers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Buyer struct {
	ID                uuid.UUID
	FullName          string
	Email             string
	Phone             *string
	Country           *string
	Language          string
	Currency          string
	Timezone          *string
	Goal              *string
	BudgetBand        *string
	RiskTolerance     *string
	HorizonYears      *int
	Persona           *string
	PersonaConfidence int
	LeadScore         string
	UrgencyScore      int
	EngagementScore   int
	EmailConsent      bool
	WhatsAppConsent   bool
	OptedOut          bool
	Source            string
	LastActiveAt      time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type BuyerUpdate struct {
	ID            uuid.UUID
	FullName      *string
	Phone         *string
	Country       *string
	Language      *string
	Currency      *string
	Timezone      *string
	Goal          *string
	BudgetBand    *string
	RiskTolerance *string
	HorizonYears  *int
	EmailConsent  *bool
	WhatsAppConsent *bool
}

// ScoreUpdate is the classifier's persisted projection for one buyer.
type ScoreUpdate struct {
	ID                uuid.UUID
	Persona           *string
	PersonaConfidence int
	LeadScore         string
	UrgencyScore      int
	EngagementScore   int
	LastActiveAt      time.Time
}

type ListParams struct {
	LeadScore string
	Persona   string
	Search    string
	OptedOut  *bool
	Page      int
	PageSize  int
}

type ListResult struct {
	Items      []Buyer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func (r *Repository) Create(ctx context.Context, buyer Buyer) (Buyer, error) {
	query := `
		INSERT INTO buyers (
			id, full_name, email, phone, country, language, currency, timezone,
			goal, budget_band, risk_tolerance, horizon_years,
			persona, persona_confidence, lead_score, urgency_score, engagement_score,
			email_consent, whatsapp_consent, opted_out, source,
			last_active_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21,
			$22, $23, $24
		)
	`

	_, err := r.pool.Exec(ctx, query,
		buyer.ID,
		buyer.FullName,
		buyer.Email,
		buyer.Phone,
		buyer.Country,
		buyer.Language,
		buyer.Currency,
		buyer.Timezone,
		buyer.Goal,
		buyer.BudgetBand,
		buyer.RiskTolerance,
		buyer.HorizonYears,
		buyer.Persona,
		buyer.PersonaConfidence,
		buyer.LeadScore,
		buyer.UrgencyScore,
		buyer.EngagementScore,
		buyer.EmailConsent,
		buyer.WhatsAppConsent,
		buyer.OptedOut,
		buyer.Source,
		buyer.LastActiveAt,
		buyer.CreatedAt,
		buyer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Buyer{}, apperr.Conflict("buyer with this email already exists")
		}
		return Buyer{}, fmt.Errorf("create buyer: %w", err)
	}

	return buyer, nil
}

const buyerColumns = `
	id, full_name, email, phone, country, language, currency, timezone,
	goal, budget_band, risk_tolerance, horizon_years,
	persona, persona_confidence, lead_score, urgency_score, engagement_score,
	email_consent, whatsapp_consent, opted_out, source,
	last_active_at, created_at, updated_at`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Buyer, error) {
	query := `SELECT` + buyerColumns + ` FROM buyers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get buyer")
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Buyer, error) {
	query := `SELECT` + buyerColumns + ` FROM buyers WHERE lower(email) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, email), "get buyer by email")
}

func (r *Repository) scanOne(row pgx.Row, op string) (Buyer, error) {
	var b Buyer
	err := row.Scan(
		&b.ID,
		&b.FullName,
		&b.Email,
		&b.Phone,
		&b.Country,
		&b.Language,
		&b.Currency,
		&b.Timezone,
		&b.Goal,
		&b.BudgetBand,
		&b.RiskTolerance,
		&b.HorizonYears,
		&b.Persona,
		&b.PersonaConfidence,
		&b.LeadScore,
		&b.UrgencyScore,
		&b.EngagementScore,
		&b.EmailConsent,
		&b.WhatsAppConsent,
		&b.OptedOut,
		&b.Source,
		&b.LastActiveAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Buyer{}, apperr.NotFound(buyerNotFoundMsg)
		}
		return Buyer{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, update BuyerUpdate) (Buyer, error) {
	query := `
		UPDATE buyers
		SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			country = COALESCE($4, country),
			language = COALESCE($5, language),
			currency = COALESCE($6, currency),
			timezone = COALESCE($7, timezone),
			goal = COALESCE($8, goal),
			budget_band = COALESCE($9, budget_band),
			risk_tolerance = COALESCE($10, risk_tolerance),
			horizon_years = COALESCE($11, horizon_years),
			email_consent = COALESCE($12, email_consent),
			whatsapp_consent = COALESCE($13, whatsapp_consent),
			updated_at = now()
		WHERE id = $1
		RETURNING` + buyerColumns + `
	`

	return r.scanOne(r.pool.QueryRow(ctx, query,
		update.ID,
		update.FullName,
		update.Phone,
		update.Country,
		update.Language,
		update.Currency,
		update.Timezone,
		update.Goal,
		update.BudgetBand,
		update.RiskTolerance,
		update.HorizonYears,
		update.EmailConsent,
		update.WhatsAppConsent,
	), "update buyer")
}

// UpdateScores persists the classifier projection. The lead_score column is
// only ever written through this path.
func (r *Repository) UpdateScores(ctx context.Context, update ScoreUpdate) error {
	query := `
		UPDATE buyers
		SET
			persona = $2,
			persona_confidence = $3,
			lead_score = $4,
			urgency_score = $5,
			engagement_score = $6,
			last_active_at = $7,
			updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		update.ID,
		update.Persona,
		update.PersonaConfidence,
		update.LeadScore,
		update.UrgencyScore,
		update.EngagementScore,
		update.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("update buyer scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(buyerNotFoundMsg)
	}
	return nil
}

// MarkOptedOut suppresses outreach for the buyer. The record is kept.
func (r *Repository) MarkOptedOut(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE buyers
		SET opted_out = TRUE, email_consent = FALSE, whatsapp_consent = FALSE, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark buyer opted out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(buyerNotFoundMsg)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 25
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if params.LeadScore != "" {
		where += fmt.Sprintf(" AND lead_score = $%d", idx)
		args = append(args, params.LeadScore)
		idx++
	}
	if params.Persona != "" {
		where += fmt.Sprintf(" AND persona = $%d", idx)
		args = append(args, params.Persona)
		idx++
	}
	if params.OptedOut != nil {
		where += fmt.Sprintf(" AND opted_out = $%d", idx)
		args = append(args, *params.OptedOut)
		idx++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", idx, idx)
		args = append(args, "%"+params.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM buyers`+where, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count buyers: %w", err)
	}

	query := `SELECT` + buyerColumns + ` FROM buyers` + where +
		fmt.Sprintf(" ORDER BY urgency_score DESC, updated_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	items := []Buyer{}
	for rows.Next() {
		b, err := r.scanOne(rows, "list buyers")
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list buyers: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// StaleActive returns buyers whose last activity is older than the cutoff
// and who have not opted out. Used by the decay refresh job.
func (r *Repository) StaleActive(ctx context.Context, cutoff time.Time, limit int) ([]Buyer, error) {
	query := `SELECT` + buyerColumns + `
		FROM buyers
		WHERE opted_out = FALSE AND last_active_at < $1 AND urgency_score > 0
		ORDER BY last_active_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("stale buyers: %w", err)
	}
	defer rows.Close()

	var items []Buyer
	for rows.Next() {
		b, err := r.scanOne(rows, "stale buyers")
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

// Scores returns the stored score pair as the engine's value type.
func (b Buyer) Scores() intelligence.Scores {
	return intelligence.Scores{Urgency: b.UrgencyScore, Engagement: b.EngagementScore}
}
