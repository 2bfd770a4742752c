package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yuvna_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for agent accounts.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Agent struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

const agentColumns = ` id, full_name, email, password_hash, role, active, created_at, last_login_at `

func (r *Repository) GetByEmail(ctx context.Context, email string) (Agent, error) {
	query := `SELECT` + agentColumns + `FROM agents WHERE email = $1`
	return scanAgent(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	query := `SELECT` + agentColumns + `FROM agents WHERE id = $1`
	return scanAgent(r.pool.QueryRow(ctx, query, id))
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.Role, &a.Active, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound("agent not found")
		}
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

// List returns active agents for assignment pickers.
func (r *Repository) List(ctx context.Context) ([]Agent, error) {
	query := `SELECT` + agentColumns + `FROM agents WHERE active ORDER BY full_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *Repository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE agents SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}
