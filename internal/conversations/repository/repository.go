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

const conversationNotFoundMsg = "conversation not found"

// Repository provides database operations for conversations and messages.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new conversations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Conversation struct {
	ID              uuid.UUID
	BuyerID         uuid.UUID
	Status          string
	EscalationState string
	LastMessageAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Message struct {
	ID                uuid.UUID
	ConversationID    uuid.UUID
	Role              string
	Content           string
	Signals           []string
	EscalationTrigger bool
	CreatedAt         time.Time
}

func (r *Repository) CreateConversation(ctx context.Context, conv Conversation) (Conversation, error) {
	query := `
		INSERT INTO conversations (id, buyer_id, status, escalation_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		conv.ID, conv.BuyerID, conv.Status, conv.EscalationState, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

const conversationColumns = ` id, buyer_id, status, escalation_state, last_message_at, created_at, updated_at `

func (r *Repository) GetConversation(ctx context.Context, id uuid.UUID) (Conversation, error) {
	query := `SELECT` + conversationColumns + `FROM conversations WHERE id = $1`
	return scanConversation(r.pool.QueryRow(ctx, query, id))
}

// ActiveByBuyer returns the buyer's most recent non-closed conversation.
func (r *Repository) ActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (Conversation, error) {
	query := `SELECT` + conversationColumns + `
		FROM conversations
		WHERE buyer_id = $1 AND status != 'closed'
		ORDER BY updated_at DESC
		LIMIT 1`
	return scanConversation(r.pool.QueryRow(ctx, query, buyerID))
}

func scanConversation(row pgx.Row) (Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.BuyerID, &c.Status, &c.EscalationState, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, apperr.NotFound(conversationNotFoundMsg)
		}
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

// UpdateEscalationState persists a state machine transition.
func (r *Repository) UpdateEscalationState(ctx context.Context, id uuid.UUID, state string, status string) error {
	query := `
		UPDATE conversations
		SET escalation_state = $2, status = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, state, status)
	if err != nil {
		return fmt.Errorf("update escalation state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(conversationNotFoundMsg)
	}
	return nil
}

// EscalationDecider evaluates the escalation transition against the
// conversation state as committed at lock time, returning the state to write
// and whether the edge trigger fired.
type EscalationDecider func(currentState string) (newState string, triggered bool)

// AppendExchange stores the buyer message and the advisor reply in one
// transaction, serialized per conversation with an advisory lock so
// concurrent sends process in arrival order. The escalation decision runs
// inside the lock against the re-read state, so two overlapping sends cannot
// both observe the pre-escalation state and double-fire the trigger.
func (r *Repository) AppendExchange(ctx context.Context, convID uuid.UUID, buyerMsg, advisorMsg Message, decide EscalationDecider) (string, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", false, fmt.Errorf("begin exchange: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, convID); err != nil {
		return "", false, fmt.Errorf("lock conversation: %w", err)
	}

	var current string
	err = tx.QueryRow(ctx, `SELECT escalation_state FROM conversations WHERE id = $1`, convID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, apperr.NotFound(conversationNotFoundMsg)
		}
		return "", false, fmt.Errorf("read escalation state: %w", err)
	}

	newState, triggered := decide(current)
	buyerMsg.EscalationTrigger = triggered

	insert := `
		INSERT INTO chat_messages (id, conversation_id, role, content, signals, escalation_trigger, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, msg := range []Message{buyerMsg, advisorMsg} {
		if _, err := tx.Exec(ctx, insert,
			msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.Signals, msg.EscalationTrigger, msg.CreatedAt,
		); err != nil {
			return "", false, fmt.Errorf("insert message: %w", err)
		}
	}

	update := `
		UPDATE conversations
		SET escalation_state = $2, last_message_at = $3, updated_at = now()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, convID, newState, buyerMsg.CreatedAt); err != nil {
		return "", false, fmt.Errorf("update conversation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", false, fmt.Errorf("commit exchange: %w", err)
	}
	return newState, triggered, nil
}

// Messages returns the conversation history in arrival order.
func (r *Repository) Messages(ctx context.Context, convID uuid.UUID, limit int) ([]Message, error) {
	if limit < 1 {
		limit = 100
	}
	query := `
		SELECT id, conversation_id, role, content, signals, escalation_trigger, created_at
		FROM (
			SELECT id, conversation_id, role, content, signals, escalation_trigger, created_at
			FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, convID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Signals, &m.EscalationTrigger, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// RecentBuyerSignals returns, per buyer, the signals on that buyer's last n
// messages across all their conversations, newest first. Feeds the
// classifier's explicit-signal window.
func (r *Repository) RecentBuyerSignals(ctx context.Context, buyerIDs []uuid.UUID, lastN int) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(buyerIDs))
	if len(buyerIDs) == 0 || lastN < 1 {
		return result, nil
	}

	query := `
		SELECT buyer_id, signals
		FROM (
			SELECT c.buyer_id, m.signals, m.created_at,
			       row_number() OVER (PARTITION BY c.buyer_id ORDER BY m.created_at DESC) AS rn
			FROM chat_messages m
			JOIN conversations c ON c.id = m.conversation_id
			WHERE c.buyer_id = ANY($1) AND m.role = 'buyer'
		) recent
		WHERE rn <= $2
		ORDER BY buyer_id, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, buyerIDs, lastN)
	if err != nil {
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var buyerID uuid.UUID
		var signals []string
		if err := rows.Scan(&buyerID, &signals); err != nil {
			return nil, fmt.Errorf("scan signals: %w", err)
		}
		result[buyerID] = append(result[buyerID], signals...)
	}
	return result, rows.Err()
}

type ListParams struct {
	Status          string
	EscalationState string
	Page            int
	PageSize        int
}

// ConversationSummary is the inbox row: conversation plus buyer identity.
type ConversationSummary struct {
	Conversation
	BuyerName    string
	BuyerEmail   string
	LeadScore    string
	UrgencyScore int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]ConversationSummary, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 25
	}

	query := `
		SELECT c.id, c.buyer_id, c.status, c.escalation_state, c.last_message_at, c.created_at, c.updated_at,
			b.full_name, b.email, b.lead_score, b.urgency_score
		FROM conversations c
		JOIN buyers b ON b.id = c.buyer_id
		WHERE ($1 = '' OR c.status = $1)
		  AND ($2 = '' OR c.escalation_state = $2)
		ORDER BY b.urgency_score DESC, c.last_message_at DESC NULLS LAST
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query,
		params.Status, params.EscalationState, params.PageSize, (params.Page-1)*params.PageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var items []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(
			&s.ID, &s.BuyerID, &s.Status, &s.EscalationState, &s.LastMessageAt, &s.CreatedAt, &s.UpdatedAt,
			&s.BuyerName, &s.BuyerEmail, &s.LeadScore, &s.UrgencyScore,
		); err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// LatestEscalationState returns the most severe escalation state across the
// buyer's conversations, for the routing snapshot.
func (r *Repository) LatestEscalationState(ctx context.Context, buyerID uuid.UUID) (string, error) {
	query := `
		SELECT escalation_state
		FROM conversations
		WHERE buyer_id = $1
		ORDER BY CASE escalation_state
			WHEN 'escalated' THEN 0
			WHEN 'escalation-pending' THEN 1
			ELSE 2
		END, updated_at DESC
		LIMIT 1
	`

	var state string
	err := r.pool.QueryRow(ctx, query, buyerID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(conversationNotFoundMsg)
		}
		return "", fmt.Errorf("latest escalation state: %w", err)
	}
	return state, nil
}
