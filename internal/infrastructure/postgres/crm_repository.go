package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ repository.CRMRepository = (*CRMRepo)(nil)

// CRMRepo implementación del puerto CRMRepository sobre PostgreSQL.
type CRMRepo struct {
	q Querier
}

// NewCRMRepository construye el adaptador de persistencia para el chat CRM.
func NewCRMRepository(q Querier) *CRMRepo {
	return &CRMRepo{q: q}
}

// CreateConversation persiste un hilo nuevo.
func (r *CRMRepo) CreateConversation(c *entity.Conversation) error {
	query := `
		INSERT INTO crm_conversations (id, user_id, subject, last_message_at, closed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.UserID, c.Subject, c.LastMessageAt, c.Closed, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// GetConversation obtiene un hilo por ID.
func (r *CRMRepo) GetConversation(id string) (*entity.Conversation, error) {
	query := `
		SELECT id, user_id, subject, last_message_at, closed, created_at
		FROM crm_conversations WHERE id = $1`
	var c entity.Conversation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.UserID, &c.Subject, &c.LastMessageAt, &c.Closed, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// ListConversations lista todos los hilos, el más activo primero (lado admin).
func (r *CRMRepo) ListConversations(limit, offset int) ([]*entity.Conversation, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, user_id, subject, last_message_at, closed, created_at
		 FROM crm_conversations ORDER BY last_message_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()
	return scanConversations(rows)
}

// ListConversationsByUser lista los hilos de un cliente.
func (r *CRMRepo) ListConversationsByUser(userID string) ([]*entity.Conversation, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, user_id, subject, last_message_at, closed, created_at
		 FROM crm_conversations WHERE user_id = $1 ORDER BY last_message_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations by user: %w", err)
	}
	defer rows.Close()
	return scanConversations(rows)
}

func scanConversations(rows pgx.Rows) ([]*entity.Conversation, error) {
	var list []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.LastMessageAt, &c.Closed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CloseConversation cierra un hilo.
func (r *CRMRepo) CloseConversation(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE crm_conversations SET closed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("close conversation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchConversation actualiza la marca de último mensaje.
func (r *CRMRepo) TouchConversation(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE crm_conversations SET last_message_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// CreateMessage persiste un mensaje.
func (r *CRMRepo) CreateMessage(m *entity.Message) error {
	query := `
		INSERT INTO crm_messages (id, conversation_id, sender_id, sender_role, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ConversationID, m.SenderID, m.SenderRole, m.Body, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages lista los mensajes de un hilo en orden cronológico.
func (r *CRMRepo) ListMessages(conversationID string, limit, offset int) ([]*entity.Message, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, conversation_id, sender_id, sender_role, body, created_at
		 FROM crm_messages WHERE conversation_id = $1
		 ORDER BY created_at LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderRole, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
