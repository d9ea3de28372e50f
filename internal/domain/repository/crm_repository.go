package repository

import "github.com/unatienda/store-api/internal/domain/entity"

// CRMRepository define el puerto de persistencia para conversaciones y mensajes.
type CRMRepository interface {
	CreateConversation(c *entity.Conversation) error
	GetConversation(id string) (*entity.Conversation, error)
	ListConversations(limit, offset int) ([]*entity.Conversation, error)
	ListConversationsByUser(userID string) ([]*entity.Conversation, error)
	CloseConversation(id string) error
	TouchConversation(id string) error

	CreateMessage(m *entity.Message) error
	ListMessages(conversationID string, limit, offset int) ([]*entity.Message, error)
}
