package crmchat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// UnreadCounter puerto de contadores de no leídos por conversación (Redis).
// El contador del lado admin sube con cada mensaje del cliente y se pone en
// cero cuando el admin abre el hilo.
type UnreadCounter interface {
	Incr(ctx context.Context, conversationID string) error
	Reset(ctx context.Context, conversationID string) error
	Get(ctx context.Context, conversationID string) (int64, error)
}

// UseCase casos de uso del chat CRM entre clientes y la tienda.
type UseCase struct {
	crmRepo repository.CRMRepository
	unread  UnreadCounter
}

// NewUseCase construye el caso de uso.
func NewUseCase(crmRepo repository.CRMRepository, unread UnreadCounter) *UseCase {
	return &UseCase{crmRepo: crmRepo, unread: unread}
}

// Start abre un hilo nuevo con su primer mensaje.
func (uc *UseCase) Start(ctx context.Context, userID string, in dto.StartConversationRequest) (*dto.ConversationResponse, error) {
	if in.Subject == "" || in.Body == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Conversation{
		ID:            uuid.New().String(),
		UserID:        userID,
		Subject:       in.Subject,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := uc.crmRepo.CreateConversation(c); err != nil {
		return nil, err
	}
	if err := uc.crmRepo.CreateMessage(&entity.Message{
		ID:             uuid.New().String(),
		ConversationID: c.ID,
		SenderID:       userID,
		SenderRole:     entity.SenderCustomer,
		Body:           in.Body,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}
	if err := uc.unread.Incr(ctx, c.ID); err != nil {
		return nil, err
	}
	return uc.toConversationResponse(ctx, c)
}

// Post agrega un mensaje a un hilo. Los clientes solo escriben en sus propios
// hilos; los hilos cerrados no aceptan mensajes.
func (uc *UseCase) Post(ctx context.Context, conversationID, senderID, senderRole string, in dto.PostMessageRequest) (*dto.MessageResponse, error) {
	if in.Body == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.crmRepo.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.Closed {
		return nil, domain.ErrConflict
	}
	role := entity.SenderAdmin
	if senderRole == entity.RoleCustomer {
		if c.UserID != senderID {
			return nil, domain.ErrForbidden
		}
		role = entity.SenderCustomer
	}
	m := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: c.ID,
		SenderID:       senderID,
		SenderRole:     role,
		Body:           in.Body,
		CreatedAt:      time.Now(),
	}
	if err := uc.crmRepo.CreateMessage(m); err != nil {
		return nil, err
	}
	if err := uc.crmRepo.TouchConversation(c.ID); err != nil {
		return nil, err
	}
	if role == entity.SenderCustomer {
		if err := uc.unread.Incr(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return toMessageResponse(m), nil
}

// Messages lista los mensajes de un hilo. Cuando el lector es admin, el
// contador de no leídos del hilo se pone en cero.
func (uc *UseCase) Messages(ctx context.Context, conversationID, readerID, readerRole string, limit, offset int) ([]dto.MessageResponse, error) {
	c, err := uc.crmRepo.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if readerRole == entity.RoleCustomer && c.UserID != readerID {
		return nil, domain.ErrForbidden
	}
	list, err := uc.crmRepo.ListMessages(conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	if readerRole != entity.RoleCustomer {
		if err := uc.unread.Reset(ctx, conversationID); err != nil {
			return nil, err
		}
	}
	out := make([]dto.MessageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMessageResponse(m))
	}
	return out, nil
}

// ListForAdmin lista todos los hilos con sus contadores de no leídos.
func (uc *UseCase) ListForAdmin(ctx context.Context, limit, offset int) ([]dto.ConversationResponse, error) {
	list, err := uc.crmRepo.ListConversations(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConversationResponse, 0, len(list))
	for _, c := range list {
		resp, err := uc.toConversationResponse(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// ListForUser lista los hilos del cliente (sin contadores de admin).
func (uc *UseCase) ListForUser(userID string) ([]dto.ConversationResponse, error) {
	list, err := uc.crmRepo.ListConversationsByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConversationResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ConversationResponse{
			ID:            c.ID,
			UserID:        c.UserID,
			Subject:       c.Subject,
			Closed:        c.Closed,
			LastMessageAt: c.LastMessageAt,
		})
	}
	return out, nil
}

// Close cierra un hilo (admin). Un hilo cerrado no acepta mensajes nuevos.
func (uc *UseCase) Close(ctx context.Context, conversationID string) error {
	c, err := uc.crmRepo.GetConversation(conversationID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := uc.crmRepo.CloseConversation(conversationID); err != nil {
		return err
	}
	return uc.unread.Reset(ctx, conversationID)
}

func (uc *UseCase) toConversationResponse(ctx context.Context, c *entity.Conversation) (*dto.ConversationResponse, error) {
	unread, err := uc.unread.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ConversationResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Subject:       c.Subject,
		Unread:        unread,
		Closed:        c.Closed,
		LastMessageAt: c.LastMessageAt,
	}, nil
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderRole: m.SenderRole,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}
