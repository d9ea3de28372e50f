package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/unatienda/store-api/internal/application/crmchat"
)

var _ crmchat.UnreadCounter = (*UnreadCounter)(nil)

// UnreadCounter contador de mensajes sin leer por conversación (lado admin).
type UnreadCounter struct {
	client *redis.Client
}

// NewUnreadCounter construye el adaptador de contadores.
func NewUnreadCounter(client *redis.Client) *UnreadCounter {
	return &UnreadCounter{client: client}
}

func unreadKey(conversationID string) string {
	return "crm:unread:" + conversationID
}

// Incr suma uno al contador del hilo.
func (c *UnreadCounter) Incr(ctx context.Context, conversationID string) error {
	if err := c.client.Incr(ctx, unreadKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis incr unread: %w", err)
	}
	return nil
}

// Reset pone el contador del hilo en cero.
func (c *UnreadCounter) Reset(ctx context.Context, conversationID string) error {
	if err := c.client.Del(ctx, unreadKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis reset unread: %w", err)
	}
	return nil
}

// Get devuelve el contador del hilo; cero si la clave no existe.
func (c *UnreadCounter) Get(ctx context.Context, conversationID string) (int64, error) {
	n, err := c.client.Get(ctx, unreadKey(conversationID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get unread: %w", err)
	}
	return n, nil
}
