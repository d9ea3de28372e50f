// Package redisstore implementa los adaptadores Redis: carrito por usuario y
// contadores de no leídos del chat CRM.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unatienda/store-api/internal/application/cart"
	"github.com/unatienda/store-api/internal/domain/entity"
)

// cartTTL los carritos abandonados expiran solos.
const cartTTL = 30 * 24 * time.Hour

var _ cart.Store = (*CartStore)(nil)

// CartStore persiste el carrito de cada usuario como JSON bajo una clave propia.
type CartStore struct {
	client *redis.Client
}

// NewCartStore construye el adaptador de carrito.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get carga el carrito del usuario; nil si nunca guardó nada.
func (s *CartStore) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var c entity.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}

// Save guarda el carrito completo y renueva su TTL.
func (s *CartStore) Save(ctx context.Context, c *entity.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(c.UserID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Delete vacía el carrito del usuario.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
