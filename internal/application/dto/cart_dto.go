package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest agrega (o fusiona) un producto al carrito.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartQuantityRequest fija la cantidad de una línea; < 1 la elimina.
type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	InventoryQuantity int             `json:"inventory_quantity"`
	IsPrivateCatalog  bool            `json:"is_private_catalog"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito completo del cliente.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updated_at"`
}
