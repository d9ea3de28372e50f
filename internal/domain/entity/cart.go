package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito de un cliente. Quantity siempre >= 1; las líneas
// con cantidad menor se eliminan en el reductor del carrito.
type CartItem struct {
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	InventoryQuantity int             `json:"inventory_quantity"`
	IsPrivateCatalog  bool            `json:"is_private_catalog"`
}

// Cart carrito por cliente, persistido en Redis como JSON.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
