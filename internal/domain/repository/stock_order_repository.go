package repository

import (
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/stockorder"
)

// StockOrderQuery filtros y orden para listados de órdenes de stock.
// SortBy admite: created_at, order_number, status (whitelist en el adaptador).
type StockOrderQuery struct {
	Type        stockorder.Type
	Status      stockorder.Status
	CatalogType string
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// StockOrderRepository define el puerto de persistencia para StockOrder.
// Las órdenes nunca se borran; solo avanzan de estado.
type StockOrderRepository interface {
	Create(order *entity.StockOrder) error
	GetByID(id string) (*entity.StockOrder, error)
	// GetForUpdate bloquea la fila de la orden para la transición (evita
	// transiciones concurrentes sobre la misma orden).
	GetForUpdate(id string) (*entity.StockOrder, error)
	List(q StockOrderQuery) ([]*entity.StockOrder, int, error)
	// UpdateStatus persiste el nuevo estado, los ítems actualizados y agrega
	// la entrada al historial, todo en la transacción en curso.
	UpdateStatus(order *entity.StockOrder, change entity.StatusChange) error
	CountByStatus(typ stockorder.Type) (map[stockorder.Status]int, error)
}
