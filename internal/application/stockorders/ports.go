package stockorders

import (
	"context"

	"github.com/unatienda/store-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado y la mutación
// de inventario sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.StockOrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}
