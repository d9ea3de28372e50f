package repository

import "github.com/unatienda/store-api/internal/domain/entity"

// PresaleQuery filtros para listados de órdenes de preventa.
type PresaleQuery struct {
	BatchID  string
	Status   string
	SortBy   string // imported_at, customer_name, total
	SortDesc bool
	Limit    int
	Offset   int
}

// PresaleRepository define el puerto de persistencia para la importación de preventa.
type PresaleRepository interface {
	CreateBatch(batch *entity.PresaleBatch) error
	GetBatch(id string) (*entity.PresaleBatch, error)
	// UpdateBatchCounts persiste los contadores finales al terminar la importación.
	UpdateBatchCounts(batch *entity.PresaleBatch) error
	ListBatches(limit, offset int) ([]*entity.PresaleBatch, error)

	CreateOrder(order *entity.PresaleOrder) error
	GetOrder(id string) (*entity.PresaleOrder, error)
	ListOrders(q PresaleQuery) ([]*entity.PresaleOrder, int, error)
	UpdateOrder(order *entity.PresaleOrder) error
	// ExistsByBatchRow evita reimportar la misma fila de un archivo ya procesado.
	ExistsByBatchRow(batchID string, rowNumber int) (bool, error)
}
