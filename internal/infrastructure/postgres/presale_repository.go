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

var _ repository.PresaleRepository = (*PresaleRepo)(nil)

const presaleOrderColumns = `id, order_number, batch_id, row_number, customer_name, customer_email,
	student_name, grade, total, status, student_id, linked_by, imported_at, linked_at`

var presaleSortColumns = map[string]bool{
	"imported_at":   true,
	"customer_name": true,
	"total":         true,
}

// PresaleRepo implementación del puerto PresaleRepository sobre PostgreSQL.
type PresaleRepo struct {
	q Querier
}

// NewPresaleRepository construye el adaptador de persistencia para preventa.
func NewPresaleRepository(q Querier) *PresaleRepo {
	return &PresaleRepo{q: q}
}

// CreateBatch persiste un lote de importación.
func (r *PresaleRepo) CreateBatch(batch *entity.PresaleBatch) error {
	query := `
		INSERT INTO presale_batches (id, file_name, total_rows, imported, skipped, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.FileName, batch.TotalRows, batch.Imported, batch.Skipped,
		batch.CreatedBy, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert presale batch: %w", err)
	}
	return nil
}

// GetBatch obtiene un lote por ID.
func (r *PresaleRepo) GetBatch(id string) (*entity.PresaleBatch, error) {
	query := `
		SELECT id, file_name, total_rows, imported, skipped, created_by, created_at
		FROM presale_batches WHERE id = $1`
	var b entity.PresaleBatch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.FileName, &b.TotalRows, &b.Imported, &b.Skipped, &b.CreatedBy, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presale batch: %w", err)
	}
	return &b, nil
}

// UpdateBatchCounts persiste los contadores finales de un lote.
func (r *PresaleRepo) UpdateBatchCounts(batch *entity.PresaleBatch) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE presale_batches SET imported = $2, skipped = $3 WHERE id = $1`,
		batch.ID, batch.Imported, batch.Skipped,
	)
	if err != nil {
		return fmt.Errorf("update presale batch: %w", err)
	}
	return nil
}

// ListBatches lista lotes recientes.
func (r *PresaleRepo) ListBatches(limit, offset int) ([]*entity.PresaleBatch, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, file_name, total_rows, imported, skipped, created_by, created_at
		 FROM presale_batches ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list presale batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PresaleBatch
	for rows.Next() {
		var b entity.PresaleBatch
		if err := rows.Scan(&b.ID, &b.FileName, &b.TotalRows, &b.Imported, &b.Skipped,
			&b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan presale batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// CreateOrder persiste una orden de preventa importada.
func (r *PresaleRepo) CreateOrder(order *entity.PresaleOrder) error {
	query := `
		INSERT INTO presale_orders (` + presaleOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.BatchID, order.RowNumber, order.CustomerName,
		order.CustomerEmail, order.StudentName, order.Grade, order.Total, order.Status,
		nullable(order.StudentID), nullable(order.LinkedBy), order.ImportedAt, order.LinkedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert presale order: %w", err)
	}
	return nil
}

// GetOrder obtiene una orden de preventa por ID.
func (r *PresaleRepo) GetOrder(id string) (*entity.PresaleOrder, error) {
	query := `SELECT ` + presaleOrderColumns + ` FROM presale_orders WHERE id = $1`
	o, err := scanPresaleOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presale order: %w", err)
	}
	return o, nil
}

// ListOrders lista órdenes de preventa con filtros y paginación.
func (r *PresaleRepo) ListOrders(q repository.PresaleQuery) ([]*entity.PresaleOrder, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if q.BatchID != "" {
		args = append(args, q.BatchID)
		where += fmt.Sprintf(" AND batch_id = $%d", len(args))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM presale_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count presale orders: %w", err)
	}

	query := `SELECT ` + presaleOrderColumns + ` FROM presale_orders` + where +
		orderByClause(q.SortBy, q.SortDesc, presaleSortColumns, "imported_at")
	args = append(args, q.Limit, q.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list presale orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PresaleOrder
	for rows.Next() {
		o, err := scanPresaleOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan presale order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// UpdateOrder actualiza estado y vínculo de una orden de preventa.
func (r *PresaleRepo) UpdateOrder(order *entity.PresaleOrder) error {
	query := `
		UPDATE presale_orders SET status = $2, student_id = $3, linked_by = $4, linked_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, nullable(order.StudentID), nullable(order.LinkedBy), order.LinkedAt,
	)
	if err != nil {
		return fmt.Errorf("update presale order: %w", err)
	}
	return nil
}

// ExistsByBatchRow indica si la fila de un lote ya fue importada.
func (r *PresaleRepo) ExistsByBatchRow(batchID string, rowNumber int) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM presale_orders WHERE batch_id = $1 AND row_number = $2)`,
		batchID, rowNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists presale row: %w", err)
	}
	return exists, nil
}

func scanPresaleOrder(row pgx.Row) (*entity.PresaleOrder, error) {
	var o entity.PresaleOrder
	var studentID, linkedBy *string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.BatchID, &o.RowNumber, &o.CustomerName, &o.CustomerEmail,
		&o.StudentName, &o.Grade, &o.Total, &o.Status, &studentID, &linkedBy,
		&o.ImportedAt, &o.LinkedAt,
	)
	if err != nil {
		return nil, err
	}
	if studentID != nil {
		o.StudentID = *studentID
	}
	if linkedBy != nil {
		o.LinkedBy = *linkedBy
	}
	return &o, nil
}
