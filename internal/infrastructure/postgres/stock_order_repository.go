package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/internal/domain/stockorder"
)

var _ repository.StockOrderRepository = (*StockOrderRepo)(nil)

const stockOrderColumns = `id, order_number, type, catalog_type, status, items, supplier,
	linked_order_id, customer_name, return_reason, adjustment_reason, notes,
	created_at, created_by, created_by_name, status_history`

var stockOrderSortColumns = map[string]bool{
	"created_at":   true,
	"order_number": true,
	"status":       true,
}

// StockOrderRepo implementación del puerto StockOrderRepository sobre PostgreSQL.
// Items y el historial de estados viven como JSONB dentro de la fila de la orden.
type StockOrderRepo struct {
	q Querier
}

// NewStockOrderRepository construye el adaptador de persistencia para órdenes
// de stock. Pasar pool o tx (Querier).
func NewStockOrderRepository(q Querier) *StockOrderRepo {
	return &StockOrderRepo{q: q}
}

// Create persiste una orden nueva con su historial inicial.
func (r *StockOrderRepo) Create(order *entity.StockOrder) error {
	items, history, err := marshalOrderJSON(order)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stock_orders (` + stockOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, string(order.Type), order.CatalogType, string(order.Status),
		items, order.Supplier, order.LinkedOrderID, order.CustomerName, order.ReturnReason,
		order.AdjustmentReason, order.Notes, order.CreatedAt, order.CreatedBy,
		order.CreatedByName, history,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *StockOrderRepo) GetByID(id string) (*entity.StockOrder, error) {
	return r.getBy(id, "")
}

// GetForUpdate bloquea la fila de la orden dentro de la transacción en curso.
func (r *StockOrderRepo) GetForUpdate(id string) (*entity.StockOrder, error) {
	return r.getBy(id, " FOR UPDATE")
}

func (r *StockOrderRepo) getBy(id, suffix string) (*entity.StockOrder, error) {
	query := `SELECT ` + stockOrderColumns + ` FROM stock_orders WHERE id = $1` + suffix
	o, err := scanStockOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock order: %w", err)
	}
	return o, nil
}

// List lista órdenes con filtros y paginación.
func (r *StockOrderRepo) List(q repository.StockOrderQuery) ([]*entity.StockOrder, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if q.Type != "" {
		args = append(args, string(q.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if q.CatalogType != "" {
		args = append(args, q.CatalogType)
		where += fmt.Sprintf(" AND catalog_type = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM stock_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock orders: %w", err)
	}

	query := `SELECT ` + stockOrderColumns + ` FROM stock_orders` + where +
		orderByClause(q.SortBy, q.SortDesc, stockOrderSortColumns, "created_at")
	args = append(args, q.Limit, q.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockOrder
	for rows.Next() {
		o, err := scanStockOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// UpdateStatus persiste el nuevo estado, los ítems actualizados y el historial
// con la entrada nueva ya agregada por el caso de uso.
func (r *StockOrderRepo) UpdateStatus(order *entity.StockOrder, change entity.StatusChange) error {
	items, history, err := marshalOrderJSON(order)
	if err != nil {
		return err
	}
	query := `
		UPDATE stock_orders SET status = $2, items = $3, notes = $4, status_history = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		order.ID, string(order.Status), items, order.Notes, history,
	)
	if err != nil {
		return fmt.Errorf("update stock order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus cuenta las órdenes de un tipo agrupadas por estado.
func (r *StockOrderRepo) CountByStatus(typ stockorder.Type) (map[stockorder.Status]int, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT status, count(*) FROM stock_orders WHERE type = $1 GROUP BY status`,
		string(typ),
	)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	out := make(map[stockorder.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[stockorder.Status(status)] = count
	}
	return out, rows.Err()
}

func marshalOrderJSON(order *entity.StockOrder) ([]byte, []byte, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal status history: %w", err)
	}
	return items, history, nil
}

func scanStockOrder(row pgx.Row) (*entity.StockOrder, error) {
	var o entity.StockOrder
	var typ, status string
	var items, history []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &typ, &o.CatalogType, &status, &items, &o.Supplier,
		&o.LinkedOrderID, &o.CustomerName, &o.ReturnReason, &o.AdjustmentReason, &o.Notes,
		&o.CreatedAt, &o.CreatedBy, &o.CreatedByName, &history,
	)
	if err != nil {
		return nil, err
	}
	o.Type = stockorder.Type(typ)
	o.Status = stockorder.Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	return &o, nil
}
