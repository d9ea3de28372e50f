package postgres

import (
	"context"
	"fmt"

	"github.com/unatienda/store-api/internal/application/analytics"
	"github.com/unatienda/store-api/internal/domain/entity"
)

var _ analytics.StatsRepository = (*StatsRepo)(nil)

// StatsRepo conteos agregados para el panel admin sobre PostgreSQL.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de agregados del panel.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountProducts cuenta los productos activos.
func (r *StatsRepo) CountProducts() (int, error) {
	return r.count(`SELECT count(*) FROM products WHERE active = true`)
}

// CountStudents cuenta los estudiantes registrados.
func (r *StatsRepo) CountStudents() (int, error) {
	return r.count(`SELECT count(*) FROM students`)
}

// CountOpenStockOrders cuenta las órdenes que aún admiten transiciones.
func (r *StatsRepo) CountOpenStockOrders() (int, error) {
	return r.count(
		`SELECT count(*) FROM stock_orders WHERE status NOT IN ('received', 'approved', 'rejected', 'applied')`)
}

// CountPendingPresale cuenta las órdenes de preventa sin vincular.
func (r *StatsRepo) CountPendingPresale() (int, error) {
	return r.count(`SELECT count(*) FROM presale_orders WHERE status = $1`, entity.PresalePending)
}

// CountOpenConversations cuenta los hilos CRM abiertos.
func (r *StatsRepo) CountOpenConversations() (int, error) {
	return r.count(`SELECT count(*) FROM crm_conversations WHERE closed = false`)
}

func (r *StatsRepo) count(query string, args ...any) (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
