package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unatienda/store-api/internal/application/membership"
	"github.com/unatienda/store-api/internal/application/stockorders"
	"github.com/unatienda/store-api/internal/application/wallet"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ stockorders.TxRunner = (*TxRunner)(nil)
var _ wallet.TxRunner = (*TxRunner)(nil)
var _ membership.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de órdenes de stock y productos atados
// a la tx: la transición de estado y la mutación de inventario van juntas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.StockOrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewStockOrderRepository(tx), NewProductRepository(tx))
	})
}

// RunWallet inicia una transacción con el repo de billeteras atado a la tx
// (crédito de recarga, ledger y estado de la orden de pago, atómicos).
func (r *TxRunner) RunWallet(ctx context.Context, fn func(
	walletRepo repository.WalletRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewWalletRepository(tx))
	})
}

// RunMembership inicia una transacción con billetera y membresías (débito y
// alta/renovación atómicos).
func (r *TxRunner) RunMembership(ctx context.Context, fn func(
	walletRepo repository.WalletRepository,
	membershipRepo repository.MembershipRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewWalletRepository(tx), NewMembershipRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
