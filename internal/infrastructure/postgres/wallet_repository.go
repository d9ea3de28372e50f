package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ repository.WalletRepository = (*WalletRepo)(nil)

// WalletRepo implementación del puerto WalletRepository sobre PostgreSQL
// (usable con pool o tx; crédito y débito corren siempre dentro de una tx).
type WalletRepo struct {
	q Querier
}

// NewWalletRepository construye el adaptador de persistencia para billeteras.
func NewWalletRepository(q Querier) *WalletRepo {
	return &WalletRepo{q: q}
}

// Create persiste una billetera nueva con saldo cero.
func (r *WalletRepo) Create(wallet *entity.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		wallet.ID, wallet.UserID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByUserID obtiene la billetera de un usuario.
func (r *WalletRepo) GetByUserID(userID string) (*entity.Wallet, error) {
	return r.getBy("user_id = $1", userID, "")
}

// GetForUpdate bloquea la fila de la billetera dentro de la transacción en curso.
func (r *WalletRepo) GetForUpdate(walletID string) (*entity.Wallet, error) {
	return r.getBy("id = $1", walletID, " FOR UPDATE")
}

func (r *WalletRepo) getBy(where string, arg any, suffix string) (*entity.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets WHERE ` + where + suffix
	var w entity.Wallet
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// UpdateBalance fija el saldo de la billetera.
func (r *WalletRepo) UpdateBalance(walletID string, balance decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE wallets SET balance = $2, updated_at = now() WHERE id = $1`,
		walletID, balance,
	)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	return nil
}

// CreateTransaction agrega una entrada al ledger.
func (r *WalletRepo) CreateTransaction(tx *entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, reference, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.WalletID, tx.Type, tx.Amount, tx.Reference, tx.Description, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	return nil
}

// ListTransactions lista el ledger de una billetera, lo más reciente primero.
func (r *WalletRepo) ListTransactions(walletID string, limit, offset int) ([]*entity.WalletTransaction, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, wallet_id, type, amount, reference, description, created_at
		 FROM wallet_transactions WHERE wallet_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		walletID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.WalletTransaction
	for rows.Next() {
		var t entity.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Reference,
			&t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// SumCredits suma todas las recargas confirmadas (volumen del panel admin).
func (r *WalletRepo) SumCredits() (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE type = $1`,
		entity.WalletCredit,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum credits: %w", err)
	}
	return sum, nil
}

// CreateTopUp persiste una orden de recarga.
func (r *WalletRepo) CreateTopUp(order *entity.TopUpOrder) error {
	query := `
		INSERT INTO top_up_orders (id, wallet_id, gateway_order_id, amount, status, created_at, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.WalletID, order.GatewayOrderID, order.Amount, order.Status,
		order.CreatedAt, order.ConfirmedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert top up: %w", err)
	}
	return nil
}

// GetTopUpByGatewayOrder obtiene una recarga por el id de orden de la pasarela.
func (r *WalletRepo) GetTopUpByGatewayOrder(gatewayOrderID string) (*entity.TopUpOrder, error) {
	query := `
		SELECT id, wallet_id, gateway_order_id, amount, status, created_at, confirmed_at
		FROM top_up_orders WHERE gateway_order_id = $1`
	var o entity.TopUpOrder
	err := r.q.QueryRow(context.Background(), query, gatewayOrderID).Scan(
		&o.ID, &o.WalletID, &o.GatewayOrderID, &o.Amount, &o.Status, &o.CreatedAt, &o.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get top up: %w", err)
	}
	return &o, nil
}

// UpdateTopUp actualiza estado y fecha de confirmación de una recarga.
func (r *WalletRepo) UpdateTopUp(order *entity.TopUpOrder) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE top_up_orders SET status = $2, confirmed_at = $3 WHERE id = $1`,
		order.ID, order.Status, order.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("update top up: %w", err)
	}
	return nil
}
