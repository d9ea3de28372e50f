package repository

import (
	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/domain/entity"
)

// WalletRepository define el puerto de persistencia para Wallet y su ledger.
type WalletRepository interface {
	Create(wallet *entity.Wallet) error
	GetByUserID(userID string) (*entity.Wallet, error)
	// GetForUpdate bloquea la fila de la billetera (SELECT FOR UPDATE); todo
	// crédito/débito pasa por aquí dentro de una transacción.
	GetForUpdate(walletID string) (*entity.Wallet, error)
	UpdateBalance(walletID string, balance decimal.Decimal) error

	CreateTransaction(tx *entity.WalletTransaction) error
	ListTransactions(walletID string, limit, offset int) ([]*entity.WalletTransaction, error)
	SumCredits() (decimal.Decimal, error)

	CreateTopUp(order *entity.TopUpOrder) error
	GetTopUpByGatewayOrder(gatewayOrderID string) (*entity.TopUpOrder, error)
	UpdateTopUp(order *entity.TopUpOrder) error
}

// MembershipRepository define el puerto de persistencia para planes y membresías.
type MembershipRepository interface {
	CreatePlan(plan *entity.MembershipPlan) error
	GetPlan(id string) (*entity.MembershipPlan, error)
	ListPlans(onlyActive bool) ([]*entity.MembershipPlan, error)

	CreateMembership(m *entity.Membership) error
	GetMembershipByUser(userID string) (*entity.Membership, error)
	UpdateMembership(m *entity.Membership) error
}
