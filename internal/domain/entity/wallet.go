package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de billetera.
const (
	WalletCredit = "credit" // recarga confirmada por la pasarela
	WalletDebit  = "debit"  // pago de membresía u orden
)

// Wallet billetera de un cliente. Balance nunca es negativo; todo cambio pasa
// por el ledger de transacciones dentro de una transacción de BD.
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction entrada append-only del ledger de la billetera.
type WalletTransaction struct {
	ID          string
	WalletID    string
	Type        string          // credit | debit
	Amount      decimal.Decimal // siempre positivo; Type define el signo
	Reference   string          // id de orden de pago, membresía, etc.
	Description string
	CreatedAt   time.Time
}

// Estados de una orden de recarga contra la pasarela de pagos.
const (
	TopUpCreated   = "created"
	TopUpConfirmed = "confirmed"
	TopUpFailed    = "failed"
)

// TopUpOrder orden de recarga emitida a la pasarela. La billetera solo se
// acredita cuando la firma del pago verifica y el estado pasa a confirmed.
type TopUpOrder struct {
	ID             string
	WalletID       string
	GatewayOrderID string
	Amount         decimal.Decimal
	Status         string // created | confirmed | failed
	CreatedAt      time.Time
	ConfirmedAt    *time.Time
}
