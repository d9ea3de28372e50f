package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletResponse saldo actual de la billetera del cliente.
type WalletResponse struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletTransactionResponse entrada del ledger.
type WalletTransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TopUpRequest inicia una recarga contra la pasarela.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TopUpResponse datos que el cliente necesita para completar el pago.
type TopUpResponse struct {
	TopUpID        string          `json:"top_up_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	KeyID          string          `json:"key_id"`
}

// ConfirmTopUpRequest confirma el pago con la firma devuelta por la pasarela.
type ConfirmTopUpRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// MembershipPlanResponse plan de membresía disponible.
type MembershipPlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
}

// CreatePlanRequest alta de plan (admin).
type CreatePlanRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
}

// SubscribeRequest suscripción o renovación pagada desde la billetera.
type SubscribeRequest struct {
	PlanID string `json:"plan_id"`
}

// MembershipResponse membresía del cliente con estado derivado.
type MembershipResponse struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	PlanName  string    `json:"plan_name,omitempty"`
	Status    string    `json:"status"` // active | expired
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
