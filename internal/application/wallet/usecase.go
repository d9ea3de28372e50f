package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/pkg/logger"
)

// PaymentGateway puerto de la pasarela de pagos (Razorpay).
type PaymentGateway interface {
	// CreateOrder registra una orden de cobro y devuelve su id en la pasarela.
	CreateOrder(amount decimal.Decimal, receipt string) (string, error)
	// VerifySignature valida la firma HMAC devuelta tras el pago.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	// KeyID clave pública que el cliente necesita para abrir el checkout.
	KeyID() string
}

// TxRunner ejecuta fn dentro de una transacción con el repositorio de
// billeteras atado a esa transacción. Crédito y ledger quedan atómicos.
type TxRunner interface {
	RunWallet(ctx context.Context, fn func(walletRepo repository.WalletRepository) error) error
}

// UseCase casos de uso de la billetera: saldo, ledger y recargas.
type UseCase struct {
	walletRepo repository.WalletRepository
	txRunner   TxRunner
	gateway    PaymentGateway
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(walletRepo repository.WalletRepository, txRunner TxRunner, gateway PaymentGateway, log *logger.Logger) *UseCase {
	return &UseCase{walletRepo: walletRepo, txRunner: txRunner, gateway: gateway, log: log}
}

// GetWallet devuelve la billetera del usuario, creándola en el primer acceso.
func (uc *UseCase) GetWallet(userID string) (*dto.WalletResponse, error) {
	w, err := uc.ensureWallet(userID)
	if err != nil {
		return nil, err
	}
	return toWalletResponse(w), nil
}

// ListTransactions lista el ledger de la billetera del usuario.
func (uc *UseCase) ListTransactions(userID string, limit, offset int) ([]dto.WalletTransactionResponse, error) {
	w, err := uc.ensureWallet(userID)
	if err != nil {
		return nil, err
	}
	list, err := uc.walletRepo.ListTransactions(w.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WalletTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.WalletTransactionResponse{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Reference:   t.Reference,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out, nil
}

// InitiateTopUp crea una orden de recarga en la pasarela. El saldo no cambia
// hasta que el pago se confirme con firma válida.
func (uc *UseCase) InitiateTopUp(userID string, in dto.TopUpRequest) (*dto.TopUpResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	w, err := uc.ensureWallet(userID)
	if err != nil {
		return nil, err
	}
	topUpID := uuid.New().String()
	gatewayOrderID, err := uc.gateway.CreateOrder(in.Amount, topUpID)
	if err != nil {
		return nil, err
	}
	order := &entity.TopUpOrder{
		ID:             topUpID,
		WalletID:       w.ID,
		GatewayOrderID: gatewayOrderID,
		Amount:         in.Amount,
		Status:         entity.TopUpCreated,
		CreatedAt:      time.Now(),
	}
	if err := uc.walletRepo.CreateTopUp(order); err != nil {
		return nil, err
	}
	return &dto.TopUpResponse{
		TopUpID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.Amount,
		KeyID:          uc.gateway.KeyID(),
	}, nil
}

// ConfirmTopUp verifica la firma del pago y acredita la billetera. Crédito,
// ledger y cambio de estado de la recarga ocurren en una sola transacción.
// Una recarga ya confirmada devuelve conflicto sin acreditar de nuevo.
func (uc *UseCase) ConfirmTopUp(ctx context.Context, userID string, in dto.ConfirmTopUpRequest) (*dto.WalletResponse, error) {
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return nil, domain.ErrInvalidInput
	}
	if !uc.gateway.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		return nil, domain.ErrUnauthorized
	}

	var out *dto.WalletResponse
	err := uc.txRunner.RunWallet(ctx, func(walletRepo repository.WalletRepository) error {
		order, err := walletRepo.GetTopUpByGatewayOrder(in.GatewayOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.TopUpConfirmed {
			return domain.ErrConflict
		}
		w, err := walletRepo.GetForUpdate(order.WalletID)
		if err != nil {
			return err
		}
		if w == nil || w.UserID != userID {
			return domain.ErrNotFound
		}
		newBalance := w.Balance.Add(order.Amount)
		if err := walletRepo.UpdateBalance(w.ID, newBalance); err != nil {
			return err
		}
		if err := walletRepo.CreateTransaction(&entity.WalletTransaction{
			ID:          uuid.New().String(),
			WalletID:    w.ID,
			Type:        entity.WalletCredit,
			Amount:      order.Amount,
			Reference:   order.ID,
			Description: "Recarga de billetera",
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		now := time.Now()
		order.Status = entity.TopUpConfirmed
		order.ConfirmedAt = &now
		if err := walletRepo.UpdateTopUp(order); err != nil {
			return err
		}
		w.Balance = newBalance
		w.UpdatedAt = now
		out = toWalletResponse(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("gateway_order_id", in.GatewayOrderID).Msg("Recarga confirmada")
	return out, nil
}

func (uc *UseCase) ensureWallet(userID string) (*entity.Wallet, error) {
	w, err := uc.walletRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	now := time.Now()
	w = &entity.Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.walletRepo.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

func toWalletResponse(w *entity.Wallet) *dto.WalletResponse {
	return &dto.WalletResponse{ID: w.ID, Balance: w.Balance, UpdatedAt: w.UpdatedAt}
}
