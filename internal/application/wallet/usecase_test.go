package wallet_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/wallet"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeWalletRepo struct {
	wallets      map[string]*entity.Wallet // por walletID
	topUps       map[string]*entity.TopUpOrder
	transactions []*entity.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets: map[string]*entity.Wallet{},
		topUps:  map[string]*entity.TopUpOrder{},
	}
}

func (r *fakeWalletRepo) Create(w *entity.Wallet) error {
	r.wallets[w.ID] = w
	return nil
}
func (r *fakeWalletRepo) GetByUserID(userID string) (*entity.Wallet, error) {
	for _, w := range r.wallets {
		if w.UserID == userID {
			return w, nil
		}
	}
	return nil, nil
}
func (r *fakeWalletRepo) GetForUpdate(walletID string) (*entity.Wallet, error) {
	return r.wallets[walletID], nil
}
func (r *fakeWalletRepo) UpdateBalance(walletID string, balance decimal.Decimal) error {
	r.wallets[walletID].Balance = balance
	return nil
}
func (r *fakeWalletRepo) CreateTransaction(tx *entity.WalletTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}
func (r *fakeWalletRepo) ListTransactions(walletID string, limit, offset int) ([]*entity.WalletTransaction, error) {
	var out []*entity.WalletTransaction
	for _, t := range r.transactions {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (r *fakeWalletRepo) SumCredits() (decimal.Decimal, error) { return decimal.Zero, nil }
func (r *fakeWalletRepo) CreateTopUp(order *entity.TopUpOrder) error {
	r.topUps[order.GatewayOrderID] = order
	return nil
}
func (r *fakeWalletRepo) GetTopUpByGatewayOrder(gatewayOrderID string) (*entity.TopUpOrder, error) {
	return r.topUps[gatewayOrderID], nil
}
func (r *fakeWalletRepo) UpdateTopUp(order *entity.TopUpOrder) error {
	r.topUps[order.GatewayOrderID] = order
	return nil
}

type fakeGateway struct {
	orders       int
	validSig     string
	lastOrderID  string
	failOnCreate bool
}

func (g *fakeGateway) CreateOrder(amount decimal.Decimal, receipt string) (string, error) {
	if g.failOnCreate {
		return "", assert.AnError
	}
	g.orders++
	g.lastOrderID = "order_test"
	return g.lastOrderID, nil
}
func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.validSig
}
func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakeTxRunner struct {
	repo *fakeWalletRepo
}

func (t *fakeTxRunner) RunWallet(_ context.Context, fn func(repository.WalletRepository) error) error {
	return fn(t.repo)
}

func newUseCase() (*wallet.UseCase, *fakeWalletRepo, *fakeGateway) {
	repo := newFakeWalletRepo()
	gw := &fakeGateway{validSig: "firma-valida"}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := wallet.NewUseCase(repo, &fakeTxRunner{repo: repo}, gw, log)
	return uc, repo, gw
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// La billetera se crea con saldo cero en el primer acceso.
func TestGetWallet_CreaBilleteraEnPrimerAcceso(t *testing.T) {
	uc, repo, _ := newUseCase()

	out, err := uc.GetWallet("u1")
	require.NoError(t, err)
	assert.True(t, out.Balance.IsZero(), "la billetera nueva debe arrancar en cero")
	assert.Len(t, repo.wallets, 1)

	// Un segundo acceso no crea otra billetera.
	again, err := uc.GetWallet("u1")
	require.NoError(t, err)
	assert.Equal(t, out.ID, again.ID)
	assert.Len(t, repo.wallets, 1)
}

func TestInitiateTopUp_MontoNoPositivo(t *testing.T) {
	uc, _, _ := newUseCase()

	_, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(-50)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInitiateTopUp_CreaOrdenEnPasarela(t *testing.T) {
	uc, repo, gw := newUseCase()

	out, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	assert.Equal(t, 1, gw.orders, "debe crearse una orden en la pasarela")
	assert.Equal(t, "order_test", out.GatewayOrderID)
	assert.Equal(t, "rzp_test_key", out.KeyID)

	order := repo.topUps[out.GatewayOrderID]
	require.NotNil(t, order)
	assert.Equal(t, entity.TopUpCreated, order.Status)
}

// Una firma inválida no acredita saldo.
func TestConfirmTopUp_FirmaInvalida(t *testing.T) {
	uc, repo, _ := newUseCase()

	_, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = uc.ConfirmTopUp(context.Background(), "u1", dto.ConfirmTopUpRequest{
		GatewayOrderID:   "order_test",
		GatewayPaymentID: "pay_1",
		Signature:        "firma-falsa",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	w, _ := repo.GetByUserID("u1")
	assert.True(t, w.Balance.IsZero(), "el saldo no debe cambiar con firma inválida")
	assert.Empty(t, repo.transactions)
}

// Confirmación válida: acredita saldo, registra en el ledger y marca la recarga.
func TestConfirmTopUp_AcreditaSaldo(t *testing.T) {
	uc, repo, _ := newUseCase()

	_, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	out, err := uc.ConfirmTopUp(context.Background(), "u1", dto.ConfirmTopUpRequest{
		GatewayOrderID:   "order_test",
		GatewayPaymentID: "pay_1",
		Signature:        "firma-valida",
	})
	require.NoError(t, err)

	assert.True(t, out.Balance.Equal(decimal.NewFromInt(500)))
	require.Len(t, repo.transactions, 1)
	assert.Equal(t, entity.WalletCredit, repo.transactions[0].Type)
	assert.Equal(t, entity.TopUpConfirmed, repo.topUps["order_test"].Status)
}

// Confirmar dos veces la misma recarga devuelve conflicto sin doble crédito.
func TestConfirmTopUp_RepetirConfirmacionEsConflicto(t *testing.T) {
	uc, repo, _ := newUseCase()

	_, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	in := dto.ConfirmTopUpRequest{
		GatewayOrderID:   "order_test",
		GatewayPaymentID: "pay_1",
		Signature:        "firma-valida",
	}
	_, err = uc.ConfirmTopUp(context.Background(), "u1", in)
	require.NoError(t, err)

	_, err = uc.ConfirmTopUp(context.Background(), "u1", in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	w, _ := repo.GetByUserID("u1")
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(500)), "el saldo debe acreditarse una sola vez")
	assert.Len(t, repo.transactions, 1)
}

// Una recarga de otro usuario no se puede confirmar desde otra cuenta.
func TestConfirmTopUp_BilleteraAjena(t *testing.T) {
	uc, _, _ := newUseCase()

	_, err := uc.InitiateTopUp("u1", dto.TopUpRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = uc.ConfirmTopUp(context.Background(), "u2", dto.ConfirmTopUpRequest{
		GatewayOrderID:   "order_test",
		GatewayPaymentID: "pay_1",
		Signature:        "firma-valida",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
