package membership_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/membership"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeWalletRepo struct {
	wallets      map[string]*entity.Wallet
	transactions []*entity.WalletTransaction
}

func (r *fakeWalletRepo) Create(w *entity.Wallet) error { r.wallets[w.ID] = w; return nil }
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
func (r *fakeWalletRepo) ListTransactions(string, int, int) ([]*entity.WalletTransaction, error) {
	return nil, nil
}
func (r *fakeWalletRepo) SumCredits() (decimal.Decimal, error)              { return decimal.Zero, nil }
func (r *fakeWalletRepo) CreateTopUp(*entity.TopUpOrder) error              { return nil }
func (r *fakeWalletRepo) GetTopUpByGatewayOrder(string) (*entity.TopUpOrder, error) {
	return nil, nil
}
func (r *fakeWalletRepo) UpdateTopUp(*entity.TopUpOrder) error { return nil }

type fakeMembershipRepo struct {
	plans       map[string]*entity.MembershipPlan
	memberships map[string]*entity.Membership // por userID
}

func (r *fakeMembershipRepo) CreatePlan(p *entity.MembershipPlan) error { r.plans[p.ID] = p; return nil }
func (r *fakeMembershipRepo) GetPlan(id string) (*entity.MembershipPlan, error) {
	return r.plans[id], nil
}
func (r *fakeMembershipRepo) ListPlans(onlyActive bool) ([]*entity.MembershipPlan, error) {
	var out []*entity.MembershipPlan
	for _, p := range r.plans {
		if !onlyActive || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeMembershipRepo) CreateMembership(m *entity.Membership) error {
	r.memberships[m.UserID] = m
	return nil
}
func (r *fakeMembershipRepo) GetMembershipByUser(userID string) (*entity.Membership, error) {
	return r.memberships[userID], nil
}
func (r *fakeMembershipRepo) UpdateMembership(m *entity.Membership) error {
	r.memberships[m.UserID] = m
	return nil
}

type fakeTxRunner struct {
	wallets     *fakeWalletRepo
	memberships *fakeMembershipRepo
}

func (t *fakeTxRunner) RunMembership(_ context.Context, fn func(repository.WalletRepository, repository.MembershipRepository) error) error {
	return fn(t.wallets, t.memberships)
}

func newUseCase(balance decimal.Decimal) (*membership.UseCase, *fakeWalletRepo, *fakeMembershipRepo, *entity.MembershipPlan) {
	wallets := &fakeWalletRepo{wallets: map[string]*entity.Wallet{}}
	memberships := &fakeMembershipRepo{
		plans:       map[string]*entity.MembershipPlan{},
		memberships: map[string]*entity.Membership{},
	}
	wallets.wallets["w1"] = &entity.Wallet{ID: "w1", UserID: "u1", Balance: balance}
	plan := &entity.MembershipPlan{
		ID:           "plan-1",
		Name:         "Mensual",
		Price:        decimal.NewFromInt(250),
		DurationDays: 30,
		Active:       true,
	}
	memberships.plans[plan.ID] = plan
	uc := membership.NewUseCase(memberships, wallets, &fakeTxRunner{wallets: wallets, memberships: memberships})
	return uc, wallets, memberships, plan
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Saldo insuficiente: no se crea membresía ni se debita nada.
func TestSubscribe_SaldoInsuficiente(t *testing.T) {
	uc, wallets, memberships, _ := newUseCase(decimal.NewFromInt(100))

	_, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: "plan-1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.True(t, wallets.wallets["w1"].Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, wallets.transactions)
	assert.Empty(t, memberships.memberships)
}

// Sin billetera tampoco hay fondos.
func TestSubscribe_SinBilletera(t *testing.T) {
	uc, _, _, _ := newUseCase(decimal.NewFromInt(500))

	_, err := uc.Subscribe(context.Background(), "u2", dto.SubscribeRequest{PlanID: "plan-1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

// La fila de la billetera desaparece entre la búsqueda y el bloqueo.
func TestSubscribe_BilleteraNoBloqueableEsNotFound(t *testing.T) {
	uc, wallets, _, plan := newUseCase(decimal.NewFromInt(500))
	w := wallets.wallets["w1"]
	delete(wallets.wallets, "w1")
	wallets.wallets["huerfana"] = w
	w.ID = "w1-borrada"

	_, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: plan.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscribe_PlanInexistenteOInactivo(t *testing.T) {
	uc, _, memberships, plan := newUseCase(decimal.NewFromInt(500))

	_, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	plan.Active = false
	memberships.plans[plan.ID] = plan
	_, err = uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: plan.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Alta nueva: debita el precio, registra el débito y crea la membresía.
func TestSubscribe_AltaNueva(t *testing.T) {
	uc, wallets, memberships, plan := newUseCase(decimal.NewFromInt(500))

	out, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: plan.ID})
	require.NoError(t, err)

	assert.Equal(t, "active", out.Status)
	assert.Equal(t, plan.Name, out.PlanName)
	assert.True(t, wallets.wallets["w1"].Balance.Equal(decimal.NewFromInt(250)))

	require.Len(t, wallets.transactions, 1)
	assert.Equal(t, entity.WalletDebit, wallets.transactions[0].Type)
	assert.Equal(t, "Membresía: Mensual", wallets.transactions[0].Description)

	m := memberships.memberships["u1"]
	require.NotNil(t, m)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), m.ExpiresAt, time.Minute)
}

// Renovación con membresía vigente: el nuevo período extiende desde ExpiresAt.
func TestSubscribe_RenovacionExtiendeDesdeExpiracion(t *testing.T) {
	uc, _, memberships, plan := newUseCase(decimal.NewFromInt(500))

	expires := time.Now().Add(10 * 24 * time.Hour)
	memberships.memberships["u1"] = &entity.Membership{
		ID:        "m1",
		UserID:    "u1",
		PlanID:    plan.ID,
		StartsAt:  time.Now().Add(-20 * 24 * time.Hour),
		ExpiresAt: expires,
	}

	out, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: plan.ID})
	require.NoError(t, err)

	assert.WithinDuration(t, expires.Add(30*24*time.Hour), out.ExpiresAt, time.Second,
		"la renovación vigente debe extender desde la expiración actual")
}

// Renovación con membresía vencida: el período arranca ahora.
func TestSubscribe_RenovacionVencidaArrancaAhora(t *testing.T) {
	uc, _, memberships, plan := newUseCase(decimal.NewFromInt(500))

	memberships.memberships["u1"] = &entity.Membership{
		ID:        "m1",
		UserID:    "u1",
		PlanID:    plan.ID,
		StartsAt:  time.Now().Add(-60 * 24 * time.Hour),
		ExpiresAt: time.Now().Add(-30 * 24 * time.Hour),
	}

	out, err := uc.Subscribe(context.Background(), "u1", dto.SubscribeRequest{PlanID: plan.ID})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), out.ExpiresAt, time.Minute)
	assert.WithinDuration(t, time.Now(), out.StartsAt, time.Minute,
		"una membresía vencida arranca su período desde ahora")
}

func TestCreatePlan_Validacion(t *testing.T) {
	uc, _, _, _ := newUseCase(decimal.Zero)

	_, err := uc.CreatePlan(dto.CreatePlanRequest{Name: "", Price: decimal.NewFromInt(100), DurationDays: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreatePlan(dto.CreatePlanRequest{Name: "Plan", Price: decimal.Zero, DurationDays: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreatePlan(dto.CreatePlanRequest{Name: "Plan", Price: decimal.NewFromInt(100), DurationDays: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
