package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// TxRunner ejecuta fn con los repositorios de billetera y membresía atados a
// una misma transacción: el débito y el alta/renovación son atómicos.
type TxRunner interface {
	RunMembership(ctx context.Context, fn func(walletRepo repository.WalletRepository, membershipRepo repository.MembershipRepository) error) error
}

// UseCase casos de uso de planes y membresías pagadas desde la billetera.
type UseCase struct {
	membershipRepo repository.MembershipRepository
	walletRepo     repository.WalletRepository
	txRunner       TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(membershipRepo repository.MembershipRepository, walletRepo repository.WalletRepository, txRunner TxRunner) *UseCase {
	return &UseCase{membershipRepo: membershipRepo, walletRepo: walletRepo, txRunner: txRunner}
}

// CreatePlan alta de plan (admin).
func (uc *UseCase) CreatePlan(in dto.CreatePlanRequest) (*dto.MembershipPlanResponse, error) {
	if in.Name == "" || !in.Price.IsPositive() || in.DurationDays < 1 {
		return nil, domain.ErrInvalidInput
	}
	plan := &entity.MembershipPlan{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		DurationDays: in.DurationDays,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.membershipRepo.CreatePlan(plan); err != nil {
		return nil, err
	}
	return toPlanResponse(plan), nil
}

// ListPlans lista los planes activos.
func (uc *UseCase) ListPlans() ([]dto.MembershipPlanResponse, error) {
	list, err := uc.membershipRepo.ListPlans(true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MembershipPlanResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPlanResponse(p))
	}
	return out, nil
}

// GetMembership devuelve la membresía del usuario con su estado derivado.
func (uc *UseCase) GetMembership(userID string) (*dto.MembershipResponse, error) {
	m, err := uc.membershipRepo.GetMembershipByUser(userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.membershipRepo.GetPlan(m.PlanID)
	if err != nil {
		return nil, err
	}
	return toMembershipResponse(m, plan), nil
}

// Subscribe suscribe (o renueva) al usuario debitando la billetera. Si la
// membresía sigue vigente, la renovación extiende desde la fecha de expiración;
// si ya venció, el nuevo período arranca ahora. Saldo insuficiente no muta nada.
func (uc *UseCase) Subscribe(ctx context.Context, userID string, in dto.SubscribeRequest) (*dto.MembershipResponse, error) {
	if in.PlanID == "" {
		return nil, domain.ErrInvalidInput
	}
	plan, err := uc.membershipRepo.GetPlan(in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, domain.ErrNotFound
	}

	var out *dto.MembershipResponse
	err = uc.txRunner.RunMembership(ctx, func(walletRepo repository.WalletRepository, membershipRepo repository.MembershipRepository) error {
		w, err := walletRepo.GetByUserID(userID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.ErrInsufficientFunds
		}
		w, err = walletRepo.GetForUpdate(w.ID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.ErrNotFound
		}
		if w.Balance.LessThan(plan.Price) {
			return domain.ErrInsufficientFunds
		}

		now := time.Now()
		m, err := membershipRepo.GetMembershipByUser(userID)
		if err != nil {
			return err
		}
		duration := time.Duration(plan.DurationDays) * 24 * time.Hour
		if m == nil {
			m = &entity.Membership{
				ID:        uuid.New().String(),
				UserID:    userID,
				PlanID:    plan.ID,
				StartsAt:  now,
				ExpiresAt: now.Add(duration),
				CreatedAt: now,
			}
			if err := membershipRepo.CreateMembership(m); err != nil {
				return err
			}
		} else {
			base := now
			if m.IsActive(now) {
				base = m.ExpiresAt
			} else {
				m.StartsAt = now
			}
			m.PlanID = plan.ID
			m.ExpiresAt = base.Add(duration)
			m.RenewedAt = &now
			if err := membershipRepo.UpdateMembership(m); err != nil {
				return err
			}
		}

		if err := walletRepo.UpdateBalance(w.ID, w.Balance.Sub(plan.Price)); err != nil {
			return err
		}
		if err := walletRepo.CreateTransaction(&entity.WalletTransaction{
			ID:          uuid.New().String(),
			WalletID:    w.ID,
			Type:        entity.WalletDebit,
			Amount:      plan.Price,
			Reference:   m.ID,
			Description: "Membresía: " + plan.Name,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		out = toMembershipResponse(m, plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toPlanResponse(p *entity.MembershipPlan) *dto.MembershipPlanResponse {
	return &dto.MembershipPlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
	}
}

func toMembershipResponse(m *entity.Membership, plan *entity.MembershipPlan) *dto.MembershipResponse {
	status := "expired"
	if m.IsActive(time.Now()) {
		status = "active"
	}
	planName := ""
	if plan != nil {
		planName = plan.Name
	}
	return &dto.MembershipResponse{
		ID:        m.ID,
		PlanID:    m.PlanID,
		PlanName:  planName,
		Status:    status,
		StartsAt:  m.StartsAt,
		ExpiresAt: m.ExpiresAt,
	}
}
