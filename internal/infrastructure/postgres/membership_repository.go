package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación del puerto MembershipRepository sobre PostgreSQL.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de persistencia para membresías.
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

// CreatePlan persiste un plan nuevo.
func (r *MembershipRepo) CreatePlan(plan *entity.MembershipPlan) error {
	query := `
		INSERT INTO membership_plans (id, name, description, price, duration_days, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays,
		plan.Active, plan.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert membership plan: %w", err)
	}
	return nil
}

// GetPlan obtiene un plan por ID.
func (r *MembershipRepo) GetPlan(id string) (*entity.MembershipPlan, error) {
	query := `
		SELECT id, name, description, price, duration_days, active, created_at
		FROM membership_plans WHERE id = $1`
	var p entity.MembershipPlan
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership plan: %w", err)
	}
	return &p, nil
}

// ListPlans lista los planes, opcionalmente solo los activos.
func (r *MembershipRepo) ListPlans(onlyActive bool) ([]*entity.MembershipPlan, error) {
	query := `
		SELECT id, name, description, price, duration_days, active, created_at
		FROM membership_plans`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY price`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list membership plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.MembershipPlan
	for rows.Next() {
		var p entity.MembershipPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays,
			&p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership plan: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CreateMembership persiste una membresía nueva.
func (r *MembershipRepo) CreateMembership(m *entity.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, plan_id, starts_at, expires_at, created_at, renewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.UserID, m.PlanID, m.StartsAt, m.ExpiresAt, m.CreatedAt, m.RenewedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetMembershipByUser obtiene la membresía de un usuario (a lo sumo una).
func (r *MembershipRepo) GetMembershipByUser(userID string) (*entity.Membership, error) {
	query := `
		SELECT id, user_id, plan_id, starts_at, expires_at, created_at, renewed_at
		FROM memberships WHERE user_id = $1`
	var m entity.Membership
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&m.ID, &m.UserID, &m.PlanID, &m.StartsAt, &m.ExpiresAt, &m.CreatedAt, &m.RenewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// UpdateMembership actualiza plan y fechas de una membresía (renovación).
func (r *MembershipRepo) UpdateMembership(m *entity.Membership) error {
	query := `
		UPDATE memberships SET plan_id = $2, starts_at = $3, expires_at = $4, renewed_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.PlanID, m.StartsAt, m.ExpiresAt, m.RenewedAt,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}
