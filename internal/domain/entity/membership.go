package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipPlan plan de membresía (precio y duración en días).
type MembershipPlan struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	DurationDays int
	Active       bool
	CreatedAt    time.Time
}

// Membership membresía de un cliente. El estado se deriva de ExpiresAt.
type Membership struct {
	ID        string
	UserID    string
	PlanID    string
	StartsAt  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	RenewedAt *time.Time
}

// IsActive indica si la membresía está vigente en el instante dado.
func (m *Membership) IsActive(now time.Time) bool {
	return now.Before(m.ExpiresAt)
}
