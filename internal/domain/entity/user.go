package entity

import "time"

// Roles de usuario. Los admin/staff operan los paneles; los customer compran y
// consultan billetera, membresías y conexiones.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User representa una cuenta de la plataforma (panel admin o cliente).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin, staff, customer
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
