package entity

import "time"

// Student representa un estudiante PCA registrado en la plataforma.
type Student struct {
	ID            string
	FullName      string
	FoldedName    string // nombre sin acentos para búsqueda y matching de preventa
	Grade         string
	GuardianEmail string
	ExternalCode  string // código del sistema académico del colegio
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SchoolYear año escolar; a lo sumo uno está activo.
type SchoolYear struct {
	ID        string
	Label     string // ej. "2026-2027"
	StartsAt  time.Time
	EndsAt    time.Time
	Active    bool
	CreatedAt time.Time
}

// TextbookAccess habilita a un estudiante el catálogo de libros de un año escolar.
type TextbookAccess struct {
	ID           string
	StudentID    string
	SchoolYearID string
	GrantedBy    string // UserID del admin
	GrantedAt    time.Time
}

// Estados de una conexión cliente-estudiante.
const (
	ConexionPending  = "pending"
	ConexionVerified = "verified"
	ConexionRevoked  = "revoked"
)

// Conexion vincula una cuenta de cliente con un estudiante mediante un código
// de verificación emitido por el admin. Solo las conexiones verificadas abren
// el catálogo PCA.
type Conexion struct {
	ID               string
	UserID           string
	StudentID        string
	Status           string // pending | verified | revoked
	VerificationCode string
	CodeExpiresAt    time.Time
	CreatedAt        time.Time
	VerifiedAt       *time.Time
}
