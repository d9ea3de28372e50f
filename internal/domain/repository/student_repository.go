package repository

import "github.com/unatienda/store-api/internal/domain/entity"

// StudentQuery filtros y orden para listados de estudiantes.
// SortBy admite: full_name, grade, created_at (whitelist en el adaptador).
type StudentQuery struct {
	Search   string // contra folded_name
	Grade    string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// StudentRepository define el puerto de persistencia para Student y los
// permisos de libros de texto por año escolar.
type StudentRepository interface {
	Create(student *entity.Student) error
	GetByID(id string) (*entity.Student, error)
	GetByExternalCode(code string) (*entity.Student, error)
	Update(student *entity.Student) error
	List(q StudentQuery) ([]*entity.Student, int, error)
	// ListAllForMatching devuelve todos los estudiantes con su nombre normalizado
	// y email del acudiente (para las sugerencias de vínculo de preventa).
	ListAllForMatching() ([]*entity.Student, error)

	GrantTextbookAccess(access *entity.TextbookAccess) error
	RevokeTextbookAccess(studentID, schoolYearID string) error
	HasTextbookAccess(studentID, schoolYearID string) (bool, error)
	ListTextbookAccess(schoolYearID string) ([]*entity.TextbookAccess, error)
}

// SchoolYearRepository define el puerto de persistencia para SchoolYear.
type SchoolYearRepository interface {
	Create(year *entity.SchoolYear) error
	GetByID(id string) (*entity.SchoolYear, error)
	GetActive() (*entity.SchoolYear, error)
	List() ([]*entity.SchoolYear, error)
	// SetActive activa el año indicado y desactiva el resto (misma transacción).
	SetActive(id string) error
}

// ConexionRepository define el puerto de persistencia para Conexion.
type ConexionRepository interface {
	Create(conexion *entity.Conexion) error
	GetByID(id string) (*entity.Conexion, error)
	ListByUser(userID string) ([]*entity.Conexion, error)
	Update(conexion *entity.Conexion) error
	// HasVerifiedLink indica si el usuario tiene al menos una conexión verificada
	// (habilita el catálogo PCA).
	HasVerifiedLink(userID string) (bool, error)
}
