package students

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/matching"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// codeTTL vigencia del código de verificación de una conexión.
const codeTTL = 72 * time.Hour

// RosterExporter puerto de exportación del padrón de estudiantes (xlsx).
type RosterExporter interface {
	Export(students []*entity.Student) ([]byte, error)
}

// UseCase casos de uso de estudiantes, años escolares, permisos de libros de
// texto y conexiones cliente-estudiante.
type UseCase struct {
	studentRepo  repository.StudentRepository
	yearRepo     repository.SchoolYearRepository
	conexionRepo repository.ConexionRepository
	exporter     RosterExporter
}

// NewUseCase construye el caso de uso.
func NewUseCase(studentRepo repository.StudentRepository, yearRepo repository.SchoolYearRepository, conexionRepo repository.ConexionRepository, exporter RosterExporter) *UseCase {
	return &UseCase{studentRepo: studentRepo, yearRepo: yearRepo, conexionRepo: conexionRepo, exporter: exporter}
}

// CreateStudent registra un estudiante.
func (uc *UseCase) CreateStudent(in dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if in.FullName == "" || in.Grade == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ExternalCode != "" {
		existing, _ := uc.studentRepo.GetByExternalCode(in.ExternalCode)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	student := &entity.Student{
		ID:            uuid.New().String(),
		FullName:      in.FullName,
		FoldedName:    matching.Fold(in.FullName),
		Grade:         in.Grade,
		GuardianEmail: in.GuardianEmail,
		ExternalCode:  in.ExternalCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.studentRepo.Create(student); err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// GetStudent obtiene un estudiante por ID.
func (uc *UseCase) GetStudent(id string) (*dto.StudentResponse, error) {
	student, err := uc.studentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	return toStudentResponse(student), nil
}

// ListStudents lista estudiantes con búsqueda sin acentos.
func (uc *UseCase) ListStudents(q repository.StudentQuery) (*dto.StudentListResponse, error) {
	q.Search = matching.Fold(q.Search)
	list, total, err := uc.studentRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StudentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStudentResponse(s))
	}
	return &dto.StudentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// ExportRoster genera el padrón completo en xlsx.
func (uc *UseCase) ExportRoster() ([]byte, error) {
	list, err := uc.studentRepo.ListAllForMatching()
	if err != nil {
		return nil, err
	}
	return uc.exporter.Export(list)
}

// CreateSchoolYear registra un año escolar (inactivo hasta activarlo).
func (uc *UseCase) CreateSchoolYear(in dto.CreateSchoolYearRequest) (*dto.SchoolYearResponse, error) {
	if in.Label == "" || !in.EndsAt.After(in.StartsAt) {
		return nil, domain.ErrInvalidInput
	}
	year := &entity.SchoolYear{
		ID:        uuid.New().String(),
		Label:     in.Label,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		CreatedAt: time.Now(),
	}
	if err := uc.yearRepo.Create(year); err != nil {
		return nil, err
	}
	return toSchoolYearResponse(year), nil
}

// ListSchoolYears lista los años escolares.
func (uc *UseCase) ListSchoolYears() ([]dto.SchoolYearResponse, error) {
	list, err := uc.yearRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.SchoolYearResponse, 0, len(list))
	for _, y := range list {
		out = append(out, *toSchoolYearResponse(y))
	}
	return out, nil
}

// ActivateSchoolYear activa el año indicado y desactiva los demás.
func (uc *UseCase) ActivateSchoolYear(id string) error {
	year, err := uc.yearRepo.GetByID(id)
	if err != nil {
		return err
	}
	if year == nil {
		return domain.ErrNotFound
	}
	return uc.yearRepo.SetActive(id)
}

// GrantAccess otorga acceso a libros de texto a un estudiante para un año.
// Si se omite el año, usa el activo.
func (uc *UseCase) GrantAccess(adminID string, in dto.GrantAccessRequest) (*dto.TextbookAccessResponse, error) {
	if in.StudentID == "" {
		return nil, domain.ErrInvalidInput
	}
	student, err := uc.studentRepo.GetByID(in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	yearID := in.SchoolYearID
	if yearID == "" {
		active, err := uc.yearRepo.GetActive()
		if err != nil {
			return nil, err
		}
		if active == nil {
			return nil, domain.ErrInvalidInput
		}
		yearID = active.ID
	}
	has, err := uc.studentRepo.HasTextbookAccess(in.StudentID, yearID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, domain.ErrDuplicate
	}
	access := &entity.TextbookAccess{
		ID:           uuid.New().String(),
		StudentID:    in.StudentID,
		SchoolYearID: yearID,
		GrantedBy:    adminID,
		GrantedAt:    time.Now(),
	}
	if err := uc.studentRepo.GrantTextbookAccess(access); err != nil {
		return nil, err
	}
	return &dto.TextbookAccessResponse{
		ID:           access.ID,
		StudentID:    access.StudentID,
		SchoolYearID: access.SchoolYearID,
		GrantedAt:    access.GrantedAt,
	}, nil
}

// RevokeAccess revoca el acceso de un estudiante para un año escolar.
func (uc *UseCase) RevokeAccess(studentID, schoolYearID string) error {
	return uc.studentRepo.RevokeTextbookAccess(studentID, schoolYearID)
}

// ListAccess lista los permisos otorgados para un año escolar.
func (uc *UseCase) ListAccess(schoolYearID string) ([]dto.TextbookAccessResponse, error) {
	list, err := uc.studentRepo.ListTextbookAccess(schoolYearID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TextbookAccessResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.TextbookAccessResponse{
			ID:           a.ID,
			StudentID:    a.StudentID,
			SchoolYearID: a.SchoolYearID,
			GrantedAt:    a.GrantedAt,
		})
	}
	return out, nil
}

// CreateConexion emite un código de verificación para vincular un cliente con
// un estudiante. El cliente debe confirmarlo antes de que expire.
func (uc *UseCase) CreateConexion(in dto.CreateConexionRequest) (*dto.ConexionResponse, error) {
	if in.UserID == "" || in.StudentID == "" {
		return nil, domain.ErrInvalidInput
	}
	student, err := uc.studentRepo.GetByID(in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	code, err := verificationCode()
	if err != nil {
		return nil, err
	}
	conexion := &entity.Conexion{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		StudentID:        in.StudentID,
		Status:           entity.ConexionPending,
		VerificationCode: code,
		CodeExpiresAt:    time.Now().Add(codeTTL),
		CreatedAt:        time.Now(),
	}
	if err := uc.conexionRepo.Create(conexion); err != nil {
		return nil, err
	}
	return toConexionResponse(conexion, student.FullName), nil
}

// VerifyConexion el cliente confirma el vínculo con el código recibido.
func (uc *UseCase) VerifyConexion(userID string, in dto.VerifyConexionRequest) (*dto.ConexionResponse, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.conexionRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.Status != entity.ConexionPending || c.VerificationCode != in.Code {
			continue
		}
		if time.Now().After(c.CodeExpiresAt) {
			return nil, domain.ErrCodeExpired
		}
		now := time.Now()
		c.Status = entity.ConexionVerified
		c.VerifiedAt = &now
		if err := uc.conexionRepo.Update(c); err != nil {
			return nil, err
		}
		return toConexionResponse(c, ""), nil
	}
	return nil, domain.ErrNotFound
}

// RevokeConexion el admin revoca un vínculo; el usuario pierde el catálogo PCA
// si era su única conexión verificada.
func (uc *UseCase) RevokeConexion(id string) error {
	c, err := uc.conexionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	c.Status = entity.ConexionRevoked
	return uc.conexionRepo.Update(c)
}

// ListConexiones lista las conexiones del usuario.
func (uc *UseCase) ListConexiones(userID string) ([]dto.ConexionResponse, error) {
	list, err := uc.conexionRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConexionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toConexionResponse(c, ""))
	}
	return out, nil
}

// HasVerifiedLink indica si el usuario puede ver el catálogo PCA.
func (uc *UseCase) HasVerifiedLink(userID string) (bool, error) {
	return uc.conexionRepo.HasVerifiedLink(userID)
}

// verificationCode genera un código de 6 dígitos con crypto/rand.
func verificationCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}

func toStudentResponse(s *entity.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:            s.ID,
		FullName:      s.FullName,
		Grade:         s.Grade,
		GuardianEmail: s.GuardianEmail,
		ExternalCode:  s.ExternalCode,
		CreatedAt:     s.CreatedAt,
	}
}

func toSchoolYearResponse(y *entity.SchoolYear) *dto.SchoolYearResponse {
	return &dto.SchoolYearResponse{
		ID:       y.ID,
		Label:    y.Label,
		StartsAt: y.StartsAt,
		EndsAt:   y.EndsAt,
		Active:   y.Active,
	}
}

func toConexionResponse(c *entity.Conexion, studentName string) *dto.ConexionResponse {
	return &dto.ConexionResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		StudentID:   c.StudentID,
		StudentName: studentName,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		VerifiedAt:  c.VerifiedAt,
	}
}
