package students_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/students"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStudentRepo struct {
	students map[string]*entity.Student
	access   map[string]bool // studentID+yearID
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]*entity.Student{}, access: map[string]bool{}}
}

func (r *fakeStudentRepo) Create(s *entity.Student) error { r.students[s.ID] = s; return nil }
func (r *fakeStudentRepo) GetByID(id string) (*entity.Student, error) {
	return r.students[id], nil
}
func (r *fakeStudentRepo) GetByExternalCode(code string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.ExternalCode == code {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeStudentRepo) Update(s *entity.Student) error { r.students[s.ID] = s; return nil }
func (r *fakeStudentRepo) List(q repository.StudentQuery) ([]*entity.Student, int, error) {
	var out []*entity.Student
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, len(out), nil
}
func (r *fakeStudentRepo) ListAllForMatching() ([]*entity.Student, error) { return nil, nil }
func (r *fakeStudentRepo) GrantTextbookAccess(a *entity.TextbookAccess) error {
	r.access[a.StudentID+a.SchoolYearID] = true
	return nil
}
func (r *fakeStudentRepo) RevokeTextbookAccess(studentID, yearID string) error {
	delete(r.access, studentID+yearID)
	return nil
}
func (r *fakeStudentRepo) HasTextbookAccess(studentID, yearID string) (bool, error) {
	return r.access[studentID+yearID], nil
}
func (r *fakeStudentRepo) ListTextbookAccess(string) ([]*entity.TextbookAccess, error) {
	return nil, nil
}

type fakeYearRepo struct {
	years  map[string]*entity.SchoolYear
	active string
}

func (r *fakeYearRepo) Create(y *entity.SchoolYear) error { r.years[y.ID] = y; return nil }
func (r *fakeYearRepo) GetByID(id string) (*entity.SchoolYear, error) {
	return r.years[id], nil
}
func (r *fakeYearRepo) GetActive() (*entity.SchoolYear, error) {
	if r.active == "" {
		return nil, nil
	}
	return r.years[r.active], nil
}
func (r *fakeYearRepo) List() ([]*entity.SchoolYear, error) { return nil, nil }
func (r *fakeYearRepo) SetActive(id string) error           { r.active = id; return nil }

type fakeConexionRepo struct {
	conexiones map[string]*entity.Conexion
}

func (r *fakeConexionRepo) Create(c *entity.Conexion) error { r.conexiones[c.ID] = c; return nil }
func (r *fakeConexionRepo) GetByID(id string) (*entity.Conexion, error) {
	return r.conexiones[id], nil
}
func (r *fakeConexionRepo) ListByUser(userID string) ([]*entity.Conexion, error) {
	var out []*entity.Conexion
	for _, c := range r.conexiones {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeConexionRepo) Update(c *entity.Conexion) error { r.conexiones[c.ID] = c; return nil }
func (r *fakeConexionRepo) HasVerifiedLink(userID string) (bool, error) {
	for _, c := range r.conexiones {
		if c.UserID == userID && c.Status == entity.ConexionVerified {
			return true, nil
		}
	}
	return false, nil
}

func newUseCase() (*students.UseCase, *fakeStudentRepo, *fakeYearRepo, *fakeConexionRepo) {
	studentRepo := newFakeStudentRepo()
	yearRepo := &fakeYearRepo{years: map[string]*entity.SchoolYear{}}
	conexionRepo := &fakeConexionRepo{conexiones: map[string]*entity.Conexion{}}
	uc := students.NewUseCase(studentRepo, yearRepo, conexionRepo, nil)
	return uc, studentRepo, yearRepo, conexionRepo
}

func mustCreateStudent(t *testing.T, uc *students.UseCase) string {
	t.Helper()
	out, err := uc.CreateStudent(dto.CreateStudentRequest{
		FullName:      "María José Pérez",
		Grade:         "5A",
		GuardianEmail: "acudiente@example.com",
		ExternalCode:  "EXT-001",
	})
	require.NoError(t, err)
	return out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests estudiantes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStudent_CodigoExternoDuplicado(t *testing.T) {
	uc, _, _, _ := newUseCase()
	mustCreateStudent(t, uc)

	_, err := uc.CreateStudent(dto.CreateStudentRequest{
		FullName:     "Otro Estudiante",
		Grade:        "3B",
		ExternalCode: "EXT-001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateStudent_GuardaNombrePlegado(t *testing.T) {
	uc, repo, _, _ := newUseCase()
	id := mustCreateStudent(t, uc)

	assert.Equal(t, "maria jose perez", repo.students[id].FoldedName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests accesos a libros de texto
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantAccess_UsaAnioActivoPorDefecto(t *testing.T) {
	uc, _, yearRepo, _ := newUseCase()
	studentID := mustCreateStudent(t, uc)

	yearRepo.years["y1"] = &entity.SchoolYear{ID: "y1", Label: "2026-2027"}
	yearRepo.active = "y1"

	out, err := uc.GrantAccess("admin-1", dto.GrantAccessRequest{StudentID: studentID})
	require.NoError(t, err)
	assert.Equal(t, "y1", out.SchoolYearID)
}

func TestGrantAccess_SinAnioActivoNiIndicado(t *testing.T) {
	uc, _, _, _ := newUseCase()
	studentID := mustCreateStudent(t, uc)

	_, err := uc.GrantAccess("admin-1", dto.GrantAccessRequest{StudentID: studentID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGrantAccess_Duplicado(t *testing.T) {
	uc, _, yearRepo, _ := newUseCase()
	studentID := mustCreateStudent(t, uc)
	yearRepo.years["y1"] = &entity.SchoolYear{ID: "y1"}

	_, err := uc.GrantAccess("admin-1", dto.GrantAccessRequest{StudentID: studentID, SchoolYearID: "y1"})
	require.NoError(t, err)

	_, err = uc.GrantAccess("admin-1", dto.GrantAccessRequest{StudentID: studentID, SchoolYearID: "y1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests conexiones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateConexion_EmiteCodigoDeSeisDigitos(t *testing.T) {
	uc, _, _, conexionRepo := newUseCase()
	studentID := mustCreateStudent(t, uc)

	out, err := uc.CreateConexion(dto.CreateConexionRequest{UserID: "u1", StudentID: studentID})
	require.NoError(t, err)
	assert.Equal(t, entity.ConexionPending, out.Status)
	assert.Equal(t, "María José Pérez", out.StudentName)

	c := conexionRepo.conexiones[out.ID]
	require.NotNil(t, c)
	assert.Len(t, c.VerificationCode, 6, "el código de verificación tiene 6 dígitos")
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), c.CodeExpiresAt, time.Minute)
}

func TestVerifyConexion_CodigoCorrecto(t *testing.T) {
	uc, _, _, conexionRepo := newUseCase()
	studentID := mustCreateStudent(t, uc)

	created, err := uc.CreateConexion(dto.CreateConexionRequest{UserID: "u1", StudentID: studentID})
	require.NoError(t, err)
	code := conexionRepo.conexiones[created.ID].VerificationCode

	out, err := uc.VerifyConexion("u1", dto.VerifyConexionRequest{Code: code})
	require.NoError(t, err)
	assert.Equal(t, entity.ConexionVerified, out.Status)
	require.NotNil(t, out.VerifiedAt)

	has, err := uc.HasVerifiedLink("u1")
	require.NoError(t, err)
	assert.True(t, has, "la conexión verificada habilita el catálogo PCA")
}

func TestVerifyConexion_CodigoAjenoNoVerifica(t *testing.T) {
	uc, _, _, conexionRepo := newUseCase()
	studentID := mustCreateStudent(t, uc)

	created, err := uc.CreateConexion(dto.CreateConexionRequest{UserID: "u1", StudentID: studentID})
	require.NoError(t, err)
	code := conexionRepo.conexiones[created.ID].VerificationCode

	// Otro usuario con el código correcto no puede verificar un vínculo ajeno.
	_, err = uc.VerifyConexion("u2", dto.VerifyConexionRequest{Code: code})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyConexion_CodigoExpirado(t *testing.T) {
	uc, _, _, conexionRepo := newUseCase()
	studentID := mustCreateStudent(t, uc)

	created, err := uc.CreateConexion(dto.CreateConexionRequest{UserID: "u1", StudentID: studentID})
	require.NoError(t, err)
	c := conexionRepo.conexiones[created.ID]
	c.CodeExpiresAt = time.Now().Add(-time.Hour)

	_, err = uc.VerifyConexion("u1", dto.VerifyConexionRequest{Code: c.VerificationCode})
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestRevokeConexion_QuitaElVinculo(t *testing.T) {
	uc, _, _, conexionRepo := newUseCase()
	studentID := mustCreateStudent(t, uc)

	created, err := uc.CreateConexion(dto.CreateConexionRequest{UserID: "u1", StudentID: studentID})
	require.NoError(t, err)
	code := conexionRepo.conexiones[created.ID].VerificationCode
	_, err = uc.VerifyConexion("u1", dto.VerifyConexionRequest{Code: code})
	require.NoError(t, err)

	require.NoError(t, uc.RevokeConexion(created.ID))

	has, err := uc.HasVerifiedLink("u1")
	require.NoError(t, err)
	assert.False(t, has, "revocar la única conexión quita el acceso PCA")
}
