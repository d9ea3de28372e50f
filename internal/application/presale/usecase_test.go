package presale

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/matching"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────────────────────────────────────

type fakePresaleRepo struct {
	batches map[string]*entity.PresaleBatch
	orders  map[string]*entity.PresaleOrder
}

func newFakePresaleRepo() *fakePresaleRepo {
	return &fakePresaleRepo{
		batches: make(map[string]*entity.PresaleBatch),
		orders:  make(map[string]*entity.PresaleOrder),
	}
}

func (f *fakePresaleRepo) CreateBatch(batch *entity.PresaleBatch) error {
	cp := *batch
	f.batches[batch.ID] = &cp
	return nil
}

func (f *fakePresaleRepo) GetBatch(id string) (*entity.PresaleBatch, error) {
	b, ok := f.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakePresaleRepo) UpdateBatchCounts(batch *entity.PresaleBatch) error {
	cp := *batch
	f.batches[batch.ID] = &cp
	return nil
}

func (f *fakePresaleRepo) ListBatches(limit, offset int) ([]*entity.PresaleBatch, error) {
	out := make([]*entity.PresaleBatch, 0, len(f.batches))
	for _, b := range f.batches {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePresaleRepo) CreateOrder(order *entity.PresaleOrder) error {
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakePresaleRepo) GetOrder(id string) (*entity.PresaleOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakePresaleRepo) ListOrders(q repository.PresaleQuery) ([]*entity.PresaleOrder, int, error) {
	out := make([]*entity.PresaleOrder, 0, len(f.orders))
	for _, o := range f.orders {
		if q.Status != "" && string(o.Status) != q.Status {
			continue
		}
		if q.BatchID != "" && o.BatchID != q.BatchID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakePresaleRepo) UpdateOrder(order *entity.PresaleOrder) error {
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakePresaleRepo) ExistsByBatchRow(batchID string, rowNumber int) (bool, error) {
	for _, o := range f.orders {
		if o.BatchID == batchID && o.RowNumber == rowNumber {
			return true, nil
		}
	}
	return false, nil
}

type fakeStudentRepo struct {
	students map[string]*entity.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*entity.Student)}
}

func (f *fakeStudentRepo) Create(s *entity.Student) error {
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) GetByID(id string) (*entity.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentRepo) GetByExternalCode(code string) (*entity.Student, error) {
	for _, s := range f.students {
		if s.ExternalCode == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) Update(s *entity.Student) error {
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) List(q repository.StudentQuery) ([]*entity.Student, int, error) {
	out := make([]*entity.Student, 0, len(f.students))
	for _, s := range f.students {
		cp := *s
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) ListAllForMatching() ([]*entity.Student, error) {
	out := make([]*entity.Student, 0, len(f.students))
	for _, s := range f.students {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStudentRepo) GrantTextbookAccess(access *entity.TextbookAccess) error { return nil }
func (f *fakeStudentRepo) RevokeTextbookAccess(studentID, schoolYearID string) error {
	return nil
}
func (f *fakeStudentRepo) HasTextbookAccess(studentID, schoolYearID string) (bool, error) {
	return false, nil
}
func (f *fakeStudentRepo) ListTextbookAccess(schoolYearID string) ([]*entity.TextbookAccess, error) {
	return nil, nil
}

// fakeReader devuelve filas preparadas, ignorando el contenido del archivo.
type fakeReader struct {
	rows []ParsedRow
	err  error
}

func (f *fakeReader) Read(r io.Reader) ([]ParsedRow, error) {
	return f.rows, f.err
}

type fakeMailer struct {
	sent []string // correos destino
	err  error
}

func (f *fakeMailer) SendOrderLinked(to, customerName, studentName, orderNumber string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newUseCase(t *testing.T, rows []ParsedRow) (*UseCase, *fakePresaleRepo, *fakeStudentRepo, *fakeMailer) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	presaleRepo := newFakePresaleRepo()
	studentRepo := newFakeStudentRepo()
	mailer := &fakeMailer{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := NewUseCase(presaleRepo, studentRepo, &fakeReader{rows: rows}, mailer, node, log)
	return uc, presaleRepo, studentRepo, mailer
}

func validRow(n int, student string) ParsedRow {
	return ParsedRow{
		RowNumber:     n,
		CustomerName:  "Carlos Gómez",
		CustomerEmail: "carlos@example.com",
		StudentName:   student,
		Grade:         "5A",
		Total:         decimal.NewFromInt(1200),
	}
}

func seedStudent(repo *fakeStudentRepo, id, fullName, grade, email string) {
	repo.students[id] = &entity.Student{
		ID:            id,
		FullName:      fullName,
		FoldedName:    matching.Fold(fullName),
		Grade:         grade,
		GuardianEmail: email,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Import
// ─────────────────────────────────────────────────────────────────────────────

func TestImport_ArchivoVacio(t *testing.T) {
	uc, _, _, _ := newUseCase(t, nil)

	_, err := uc.Import("admin-1", "preventa.xlsx", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_FilasValidasCreanOrdenesPendientes(t *testing.T) {
	rows := []ParsedRow{validRow(2, "María Pérez"), validRow(3, "Juan Díaz")}
	uc, repo, _, _ := newUseCase(t, rows)

	result, err := uc.Import("admin-1", "preventa.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, repo.orders, 2)
	for _, o := range repo.orders {
		assert.Equal(t, entity.PresalePending, o.Status)
		assert.True(t, strings.HasPrefix(o.OrderNumber, "PRE-"))
		assert.Equal(t, result.BatchID, o.BatchID)
	}

	batch, err := repo.GetBatch(result.BatchID)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, 2, batch.Imported)
	assert.Equal(t, "preventa.xlsx", batch.FileName)
}

func TestImport_FilaInvalidaSeOmiteSinAbortar(t *testing.T) {
	rows := []ParsedRow{
		validRow(2, "María Pérez"),
		{RowNumber: 3, Err: "total inválido"},
		validRow(4, "Juan Díaz"),
	}
	uc, repo, _, _ := newUseCase(t, rows)

	result, err := uc.Import("admin-1", "preventa.xlsx", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "fila 3")
	assert.Len(t, repo.orders, 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Sugerencias de vínculo
// ─────────────────────────────────────────────────────────────────────────────

func TestSuggestions_PrioridadEmailSobreNombre(t *testing.T) {
	uc, repo, studentRepo, _ := newUseCase(t, nil)
	seedStudent(studentRepo, "s-email", "Pedro Rojas", "5A", "carlos@example.com")
	seedStudent(studentRepo, "s-nombre", "María Pérez", "5A", "otro@example.com")

	order := &entity.PresaleOrder{
		ID:            "o-1",
		OrderNumber:   "PRE-1",
		CustomerEmail: "carlos@example.com",
		StudentName:   "María Pérez",
		Grade:         "5A",
		Status:        entity.PresalePending,
	}
	require.NoError(t, repo.CreateOrder(order))

	suggestions, err := uc.Suggestions("o-1")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	// la coincidencia por email del acudiente encabeza la lista
	assert.Equal(t, "s-email", suggestions[0].StudentID)
}

func TestSuggestions_OrdenInexistente(t *testing.T) {
	uc, _, _, _ := newUseCase(t, nil)

	_, err := uc.Suggestions("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Vinculación y descarte
// ─────────────────────────────────────────────────────────────────────────────

func TestLink_VinculaYNotificaAlAcudiente(t *testing.T) {
	uc, repo, studentRepo, mailer := newUseCase(t, nil)
	seedStudent(studentRepo, "s-1", "María Pérez", "5A", "acudiente@example.com")
	require.NoError(t, repo.CreateOrder(&entity.PresaleOrder{
		ID:            "o-1",
		OrderNumber:   "PRE-1",
		CustomerEmail: "carlos@example.com",
		CustomerName:  "Carlos Gómez",
		StudentName:   "María Pérez",
		Status:        entity.PresalePending,
	}))

	resp, err := uc.Link("o-1", "admin-1", dto.LinkRequest{StudentID: "s-1"})
	require.NoError(t, err)

	assert.Equal(t, entity.PresaleLinked, resp.Status)
	assert.Equal(t, "s-1", resp.StudentID)
	require.NotNil(t, resp.LinkedAt)
	assert.WithinDuration(t, time.Now(), *resp.LinkedAt, time.Second)
	assert.Equal(t, []string{"carlos@example.com"}, mailer.sent)

	stored, _ := repo.GetOrder("o-1")
	assert.Equal(t, "admin-1", stored.LinkedBy)
}

func TestLink_FalloDeCorreoNoRevierteElVinculo(t *testing.T) {
	uc, repo, studentRepo, mailer := newUseCase(t, nil)
	mailer.err = assert.AnError
	seedStudent(studentRepo, "s-1", "María Pérez", "5A", "acudiente@example.com")
	require.NoError(t, repo.CreateOrder(&entity.PresaleOrder{
		ID:            "o-1",
		CustomerEmail: "carlos@example.com",
		Status:        entity.PresalePending,
	}))

	resp, err := uc.Link("o-1", "admin-1", dto.LinkRequest{StudentID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.PresaleLinked, resp.Status)
}

func TestLink_OrdenYaVinculadaEsConflicto(t *testing.T) {
	uc, repo, studentRepo, _ := newUseCase(t, nil)
	seedStudent(studentRepo, "s-1", "María Pérez", "5A", "acudiente@example.com")
	require.NoError(t, repo.CreateOrder(&entity.PresaleOrder{
		ID:     "o-1",
		Status: entity.PresaleLinked,
	}))

	_, err := uc.Link("o-1", "admin-1", dto.LinkRequest{StudentID: "s-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLink_EstudianteInexistente(t *testing.T) {
	uc, repo, _, _ := newUseCase(t, nil)
	require.NoError(t, repo.CreateOrder(&entity.PresaleOrder{
		ID:     "o-1",
		Status: entity.PresalePending,
	}))

	_, err := uc.Link("o-1", "admin-1", dto.LinkRequest{StudentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDismiss_SoloOrdenesPendientes(t *testing.T) {
	uc, repo, _, _ := newUseCase(t, nil)
	require.NoError(t, repo.CreateOrder(&entity.PresaleOrder{
		ID:     "o-1",
		Status: entity.PresalePending,
	}))

	resp, err := uc.Dismiss("o-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PresaleDismissed, resp.Status)

	_, err = uc.Dismiss("o-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
