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

var _ repository.StudentRepository = (*StudentRepo)(nil)

const studentColumns = `id, full_name, folded_name, grade, guardian_email, external_code, created_at, updated_at`

var studentSortColumns = map[string]bool{
	"full_name":  true,
	"grade":      true,
	"created_at": true,
}

// StudentRepo implementación del puerto StudentRepository sobre PostgreSQL,
// incluidos los permisos de libros de texto.
type StudentRepo struct {
	q Querier
}

// NewStudentRepository construye el adaptador de persistencia para estudiantes.
func NewStudentRepository(q Querier) *StudentRepo {
	return &StudentRepo{q: q}
}

// Create persiste un estudiante nuevo.
func (r *StudentRepo) Create(student *entity.Student) error {
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		student.ID, student.FullName, student.FoldedName, student.Grade,
		student.GuardianEmail, student.ExternalCode, student.CreatedAt, student.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// GetByID obtiene un estudiante por ID.
func (r *StudentRepo) GetByID(id string) (*entity.Student, error) {
	return r.getBy("id = $1", id)
}

// GetByExternalCode obtiene un estudiante por su código del sistema académico.
func (r *StudentRepo) GetByExternalCode(code string) (*entity.Student, error) {
	return r.getBy("external_code = $1", code)
}

func (r *StudentRepo) getBy(where string, arg any) (*entity.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + where
	var s entity.Student
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.FullName, &s.FoldedName, &s.Grade, &s.GuardianEmail,
		&s.ExternalCode, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

// Update actualiza un estudiante.
func (r *StudentRepo) Update(student *entity.Student) error {
	query := `
		UPDATE students SET full_name = $2, folded_name = $3, grade = $4,
			guardian_email = $5, external_code = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		student.ID, student.FullName, student.FoldedName, student.Grade,
		student.GuardianEmail, student.ExternalCode, student.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// List lista estudiantes con búsqueda por nombre normalizado y paginación.
func (r *StudentRepo) List(q repository.StudentQuery) ([]*entity.Student, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(" AND folded_name LIKE $%d", len(args))
	}
	if q.Grade != "" {
		args = append(args, q.Grade)
		where += fmt.Sprintf(" AND grade = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where +
		orderByClause(q.SortBy, q.SortDesc, studentSortColumns, "full_name")
	args = append(args, q.Limit, q.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()
	list, err := scanStudents(rows)
	return list, total, err
}

// ListAllForMatching devuelve todos los estudiantes (matching de preventa y export).
func (r *StudentRepo) ListAllForMatching() ([]*entity.Student, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+studentColumns+` FROM students ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("list students for matching: %w", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

func scanStudents(rows pgx.Rows) ([]*entity.Student, error) {
	var list []*entity.Student
	for rows.Next() {
		var s entity.Student
		if err := rows.Scan(&s.ID, &s.FullName, &s.FoldedName, &s.Grade, &s.GuardianEmail,
			&s.ExternalCode, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GrantTextbookAccess registra el permiso de un estudiante para un año escolar.
func (r *StudentRepo) GrantTextbookAccess(access *entity.TextbookAccess) error {
	query := `
		INSERT INTO textbook_access (id, student_id, school_year_id, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		access.ID, access.StudentID, access.SchoolYearID, access.GrantedBy, access.GrantedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("grant textbook access: %w", err)
	}
	return nil
}

// RevokeTextbookAccess elimina el permiso.
func (r *StudentRepo) RevokeTextbookAccess(studentID, schoolYearID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM textbook_access WHERE student_id = $1 AND school_year_id = $2`,
		studentID, schoolYearID,
	)
	if err != nil {
		return fmt.Errorf("revoke textbook access: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasTextbookAccess indica si el estudiante tiene permiso para el año escolar.
func (r *StudentRepo) HasTextbookAccess(studentID, schoolYearID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM textbook_access WHERE student_id = $1 AND school_year_id = $2)`,
		studentID, schoolYearID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has textbook access: %w", err)
	}
	return exists, nil
}

// ListTextbookAccess lista los permisos de un año escolar.
func (r *StudentRepo) ListTextbookAccess(schoolYearID string) ([]*entity.TextbookAccess, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, student_id, school_year_id, granted_by, granted_at
		 FROM textbook_access WHERE school_year_id = $1 ORDER BY granted_at DESC`,
		schoolYearID,
	)
	if err != nil {
		return nil, fmt.Errorf("list textbook access: %w", err)
	}
	defer rows.Close()
	var list []*entity.TextbookAccess
	for rows.Next() {
		var a entity.TextbookAccess
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SchoolYearID, &a.GrantedBy, &a.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan textbook access: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
