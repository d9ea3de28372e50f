package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ repository.SchoolYearRepository = (*SchoolYearRepo)(nil)

// SchoolYearRepo implementación del puerto SchoolYearRepository sobre PostgreSQL.
// Recibe el pool directo porque SetActive abre su propia transacción.
type SchoolYearRepo struct {
	pool *pgxpool.Pool
}

// NewSchoolYearRepository construye el adaptador de persistencia para años escolares.
func NewSchoolYearRepository(pool *pgxpool.Pool) *SchoolYearRepo {
	return &SchoolYearRepo{pool: pool}
}

// Create persiste un año escolar.
func (r *SchoolYearRepo) Create(year *entity.SchoolYear) error {
	query := `
		INSERT INTO school_years (id, label, starts_at, ends_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(context.Background(), query,
		year.ID, year.Label, year.StartsAt, year.EndsAt, year.Active, year.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert school year: %w", err)
	}
	return nil
}

// GetByID obtiene un año escolar por ID.
func (r *SchoolYearRepo) GetByID(id string) (*entity.SchoolYear, error) {
	return r.getBy("id = $1", id)
}

// GetActive devuelve el año escolar activo, o nil si no hay ninguno.
func (r *SchoolYearRepo) GetActive() (*entity.SchoolYear, error) {
	return r.getBy("active = $1", true)
}

func (r *SchoolYearRepo) getBy(where string, arg any) (*entity.SchoolYear, error) {
	query := `
		SELECT id, label, starts_at, ends_at, active, created_at
		FROM school_years WHERE ` + where
	var y entity.SchoolYear
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&y.ID, &y.Label, &y.StartsAt, &y.EndsAt, &y.Active, &y.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school year: %w", err)
	}
	return &y, nil
}

// List lista los años escolares, el más reciente primero.
func (r *SchoolYearRepo) List() ([]*entity.SchoolYear, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, label, starts_at, ends_at, active, created_at
		 FROM school_years ORDER BY starts_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list school years: %w", err)
	}
	defer rows.Close()
	var list []*entity.SchoolYear
	for rows.Next() {
		var y entity.SchoolYear
		if err := rows.Scan(&y.ID, &y.Label, &y.StartsAt, &y.EndsAt, &y.Active, &y.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan school year: %w", err)
		}
		list = append(list, &y)
	}
	return list, rows.Err()
}

// SetActive activa el año indicado y desactiva el resto en una transacción.
func (r *SchoolYearRepo) SetActive(id string) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE school_years SET active = false WHERE active = true`); err != nil {
		return fmt.Errorf("deactivate school years: %w", err)
	}
	cmd, err := tx.Exec(ctx, `UPDATE school_years SET active = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate school year: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}
