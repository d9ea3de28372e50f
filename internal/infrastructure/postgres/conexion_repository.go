package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

var _ repository.ConexionRepository = (*ConexionRepo)(nil)

const conexionColumns = `id, user_id, student_id, status, verification_code, code_expires_at, created_at, verified_at`

// ConexionRepo implementación del puerto ConexionRepository sobre PostgreSQL.
type ConexionRepo struct {
	q Querier
}

// NewConexionRepository construye el adaptador de persistencia para conexiones.
func NewConexionRepository(q Querier) *ConexionRepo {
	return &ConexionRepo{q: q}
}

// Create persiste una conexión pendiente con su código de verificación.
func (r *ConexionRepo) Create(conexion *entity.Conexion) error {
	query := `
		INSERT INTO conexiones (` + conexionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		conexion.ID, conexion.UserID, conexion.StudentID, conexion.Status,
		conexion.VerificationCode, conexion.CodeExpiresAt, conexion.CreatedAt, conexion.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conexion: %w", err)
	}
	return nil
}

// GetByID obtiene una conexión por ID.
func (r *ConexionRepo) GetByID(id string) (*entity.Conexion, error) {
	query := `SELECT ` + conexionColumns + ` FROM conexiones WHERE id = $1`
	c, err := scanConexion(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conexion: %w", err)
	}
	return c, nil
}

// ListByUser lista las conexiones de un usuario.
func (r *ConexionRepo) ListByUser(userID string) ([]*entity.Conexion, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+conexionColumns+` FROM conexiones WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conexiones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Conexion
	for rows.Next() {
		c, err := scanConexion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conexion: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza estado y fecha de verificación de una conexión.
func (r *ConexionRepo) Update(conexion *entity.Conexion) error {
	query := `
		UPDATE conexiones SET status = $2, verified_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		conexion.ID, conexion.Status, conexion.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update conexion: %w", err)
	}
	return nil
}

// HasVerifiedLink indica si el usuario tiene al menos una conexión verificada.
func (r *ConexionRepo) HasVerifiedLink(userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM conexiones WHERE user_id = $1 AND status = $2)`,
		userID, entity.ConexionVerified,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has verified link: %w", err)
	}
	return exists, nil
}

func scanConexion(row pgx.Row) (*entity.Conexion, error) {
	var c entity.Conexion
	err := row.Scan(
		&c.ID, &c.UserID, &c.StudentID, &c.Status, &c.VerificationCode,
		&c.CodeExpiresAt, &c.CreatedAt, &c.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
