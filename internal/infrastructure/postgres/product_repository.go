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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, name_folded, description, price, inventory_quantity,
	catalog_type, is_private_catalog, category_id, image_url, attributes, active, created_at, updated_at`

var productSortColumns = map[string]bool{
	"name":               true,
	"price":              true,
	"created_at":         true,
	"inventory_quantity": true,
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.NameFolded, product.Description,
		product.Price, product.InventoryQuantity, product.CatalogType, product.IsPrivateCatalog,
		nullable(product.CategoryID), product.ImageURL, product.Attributes, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getBy(`id = $1`, id, "")
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getBy(`sku = $1`, sku, "")
}

// GetForUpdate bloquea la fila del producto dentro de la transacción en curso.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getBy(`id = $1`, id, " FOR UPDATE")
}

func (r *ProductRepo) getBy(where string, arg any, suffix string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + suffix
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza un producto. No toca inventory_quantity: eso lo hacen las
// transiciones de órdenes de stock vía AdjustInventory.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, name_folded = $3, description = $4, price = $5,
			catalog_type = $6, is_private_catalog = $7, category_id = $8, attributes = $9,
			active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.NameFolded, product.Description, product.Price,
		product.CatalogType, product.IsPrivateCatalog, nullable(product.CategoryID),
		product.Attributes, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateImageURL guarda la URL de la imagen subida al object storage.
func (r *ProductRepo) UpdateImageURL(productID, imageURL string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET image_url = $2, updated_at = now() WHERE id = $1`,
		productID, imageURL,
	)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return nil
}

// AdjustInventory suma delta (puede ser negativo) a inventory_quantity.
// Se asume la fila ya bloqueada con GetForUpdate en la misma transacción.
func (r *ProductRepo) AdjustInventory(productID string, delta int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET inventory_quantity = inventory_quantity + $2, updated_at = now() WHERE id = $1`,
		productID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust inventory: %w", err)
	}
	return nil
}

// List lista productos con filtros, búsqueda por nombre normalizado y paginación.
func (r *ProductRepo) List(q repository.ProductQuery) ([]*entity.Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if q.CatalogType != "" {
		args = append(args, q.CatalogType)
		where += fmt.Sprintf(" AND catalog_type = $%d", len(args))
	}
	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(" AND name_folded LIKE $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		orderByClause(q.SortBy, q.SortDesc, productSortColumns, "created_at")
	args = append(args, q.Limit, q.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.NameFolded, &p.Description, &p.Price, &p.InventoryQuantity,
		&p.CatalogType, &p.IsPrivateCatalog, &categoryID, &p.ImageURL, &p.Attributes,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

// nullable convierte "" en NULL para columnas con FK opcional.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
