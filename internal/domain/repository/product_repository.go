package repository

import "github.com/unatienda/store-api/internal/domain/entity"

// ProductQuery filtros y orden para listados de productos.
// SortBy admite: name, price, created_at, inventory_quantity (whitelist en el adaptador).
type ProductQuery struct {
	CatalogType string
	CategoryID  string
	Search      string // se compara contra name_folded (sin acentos)
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateImageURL(productID, imageURL string) error
	List(q ProductQuery) ([]*entity.Product, int, error)
	Delete(id string) error

	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para mutar
	// inventory_quantity dentro de una transacción de orden de stock.
	GetForUpdate(id string) (*entity.Product, error)
	// AdjustInventory suma delta (puede ser negativo) a inventory_quantity.
	AdjustInventory(productID string, delta int) error
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(catalogType string) ([]*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id string) error
}
