package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de catálogo: público (tienda abierta) o PCA (libros de texto restringidos
// a cuentas con estudiante vinculado).
const (
	CatalogPublic = "public"
	CatalogPCA    = "pca"
)

// Product representa un producto del catálogo (artículo de tienda o libro de texto).
// InventoryQuantity es la existencia autoritativa; solo se modifica vía órdenes de stock.
type Product struct {
	ID                string
	SKU               string
	Name              string
	NameFolded        string // nombre sin acentos, en minúsculas, para búsqueda
	Description       string
	Price             decimal.Decimal
	InventoryQuantity int
	CatalogType       string // public | pca
	IsPrivateCatalog  bool   // true: el carrito no restringe cantidad contra inventario
	CategoryID        string
	ImageURL          string
	Attributes        json.RawMessage
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Category agrupa productos dentro de un catálogo.
type Category struct {
	ID          string
	Name        string
	CatalogType string // public | pca
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
