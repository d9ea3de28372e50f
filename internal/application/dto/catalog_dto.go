package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	CatalogType       string          `json:"catalog_type"` // public | pca
	IsPrivateCatalog  bool            `json:"is_private_catalog"`
	CategoryID        string          `json:"category_id"`
	Attributes        json.RawMessage `json:"attributes"`
}

// UpdateProductRequest actualización parcial; puntero = campo presente.
// InventoryQuantity no se actualiza aquí: solo vía órdenes de stock.
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price"`
	CatalogType      *string          `json:"catalog_type"`
	IsPrivateCatalog *bool            `json:"is_private_catalog"`
	CategoryID       *string          `json:"category_id"`
	Attributes       json.RawMessage  `json:"attributes"`
	Active           *bool            `json:"active"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	CatalogType       string          `json:"catalog_type"`
	IsPrivateCatalog  bool            `json:"is_private_catalog"`
	CategoryID        string          `json:"category_id"`
	ImageURL          string          `json:"image_url"`
	Attributes        json.RawMessage `json:"attributes,omitempty"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	CatalogType string `json:"catalog_type"`
	Position    int    `json:"position"`
}

// CategoryResponse representación de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CatalogType string    `json:"catalog_type"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
