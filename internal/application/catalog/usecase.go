package catalog

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/matching"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// ImageStore puerto de almacenamiento de imágenes de producto (MinIO/S3).
type ImageStore interface {
	// Put sube el objeto y devuelve la URL pública.
	Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error)
}

// UseCase casos de uso del catálogo: productos y categorías. El inventario no
// se edita aquí; solo las órdenes de stock lo mutan.
type UseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       ImageStore
}

// NewUseCase construye el caso de uso.
func NewUseCase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, images ImageStore) *UseCase {
	return &UseCase{productRepo: productRepo, categoryRepo: categoryRepo, images: images}
}

// CreateProduct crea un producto nuevo. El inventario inicial declarado aquí
// es la única vía de carga directa; después solo mueven stock las órdenes.
func (uc *UseCase) CreateProduct(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.InventoryQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CatalogType != entity.CatalogPCA {
		in.CatalogType = entity.CatalogPublic
	}
	existing, _ := uc.productRepo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Name:              in.Name,
		NameFolded:        matching.Fold(in.Name),
		Description:       in.Description,
		Price:             in.Price,
		InventoryQuantity: in.InventoryQuantity,
		CatalogType:       in.CatalogType,
		IsPrivateCatalog:  in.IsPrivateCatalog,
		CategoryID:        in.CategoryID,
		Attributes:        in.Attributes,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// UpdateProduct actualización parcial. InventoryQuantity queda fuera a propósito.
func (uc *UseCase) UpdateProduct(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
		product.NameFolded = matching.Fold(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.CatalogType != nil {
		if *in.CatalogType != entity.CatalogPublic && *in.CatalogType != entity.CatalogPCA {
			return nil, domain.ErrInvalidInput
		}
		product.CatalogType = *in.CatalogType
	}
	if in.IsPrivateCatalog != nil {
		product.IsPrivateCatalog = *in.IsPrivateCatalog
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if len(in.Attributes) > 0 {
		product.Attributes = in.Attributes
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts lista productos con filtros, búsqueda sin acentos y paginación.
// canSeePCA restringe el catálogo PCA a cuentas con estudiante vinculado o staff.
func (uc *UseCase) ListProducts(q repository.ProductQuery, canSeePCA bool) (*dto.ProductListResponse, error) {
	if q.CatalogType == entity.CatalogPCA && !canSeePCA {
		return nil, domain.ErrForbidden
	}
	if !canSeePCA {
		q.CatalogType = entity.CatalogPublic
	}
	q.Search = matching.Fold(q.Search)
	list, total, err := uc.productRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// DeleteProduct elimina un producto por ID.
func (uc *UseCase) DeleteProduct(id string) error {
	return uc.productRepo.Delete(id)
}

// UploadProductImage sube la imagen al object storage y guarda la URL.
func (uc *UseCase) UploadProductImage(ctx context.Context, productID, fileName, contentType string, r io.Reader, size int64) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	objectName := "products/" + productID + "/" + fileName
	url, err := uc.images.Put(ctx, objectName, contentType, r, size)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.UpdateImageURL(productID, url); err != nil {
		return nil, err
	}
	product.ImageURL = url
	return toProductResponse(product), nil
}

// CreateCategory crea una categoría.
func (uc *UseCase) CreateCategory(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CatalogType != entity.CatalogPCA {
		in.CatalogType = entity.CatalogPublic
	}
	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		CatalogType: in.CatalogType,
		Position:    in.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories lista categorías, opcionalmente por catálogo.
func (uc *UseCase) ListCategories(catalogType string) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(catalogType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// DeleteCategory elimina una categoría.
func (uc *UseCase) DeleteCategory(id string) error {
	return uc.categoryRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		InventoryQuantity: p.InventoryQuantity,
		CatalogType:       p.CatalogType,
		IsPrivateCatalog:  p.IsPrivateCatalog,
		CategoryID:        p.CategoryID,
		ImageURL:          p.ImageURL,
		Attributes:        p.Attributes,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		CatalogType: c.CatalogType,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
	}
}
