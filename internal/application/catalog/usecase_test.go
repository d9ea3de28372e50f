package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/catalog"
	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
	lastQ    repository.ProductQuery
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateImageURL(id, url string) error {
	r.products[id].ImageURL = url
	return nil
}
func (r *fakeProductRepo) List(q repository.ProductQuery) ([]*entity.Product, int, error) {
	r.lastQ = q
	var out []*entity.Product
	for _, p := range r.products {
		if q.CatalogType != "" && p.CatalogType != q.CatalogType {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}
func (r *fakeProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) AdjustInventory(id string, delta int) error {
	r.products[id].InventoryQuantity += delta
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func (r *fakeCategoryRepo) Create(c *entity.Category) error { r.categories[c.ID] = c; return nil }
func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	return r.categories[id], nil
}
func (r *fakeCategoryRepo) List(string) ([]*entity.Category, error) { return nil, nil }
func (r *fakeCategoryRepo) Update(c *entity.Category) error         { return nil }
func (r *fakeCategoryRepo) Delete(id string) error                  { delete(r.categories, id); return nil }

func newUseCase() (*catalog.UseCase, *fakeProductRepo) {
	products := newFakeProductRepo()
	categories := &fakeCategoryRepo{categories: map[string]*entity.Category{}}
	return catalog.NewUseCase(products, categories, nil), products
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	in := dto.CreateProductRequest{SKU: "LIB-001", Name: "Matemáticas 5°", Price: decimal.NewFromInt(120)}
	_, err := uc.CreateProduct(in)
	require.NoError(t, err)

	_, err = uc.CreateProduct(in)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "repetir el SKU debe rechazarse")
}

func TestCreateProduct_NormalizaCatalogoYDobleNombre(t *testing.T) {
	uc, repo := newUseCase()

	out, err := uc.CreateProduct(dto.CreateProductRequest{
		SKU:         "LIB-002",
		Name:        "Educación Física",
		Price:       decimal.NewFromInt(80),
		CatalogType: "otra-cosa",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CatalogPublic, out.CatalogType, "un tipo desconocido cae al catálogo público")
	assert.True(t, out.Active)

	p := repo.products[out.ID]
	assert.Equal(t, "educacion fisica", p.NameFolded, "el nombre se guarda plegado para búsquedas sin acentos")
}

func TestCreateProduct_PrecioNegativo(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CreateProduct(dto.CreateProductRequest{
		SKU:   "LIB-003",
		Name:  "Ciencias",
		Price: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Pedir el catálogo PCA sin derecho a verlo es prohibido.
func TestListProducts_PCASinVinculoEsProhibido(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.ListProducts(repository.ProductQuery{CatalogType: entity.CatalogPCA}, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Sin derecho a PCA, el listado general queda forzado al catálogo público.
func TestListProducts_SinVinculoFuerzaCatalogoPublico(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.CreateProduct(dto.CreateProductRequest{SKU: "A", Name: "Cuaderno", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = uc.CreateProduct(dto.CreateProductRequest{
		SKU: "B", Name: "Libro PCA", Price: decimal.NewFromInt(90),
		CatalogType: entity.CatalogPCA, IsPrivateCatalog: true,
	})
	require.NoError(t, err)

	out, err := uc.ListProducts(repository.ProductQuery{}, false)
	require.NoError(t, err)

	assert.Equal(t, entity.CatalogPublic, repo.lastQ.CatalogType)
	for _, p := range out.Items {
		assert.Equal(t, entity.CatalogPublic, p.CatalogType)
	}
}

// Con vínculo verificado (o rol staff) el catálogo PCA sí se lista.
func TestListProducts_ConVinculoVePCA(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CreateProduct(dto.CreateProductRequest{
		SKU: "B", Name: "Libro PCA", Price: decimal.NewFromInt(90),
		CatalogType: entity.CatalogPCA, IsPrivateCatalog: true,
	})
	require.NoError(t, err)

	out, err := uc.ListProducts(repository.ProductQuery{CatalogType: entity.CatalogPCA}, true)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Libro PCA", out.Items[0].Name)
}

// La búsqueda se pliega antes de llegar al repositorio.
func TestListProducts_BusquedaSinAcentos(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.ListProducts(repository.ProductQuery{Search: "Matemáticas"}, true)
	require.NoError(t, err)
	assert.Equal(t, "matematicas", repo.lastQ.Search)
}

func TestUpdateProduct_NoExiste(t *testing.T) {
	uc, _ := newUseCase()

	name := "Nuevo nombre"
	_, err := uc.UpdateProduct("no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
