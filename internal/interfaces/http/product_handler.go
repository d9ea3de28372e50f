package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/catalog"
	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/students"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para el catálogo de productos.
// El catálogo PCA solo es visible para admin/staff o para clientes con una
// conexión verificada a un estudiante.
type ProductHandler struct {
	uc       *catalog.UseCase
	students *students.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase, students *students.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc, students: students}
}

// canSeePCA decide la visibilidad del catálogo privado para el usuario actual.
func (h *ProductHandler) canSeePCA(c *fiber.Ctx) (bool, error) {
	if GetRole(c) != entity.RoleCustomer {
		return true, nil
	}
	return h.students.HasVerifiedLink(GetUserID(c))
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos"})
	}
	out, err := h.uc.CreateProduct(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	if out.IsPrivateCatalog {
		ok, err := h.canSeePCA(c)
		if err != nil {
			return respondError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos con filtros y orden
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        catalog_type  query  string  false  "public | pca"
// @Param        category_id   query  string  false  "Filtrar por categoría"
// @Param        search        query  string  false  "Búsqueda por nombre (ignora acentos)"
// @Param        sort_by       query  string  false  "name | price | created_at | inventory_quantity"
// @Param        sort_desc     query  bool    false  "Orden descendente"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/store/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	var sort dto.SortRequest
	if err := c.QueryParser(&page); err == nil {
		page.DefaultPage()
	} else {
		page = dto.PageRequest{Limit: 20}
	}
	_ = c.QueryParser(&sort)

	canSee, err := h.canSeePCA(c)
	if err != nil {
		return respondError(c, err)
	}
	q := repository.ProductQuery{
		CatalogType: c.Query("catalog_type"),
		CategoryID:  c.Query("category_id"),
		Search:      c.Query("search"),
		SortBy:      sort.SortBy,
		SortDesc:    sort.SortDesc,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	out, err := h.uc.ListProducts(q, canSee)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/store/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateProduct(id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage godoc
// @Summary      Subir imagen del producto
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "ID del producto"
// @Param        image  formData  file    true  "Imagen"
// @Success      200    {object}  dto.ProductResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/store/products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo image requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	out, err := h.uc.UploadProductImage(c.UserContext(), id, fh.Filename, contentType, f, fh.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
