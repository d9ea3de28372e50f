package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/presale"
	"github.com/unatienda/store-api/internal/application/receipts"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// PresaleHandler maneja la importación de preventa y la vinculación de órdenes
// con estudiantes.
type PresaleHandler struct {
	uc       *presale.UseCase
	receipts *receipts.UseCase
}

// NewPresaleHandler construye el handler.
func NewPresaleHandler(uc *presale.UseCase, receipts *receipts.UseCase) *PresaleHandler {
	return &PresaleHandler{uc: uc, receipts: receipts}
}

// Import godoc
// @Summary      Importar archivo de preventa
// @Description  Cada archivo genera un lote. Las filas inválidas se omiten y se
// @Description  reportan; las filas ya importadas del mismo lote no se duplican.
// @Tags         presale
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .xlsx de preventa"
// @Success      201   {object}  dto.ImportResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/presale-import [post]
func (h *PresaleHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	out, err := h.uc.Import(GetUserID(c), fh.Filename, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListOrders godoc
// @Summary      Listar órdenes de preventa
// @Tags         presale
// @Security     Bearer
// @Produce      json
// @Param        batch_id   query  string  false  "Filtrar por lote"
// @Param        status     query  string  false  "pending | linked | dismissed"
// @Param        sort_by    query  string  false  "imported_at | customer_name | total"
// @Param        sort_desc  query  bool    false  "Orden descendente"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.PresaleListResponse
// @Router       /api/store/presale-import/orders [get]
func (h *PresaleHandler) ListOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	var sort dto.SortRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	_ = c.QueryParser(&sort)

	q := repository.PresaleQuery{
		BatchID:  c.Query("batch_id"),
		Status:   c.Query("status"),
		SortBy:   sort.SortBy,
		SortDesc: sort.SortDesc,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	out, err := h.uc.ListOrders(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetOrder godoc
// @Summary      Obtener orden de preventa por ID
// @Tags         presale
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PresaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/presale-import/orders/{id} [get]
func (h *PresaleHandler) GetOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Suggestions godoc
// @Summary      Sugerir estudiantes para vincular una orden
// @Description  Ordena los candidatos por puntaje: email del acudiente, nombre
// @Description  exacto (ignorando acentos) y coincidencias parciales.
// @Tags         presale
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.LinkSuggestionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/presale-import/orders/{id}/suggestions [get]
func (h *PresaleHandler) Suggestions(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Suggestions(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Link godoc
// @Summary      Vincular orden de preventa con un estudiante
// @Tags         presale
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.LinkRequest  true  "Estudiante elegido"
// @Success      200   {object}  dto.PresaleOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/presale-import/orders/{id}/link [post]
func (h *PresaleHandler) Link(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.LinkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StudentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "student_id es requerido"})
	}
	out, err := h.uc.Link(id, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dismiss godoc
// @Summary      Descartar orden de preventa
// @Tags         presale
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PresaleOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/store/presale-import/orders/{id}/dismiss [post]
func (h *PresaleHandler) Dismiss(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Dismiss(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Listar lotes de importación
// @Tags         presale
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.ImportResultResponse
// @Router       /api/store/presale-import/batches [get]
func (h *PresaleHandler) ListBatches(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	out, err := h.uc.ListBatches(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar el recibo PDF de una orden de preventa
// @Tags         presale
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/presale-import/orders/{id}/receipt [get]
func (h *PresaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdf, fileName, err := h.receipts.ForPresaleOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(pdf)
}
