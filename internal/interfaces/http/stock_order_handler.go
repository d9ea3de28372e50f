package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/auth"
	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/stockorders"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/internal/domain/stockorder"
)

// StockOrderHandler maneja las órdenes de stock: envíos, devoluciones y ajustes.
type StockOrderHandler struct {
	uc    *stockorders.UseCase
	users *auth.AuthUseCase
}

// NewStockOrderHandler construye el handler.
func NewStockOrderHandler(uc *stockorders.UseCase, users *auth.AuthUseCase) *StockOrderHandler {
	return &StockOrderHandler{uc: uc, users: users}
}

// userName resuelve el nombre visible del actor para el historial de estados.
// Si el perfil no se puede leer, el historial queda con el nombre vacío.
func (h *StockOrderHandler) userName(c *fiber.Ctx) string {
	u, err := h.users.GetByID(GetUserID(c))
	if err != nil || u == nil {
		return ""
	}
	return u.Name
}

// CreateShipment godoc
// @Summary      Registrar envío de proveedor (estado inicial: draft)
// @Tags         stock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Datos del envío"
// @Success      201   {object}  dto.StockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/shipments [post]
func (h *StockOrderHandler) CreateShipment(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateShipment(GetUserID(c), h.userName(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateReturn godoc
// @Summary      Registrar devolución de cliente (estado inicial: registered)
// @Tags         stock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Datos de la devolución"
// @Success      201   {object}  dto.StockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/returns [post]
func (h *StockOrderHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateReturn(GetUserID(c), h.userName(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste manual de inventario (estado inicial: requested)
// @Tags         stock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Datos del ajuste"
// @Success      201   {object}  dto.StockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/adjustments [post]
func (h *StockOrderHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateAdjustment(GetUserID(c), h.userName(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de stock por ID
// @Tags         stock-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.StockOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/{id} [get]
func (h *StockOrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de stock
// @Tags         stock-orders
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "shipment | return | adjustment"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        catalog_type  query  string  false  "public | pca"
// @Param        sort_by       query  string  false  "created_at | order_number | status"
// @Param        sort_desc     query  bool    false  "Orden descendente"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.StockOrderListResponse
// @Router       /api/store/stock-orders [get]
func (h *StockOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	var sort dto.SortRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	_ = c.QueryParser(&sort)

	q := repository.StockOrderQuery{
		Type:        stockorder.Type(c.Query("type")),
		Status:      stockorder.Status(c.Query("status")),
		CatalogType: c.Query("catalog_type"),
		SortBy:      sort.SortBy,
		SortDesc:    sort.SortDesc,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	out, err := h.uc.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StatusCounts godoc
// @Summary      Contar órdenes de un tipo por estado
// @Tags         stock-orders
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "shipment | return | adjustment"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/status-counts [get]
func (h *StockOrderHandler) StatusCounts(c *fiber.Ctx) error {
	typ := stockorder.Type(c.Query("type"))
	out, err := h.uc.StatusCounts(typ)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Avanzar la orden al estado destino
// @Description  Solo se permiten transiciones hacia adelante según el tipo de la
// @Description  orden. Repetir una transición ya aplicada devuelve 409 sin mutar
// @Description  inventario.
// @Tags         stock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID de la orden"
// @Param        target  path  string  true  "Estado destino"
// @Param        body    body  dto.TransitionRequest  false  "Actualización de líneas y notas"
// @Success      200     {object}  dto.StockOrderResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/store/stock-orders/{id}/transition/{target} [post]
func (h *StockOrderHandler) Transition(c *fiber.Ctx) error {
	id := c.Params("id")
	target := c.Params("target")
	if id == "" || target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id y target son requeridos"})
	}
	var in dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Transition(c.UserContext(), id, target, GetUserID(c), h.userName(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
