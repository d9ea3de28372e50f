package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/crmchat"
	"github.com/unatienda/store-api/internal/application/dto"
)

// CRMHandler maneja las conversaciones de soporte entre clientes y el equipo.
type CRMHandler struct {
	uc *crmchat.UseCase
}

// NewCRMHandler construye el handler.
func NewCRMHandler(uc *crmchat.UseCase) *CRMHandler {
	return &CRMHandler{uc: uc}
}

// Start godoc
// @Summary      Abrir conversación de soporte
// @Tags         crm-chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartConversationRequest  true  "Asunto y primer mensaje"
// @Success      201   {object}  dto.ConversationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/crm-chat [post]
func (h *CRMHandler) Start(c *fiber.Ctx) error {
	var in dto.StartConversationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Start(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Post godoc
// @Summary      Enviar mensaje a una conversación
// @Tags         crm-chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la conversación"
// @Param        body  body  dto.PostMessageRequest  true  "Mensaje"
// @Success      201   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/crm-chat/{id}/messages [post]
func (h *CRMHandler) Post(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PostMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body es requerido"})
	}
	out, err := h.uc.Post(c.UserContext(), id, GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Messages godoc
// @Summary      Listar mensajes de una conversación
// @Description  Cuando un admin lee el hilo, el contador de no leídos se reinicia.
// @Tags         crm-chat
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la conversación"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/store/crm-chat/{id}/messages [get]
func (h *CRMHandler) Messages(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.Messages(c.UserContext(), id, GetUserID(c), GetRole(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListForAdmin godoc
// @Summary      Listar conversaciones (panel admin)
// @Tags         crm-chat
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.ConversationResponse
// @Router       /api/store/crm-chat/admin [get]
func (h *CRMHandler) ListForAdmin(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	out, err := h.uc.ListForAdmin(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar mis conversaciones
// @Tags         crm-chat
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConversationResponse
// @Router       /api/store/crm-chat [get]
func (h *CRMHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListForUser(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar conversación (admin)
// @Tags         crm-chat
// @Security     Bearer
// @Param        id  path  string  true  "ID de la conversación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/crm-chat/{id}/close [post]
func (h *CRMHandler) Close(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Close(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
