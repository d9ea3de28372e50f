package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/students"
)

// ConexionHandler maneja los vínculos cliente-estudiante. El admin emite un
// código de verificación y el cliente lo confirma desde su cuenta.
type ConexionHandler struct {
	uc *students.UseCase
}

// NewConexionHandler construye el handler.
func NewConexionHandler(uc *students.UseCase) *ConexionHandler {
	return &ConexionHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir código de conexión (admin)
// @Tags         conexiones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConexionRequest  true  "Cliente y estudiante"
// @Success      201   {object}  dto.ConexionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conexiones [post]
func (h *ConexionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConexionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" || in.StudentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id y student_id son requeridos"})
	}
	out, err := h.uc.CreateConexion(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Verify godoc
// @Summary      Confirmar conexión con el código recibido
// @Tags         conexiones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyConexionRequest  true  "Código de verificación"
// @Success      200   {object}  dto.ConexionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/conexiones/verify [post]
func (h *ConexionHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyConexionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code es requerido"})
	}
	out, err := h.uc.VerifyConexion(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar mis conexiones
// @Tags         conexiones
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConexionResponse
// @Router       /api/conexiones [get]
func (h *ConexionHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListConexiones(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByUser godoc
// @Summary      Listar conexiones de un cliente (admin)
// @Tags         conexiones
// @Security     Bearer
// @Produce      json
// @Param        userId  path  string  true  "ID del cliente"
// @Success      200  {array}  dto.ConexionResponse
// @Router       /api/conexiones/user/{userId} [get]
func (h *ConexionHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "userId es requerido"})
	}
	out, err := h.uc.ListConexiones(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar una conexión (admin)
// @Tags         conexiones
// @Security     Bearer
// @Param        id  path  string  true  "ID de la conexión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conexiones/{id} [delete]
func (h *ConexionHandler) Revoke(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.RevokeConexion(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
