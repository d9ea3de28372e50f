package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/membership"
)

// MembershipHandler maneja planes y suscripciones de membresía.
type MembershipHandler struct {
	uc *membership.UseCase
}

// NewMembershipHandler construye el handler.
func NewMembershipHandler(uc *membership.UseCase) *MembershipHandler {
	return &MembershipHandler{uc: uc}
}

// CreatePlan godoc
// @Summary      Crear plan de membresía (admin)
// @Tags         memberships
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlanRequest  true  "Datos del plan"
// @Success      201   {object}  dto.MembershipPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/memberships/plans [post]
func (h *MembershipHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreatePlan(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPlans godoc
// @Summary      Listar planes de membresía activos
// @Tags         memberships
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MembershipPlanResponse
// @Router       /api/memberships/plans [get]
func (h *MembershipHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListPlans()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener mi membresía
// @Tags         memberships
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MembershipResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/memberships/me [get]
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetMembership(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Subscribe godoc
// @Summary      Suscribirse o renovar pagando desde la billetera
// @Description  Si la membresía sigue activa, la renovación extiende desde la
// @Description  fecha de expiración actual.
// @Tags         memberships
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubscribeRequest  true  "Plan elegido"
// @Success      200   {object}  dto.MembershipResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/memberships/subscribe [post]
func (h *MembershipHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.SubscribeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "plan_id es requerido"})
	}
	out, err := h.uc.Subscribe(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
