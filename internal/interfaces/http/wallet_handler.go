package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/wallet"
)

// WalletHandler maneja la billetera del cliente: saldo, ledger y recargas.
type WalletHandler struct {
	uc *wallet.UseCase
}

// NewWalletHandler construye el handler.
func NewWalletHandler(uc *wallet.UseCase) *WalletHandler {
	return &WalletHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener saldo de la billetera
// @Tags         wallet
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WalletResponse
// @Router       /api/wallet [get]
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetWallet(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Listar movimientos de la billetera
// @Tags         wallet
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.WalletTransactionResponse
// @Router       /api/wallet/transactions [get]
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	out, err := h.uc.ListTransactions(GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopUp godoc
// @Summary      Iniciar recarga de saldo
// @Description  Crea la orden en la pasarela de pagos y devuelve los datos que
// @Description  el frontend necesita para abrir el checkout.
// @Tags         wallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TopUpRequest  true  "Monto a recargar"
// @Success      201   {object}  dto.TopUpResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/wallet/top-up [post]
func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	var in dto.TopUpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.InitiateTopUp(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ConfirmTopUp godoc
// @Summary      Confirmar recarga con la firma de la pasarela
// @Description  El saldo solo se acredita si la firma del pago verifica.
// @Tags         wallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmTopUpRequest  true  "Firma del pago"
// @Success      200   {object}  dto.WalletResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/wallet/top-up/confirm [post]
func (h *WalletHandler) ConfirmTopUp(c *fiber.Ctx) error {
	var in dto.ConfirmTopUpRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "gateway_order_id, gateway_payment_id y signature son requeridos"})
	}
	out, err := h.uc.ConfirmTopUp(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
