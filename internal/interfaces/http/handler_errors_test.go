package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
)

// Fija el contrato error de dominio -> código HTTP que consumen los handlers.
// Toda transición rechazada (inválida, repetida o sobre orden terminal) es 409;
// los 422 quedan para reglas de negocio sobre una petición bien formada.
func TestRespondError_MapeoDeCodigos(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"transición inválida", domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
		{"transición repetida", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"orden terminal", domain.ErrOrderTerminal, fiber.StatusConflict, "ORDER_TERMINAL"},
		{"stock insuficiente", domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"saldo insuficiente", domain.ErrInsufficientFunds, fiber.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"código expirado", domain.ErrCodeExpired, fiber.StatusUnprocessableEntity, "CODE_EXPIRED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/t", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
