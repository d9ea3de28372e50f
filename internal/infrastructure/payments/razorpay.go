// Package payments implementa la pasarela de recargas de billetera sobre Razorpay.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/application/wallet"
	"github.com/unatienda/store-api/pkg/config"
)

var _ wallet.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway crea órdenes de cobro y verifica firmas de pago.
type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// NewRazorpayGateway construye la pasarela con las credenciales configuradas.
func NewRazorpayGateway(cfg config.PaymentsConfig) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}
}

// CreateOrder registra la orden en la pasarela. La pasarela trabaja en la
// subunidad de la moneda (centavos), por eso el monto se multiplica por 100.
func (g *RazorpayGateway) CreateOrder(amount decimal.Decimal, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency": "INR",
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("crear orden en pasarela: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("respuesta de pasarela sin id de orden")
	}
	return id, nil
}

// VerifySignature valida la firma HMAC-SHA256 que la pasarela calcula sobre
// "orderID|paymentID" con el key secret.
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// KeyID clave pública para el checkout del cliente.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}
