package receipts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// Receipt datos que el generador PDF plasma en el documento.
type Receipt struct {
	OrderNumber  string
	CustomerName string
	StudentName  string
	Grade        string
	Total        decimal.Decimal
	IssuedAt     time.Time
}

// Generator puerto del generador de PDF (maroto).
type Generator interface {
	Generate(r Receipt) ([]byte, error)
}

// UseCase genera recibos descargables para órdenes de preventa.
type UseCase struct {
	presaleRepo repository.PresaleRepository
	generator   Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(presaleRepo repository.PresaleRepository, generator Generator) *UseCase {
	return &UseCase{presaleRepo: presaleRepo, generator: generator}
}

// ForPresaleOrder genera el recibo PDF de una orden de preventa.
func (uc *UseCase) ForPresaleOrder(orderID string) ([]byte, string, error) {
	order, err := uc.presaleRepo.GetOrder(orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.generator.Generate(Receipt{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		StudentName:  order.StudentName,
		Grade:        order.Grade,
		Total:        order.Total,
		IssuedAt:     time.Now(),
	})
	if err != nil {
		return nil, "", err
	}
	return pdf, "recibo-" + order.OrderNumber + ".pdf", nil
}
