package entity

import (
	"time"

	"github.com/unatienda/store-api/internal/domain/stockorder"
)

// Condición de los ítems recibidos en una orden de stock. Solo los ítems en
// condición vendible regresan al inventario al aprobar una devolución.
const (
	ConditionNew     = "new"
	ConditionGood    = "good"
	ConditionDamaged = "damaged"
)

// StockOrderItem línea de una orden de stock. Para ajustes, ExpectedQty es el
// delta con signo; para envíos y devoluciones son cantidades positivas.
type StockOrderItem struct {
	BookID      string `json:"book_id"`
	ProductName string `json:"product_name"`
	ExpectedQty int    `json:"expected_qty"`
	ReceivedQty int    `json:"received_qty"`
	QtyReported bool   `json:"qty_reported,omitempty"` // distingue el 0 explícito de la cantidad no reportada
	Condition   string `json:"condition"`              // new | good | damaged (vacío hasta inspección/recepción)
}

// StatusChange entrada del historial de estados de una orden.
type StatusChange struct {
	Status    stockorder.Status `json:"status"`
	By        string            `json:"by"` // UserID
	ByName    string            `json:"by_name"`
	Timestamp time.Time         `json:"timestamp"`
}

// StockOrder representa un movimiento que afecta inventario: envío de proveedor,
// devolución de cliente o ajuste manual. Nunca se borra; alcanza un estado terminal.
type StockOrder struct {
	ID               string
	OrderNumber      string // snowflake legible para operadores
	Type             stockorder.Type
	CatalogType      string // public | pca
	Status           stockorder.Status
	Items            []StockOrderItem
	Supplier         string // envíos
	LinkedOrderID    string // devoluciones: orden de venta original
	CustomerName     string // devoluciones
	ReturnReason     string // devoluciones
	AdjustmentReason string // ajustes
	Notes            string
	CreatedAt        time.Time
	CreatedBy        string
	CreatedByName    string
	StatusHistory    []StatusChange
}

// IsTerminal indica si la orden ya no admite transiciones.
func (o *StockOrder) IsTerminal() bool {
	return o.Type.IsTerminal(o.Status)
}
