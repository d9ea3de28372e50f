package dto

import "time"

// StockOrderItemRequest línea al crear una orden de stock. Para ajustes,
// expected_qty es el delta con signo.
type StockOrderItemRequest struct {
	BookID      string `json:"book_id"`
	ProductName string `json:"product_name"`
	ExpectedQty int    `json:"expected_qty"`
}

// CreateShipmentRequest alta de envío de proveedor (estado inicial: draft).
type CreateShipmentRequest struct {
	CatalogType string                  `json:"catalog_type"`
	Supplier    string                  `json:"supplier"`
	Items       []StockOrderItemRequest `json:"items"`
	Notes       string                  `json:"notes"`
}

// CreateReturnRequest alta de devolución de cliente (estado inicial: registered).
type CreateReturnRequest struct {
	CatalogType   string                  `json:"catalog_type"`
	LinkedOrderID string                  `json:"linked_order_id"`
	CustomerName  string                  `json:"customer_name"`
	ReturnReason  string                  `json:"return_reason"`
	Items         []StockOrderItemRequest `json:"items"`
	Notes         string                  `json:"notes"`
}

// CreateAdjustmentRequest alta de ajuste manual (estado inicial: requested).
type CreateAdjustmentRequest struct {
	CatalogType      string                  `json:"catalog_type"`
	AdjustmentReason string                  `json:"adjustment_reason"`
	Items            []StockOrderItemRequest `json:"items"`
	Notes            string                  `json:"notes"`
}

// ItemUpdate actualización de una línea durante una transición (cantidades
// recibidas, condición tras inspección). ReceivedQty omitido asume la cantidad
// esperada; un 0 explícito significa que no llegó nada.
type ItemUpdate struct {
	BookID      string `json:"book_id"`
	ReceivedQty *int   `json:"received_qty,omitempty"`
	Condition   string `json:"condition,omitempty"` // new | good | damaged
}

// TransitionRequest cuerpo de POST /stock-orders/{id}/transition/{targetStatus}.
type TransitionRequest struct {
	ItemsUpdate []ItemUpdate `json:"items_update,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// StockOrderItemResponse línea de una orden en respuestas.
type StockOrderItemResponse struct {
	BookID      string `json:"book_id"`
	ProductName string `json:"product_name"`
	ExpectedQty int    `json:"expected_qty"`
	ReceivedQty int    `json:"received_qty"`
	Condition   string `json:"condition,omitempty"`
}

// StatusChangeResponse entrada del historial de estados.
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	By        string    `json:"by"`
	ByName    string    `json:"by_name"`
	Timestamp time.Time `json:"timestamp"`
}

// StockOrderResponse representación completa de una orden de stock.
// NextStatuses lista los destinos válidos desde el estado actual; vacío = terminal
// (la UI solo ofrece "Avanzar" cuando hay destinos).
type StockOrderResponse struct {
	OrderID          string                   `json:"order_id"`
	OrderNumber      string                   `json:"order_number"`
	Type             string                   `json:"type"`
	CatalogType      string                   `json:"catalog_type"`
	Status           string                   `json:"status"`
	NextStatuses     []string                 `json:"next_statuses"`
	Terminal         bool                     `json:"terminal"`
	Items            []StockOrderItemResponse `json:"items"`
	Supplier         string                   `json:"supplier,omitempty"`
	LinkedOrderID    string                   `json:"linked_order_id,omitempty"`
	CustomerName     string                   `json:"customer_name,omitempty"`
	ReturnReason     string                   `json:"return_reason,omitempty"`
	AdjustmentReason string                   `json:"adjustment_reason,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	CreatedByName    string                   `json:"created_by_name"`
	StatusHistory    []StatusChangeResponse   `json:"status_history"`
}

// StockOrderListResponse listado paginado de órdenes de stock.
type StockOrderListResponse struct {
	Items []StockOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
