package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportResultResponse resumen de una importación de preventa (un archivo = un lote).
type ImportResultResponse struct {
	BatchID   string   `json:"batch_id"`
	FileName  string   `json:"file_name"`
	TotalRows int      `json:"total_rows"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// PresaleOrderResponse orden de preventa importada.
type PresaleOrderResponse struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	BatchID       string          `json:"batch_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	StudentName   string          `json:"student_name"`
	Grade         string          `json:"grade"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	StudentID     string          `json:"student_id,omitempty"`
	ImportedAt    time.Time       `json:"imported_at"`
	LinkedAt      *time.Time      `json:"linked_at,omitempty"`
}

// PresaleListResponse listado paginado de órdenes de preventa.
type PresaleListResponse struct {
	Items []PresaleOrderResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// LinkSuggestionResponse candidato de vinculación para una orden.
type LinkSuggestionResponse struct {
	StudentID   string `json:"student_id"`
	FullName    string `json:"full_name"`
	Grade       string `json:"grade"`
	Score       int    `json:"score"`
	MatchReason string `json:"match_reason"`
}

// LinkRequest el admin confirma el vínculo orden-estudiante.
type LinkRequest struct {
	StudentID string `json:"student_id"`
}
