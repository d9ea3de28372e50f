package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de preventa importada del tablero CRM externo.
const (
	PresalePending   = "pending"   // importada, sin estudiante vinculado
	PresaleLinked    = "linked"    // vinculada a un estudiante registrado
	PresaleDismissed = "dismissed" // descartada por el operador (fila inválida o duplicada)
)

// PresaleOrder orden de preventa de libros importada desde el CRM externo.
// CustomerName/CustomerEmail vienen tal cual del tablero; el matching contra
// estudiantes registrados usa las formas normalizadas.
type PresaleOrder struct {
	ID            string
	OrderNumber   string // snowflake legible
	BatchID       string // lote de importación (un archivo = un lote)
	RowNumber     int    // fila del archivo origen, para trazabilidad
	CustomerName  string
	CustomerEmail string
	StudentName   string
	Grade         string
	Total         decimal.Decimal
	Status        string // pending | linked | dismissed
	StudentID     string // al vincular
	LinkedBy      string // UserID del admin que confirmó
	ImportedAt    time.Time
	LinkedAt      *time.Time
}

// PresaleBatch lote de importación de preventa (un archivo xlsx subido).
type PresaleBatch struct {
	ID        string
	FileName  string
	TotalRows int
	Imported  int
	Skipped   int
	CreatedBy string
	CreatedAt time.Time
}

// LinkSuggestion candidato de vinculación para una orden de preventa.
// Score mayor = mejor coincidencia.
type LinkSuggestion struct {
	StudentID   string
	FullName    string
	Grade       string
	Score       int
	MatchReason string // email | name | partial
}
