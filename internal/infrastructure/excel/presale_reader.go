// Package excel implementa la lectura del archivo de preventa y la exportación
// del padrón de estudiantes en formato xlsx.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/unatienda/store-api/internal/application/presale"
)

var _ presale.Reader = (*PresaleReader)(nil)

// PresaleReader lee el xlsx exportado del tablero CRM externo. Columnas
// esperadas en la primera hoja: Cliente | Email | Estudiante | Grado | Total,
// con encabezado en la fila 1.
type PresaleReader struct{}

// NewPresaleReader construye el lector.
func NewPresaleReader() *PresaleReader {
	return &PresaleReader{}
}

// Read parsea el archivo completo. Las filas inválidas se devuelven con Err
// para que la importación las reporte sin abortar el lote.
func (p *PresaleReader) Read(r io.Reader) ([]presale.ParsedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	out := make([]presale.ParsedRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		rowNumber := i + 2 // fila 1 es el encabezado
		parsed := parseRow(rowNumber, cells)
		out = append(out, parsed)
	}
	return out, nil
}

func parseRow(rowNumber int, cells []string) presale.ParsedRow {
	row := presale.ParsedRow{RowNumber: rowNumber}
	col := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	row.CustomerName = col(0)
	row.CustomerEmail = col(1)
	row.StudentName = col(2)
	row.Grade = col(3)

	if row.CustomerName == "" {
		row.Err = "falta el nombre del cliente"
		return row
	}
	rawTotal := strings.ReplaceAll(strings.TrimPrefix(col(4), "$"), ",", "")
	if rawTotal == "" {
		row.Err = "falta el total"
		return row
	}
	total, err := decimal.NewFromString(rawTotal)
	if err != nil || total.IsNegative() {
		row.Err = "total inválido: " + col(4)
		return row
	}
	row.Total = total
	return row
}
