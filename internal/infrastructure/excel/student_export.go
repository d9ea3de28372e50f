package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/unatienda/store-api/internal/application/students"
	"github.com/unatienda/store-api/internal/domain/entity"
)

var _ students.RosterExporter = (*StudentExporter)(nil)

// StudentExporter genera el padrón de estudiantes en xlsx.
type StudentExporter struct{}

// NewStudentExporter construye el exportador.
func NewStudentExporter() *StudentExporter {
	return &StudentExporter{}
}

// Export arma el archivo con una fila por estudiante.
func (e *StudentExporter) Export(list []*entity.Student) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Nombre completo", "Grado", "Email del acudiente", "Código externo", "Registrado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
	}

	for i, s := range list {
		values := []any{s.FullName, s.Grade, s.GuardianEmail, s.ExternalCode, s.CreatedAt.Format("2006-01-02")}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("escribir fila %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
