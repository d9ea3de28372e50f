package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow_FilaValida(t *testing.T) {
	row := parseRow(2, []string{"María Gómez", "maria@example.com", "Pedro Gómez", "5A", "$1,250.50"})

	require.Empty(t, row.Err)
	assert.Equal(t, 2, row.RowNumber)
	assert.Equal(t, "María Gómez", row.CustomerName)
	assert.Equal(t, "maria@example.com", row.CustomerEmail)
	assert.Equal(t, "Pedro Gómez", row.StudentName)
	assert.Equal(t, "5A", row.Grade)
	assert.Equal(t, "1250.5", row.Total.String())
}

func TestParseRow_SinNombreDeCliente(t *testing.T) {
	row := parseRow(3, []string{"", "x@example.com", "Ana", "3B", "100"})
	assert.Equal(t, "falta el nombre del cliente", row.Err)
}

func TestParseRow_TotalInvalido(t *testing.T) {
	row := parseRow(4, []string{"Juan Pérez", "", "Ana", "3B", "no-es-numero"})
	assert.Contains(t, row.Err, "total inválido")

	row = parseRow(5, []string{"Juan Pérez", "", "Ana", "3B", ""})
	assert.Equal(t, "falta el total", row.Err)
}

func TestParseRow_CeldasFaltantesAlFinal(t *testing.T) {
	// la fila viene corta cuando las últimas celdas están vacías en el xlsx
	row := parseRow(6, []string{"Juan Pérez"})
	assert.Equal(t, "falta el total", row.Err)
}
