package stockorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/domain/stockorder"
)

// La progresión de cada tipo debe ser estrictamente hacia adelante y terminar
// en los estados terminales documentados: received, approved/rejected, applied.
func TestNext_ProgresionPorTipo(t *testing.T) {
	cases := []struct {
		name string
		typ  stockorder.Type
		from stockorder.Status
		want []stockorder.Status
	}{
		{"envío draft avanza a confirmed", stockorder.TypeShipment, stockorder.StatusDraft, []stockorder.Status{stockorder.StatusConfirmed}},
		{"envío confirmed avanza a received", stockorder.TypeShipment, stockorder.StatusConfirmed, []stockorder.Status{stockorder.StatusReceived}},
		{"envío received es terminal", stockorder.TypeShipment, stockorder.StatusReceived, nil},
		{"devolución registered avanza a inspected", stockorder.TypeReturn, stockorder.StatusRegistered, []stockorder.Status{stockorder.StatusInspected}},
		{"devolución inspected ofrece dos destinos", stockorder.TypeReturn, stockorder.StatusInspected, []stockorder.Status{stockorder.StatusApproved, stockorder.StatusRejected}},
		{"devolución approved es terminal", stockorder.TypeReturn, stockorder.StatusApproved, nil},
		{"devolución rejected es terminal", stockorder.TypeReturn, stockorder.StatusRejected, nil},
		{"ajuste requested avanza a applied", stockorder.TypeAdjustment, stockorder.StatusRequested, []stockorder.Status{stockorder.StatusApplied}},
		{"ajuste applied es terminal", stockorder.TypeAdjustment, stockorder.StatusApplied, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.typ.Next(tc.from))
		})
	}
}

// Ningún estado debe poder regresar a uno anterior de su progresión.
func TestCanTransition_NoHayRetroceso(t *testing.T) {
	for _, typ := range []stockorder.Type{stockorder.TypeShipment, stockorder.TypeReturn, stockorder.TypeAdjustment} {
		statuses := typ.Statuses()
		require.NotEmpty(t, statuses)
		for i, from := range statuses {
			for j, to := range statuses {
				if j <= i {
					assert.False(t, typ.CanTransition(from, to),
						"%s: %s -> %s no debe ser válido", typ, from, to)
				}
			}
		}
	}
}

// Un estado de otro tipo no pertenece a la progresión y se trata como terminal.
func TestIsTerminal_EstadoAjeno(t *testing.T) {
	assert.True(t, stockorder.TypeShipment.IsTerminal(stockorder.StatusRegistered))
	assert.True(t, stockorder.TypeAdjustment.IsTerminal(stockorder.StatusDraft))
	assert.False(t, stockorder.TypeShipment.Belongs(stockorder.StatusApplied))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, stockorder.StatusDraft, stockorder.TypeShipment.Initial())
	assert.Equal(t, stockorder.StatusRegistered, stockorder.TypeReturn.Initial())
	assert.Equal(t, stockorder.StatusRequested, stockorder.TypeAdjustment.Initial())
}

// Solo los estados terminales que tocan inventario deben mutarlo: received,
// approved y applied. rejected termina la devolución sin mover stock.
func TestMutatesStock(t *testing.T) {
	assert.True(t, stockorder.TypeShipment.MutatesStock(stockorder.StatusReceived))
	assert.True(t, stockorder.TypeReturn.MutatesStock(stockorder.StatusApproved))
	assert.True(t, stockorder.TypeAdjustment.MutatesStock(stockorder.StatusApplied))

	assert.False(t, stockorder.TypeReturn.MutatesStock(stockorder.StatusRejected))
	assert.False(t, stockorder.TypeShipment.MutatesStock(stockorder.StatusConfirmed))
	assert.False(t, stockorder.TypeAdjustment.MutatesStock(stockorder.StatusRequested))
}

func TestValid(t *testing.T) {
	assert.True(t, stockorder.Type("shipment").Valid())
	assert.False(t, stockorder.Type("transfer").Valid())
}
