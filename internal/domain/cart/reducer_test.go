package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/cart"
	"github.com/unatienda/store-api/internal/domain/entity"
)

func item(id string, qty, inv int, private bool) entity.CartItem {
	return entity.CartItem{
		ProductID:         id,
		Name:              "Libro " + id,
		Price:             decimal.NewFromInt(10),
		Quantity:          qty,
		InventoryQuantity: inv,
		IsPrivateCatalog:  private,
	}
}

// Agregar un producto que ya está en el carrito incrementa la cantidad de la
// línea existente; no se duplica la fila.
func TestAdd_ProductoExistenteIncrementaCantidad(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 1, 10, false)}

	out, err := cart.Add(items, item("libro-1", 2, 10, false))
	require.NoError(t, err)

	require.Len(t, out, 1, "no debe duplicarse la línea")
	assert.Equal(t, 3, out[0].Quantity)
	// El slice original no se muta
	assert.Equal(t, 1, items[0].Quantity)
}

// Pasarse del inventario en un ítem no privado se rechaza y el carrito queda igual.
func TestAdd_ExcedeInventarioRechazado(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 4, 5, false)}

	out, err := cart.Add(items, item("libro-1", 2, 5, false))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, items, out, "el carrito debe quedar sin cambios")
}

// Los ítems de catálogo privado no se restringen contra inventario.
func TestAdd_CatalogoPrivadoSinLimite(t *testing.T) {
	items := []entity.CartItem{item("libro-pca", 4, 1, true)}

	out, err := cart.Add(items, item("libro-pca", 10, 1, true))
	require.NoError(t, err)
	assert.Equal(t, 14, out[0].Quantity)
}

func TestAdd_ProductoNuevoSeAgrega(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 1, 5, false)}

	out, err := cart.Add(items, item("libro-2", 2, 5, false))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "libro-2", out[1].ProductID)
}

func TestAdd_CantidadInvalida(t *testing.T) {
	_, err := cart.Add(nil, item("libro-1", 0, 5, false))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// updateQuantity con cantidad < 1 elimina la línea.
func TestUpdateQuantity_MenorAUnoElimina(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 3, 5, false), item("libro-2", 1, 5, false)}

	out, err := cart.UpdateQuantity(items, "libro-1", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "libro-2", out[0].ProductID)
}

func TestUpdateQuantity_RespetaInventario(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 3, 5, false)}

	out, err := cart.UpdateQuantity(items, "libro-1", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, items, out)

	out, err = cart.UpdateQuantity(items, "libro-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out[0].Quantity)
}

func TestUpdateQuantity_ProductoInexistente(t *testing.T) {
	_, err := cart.UpdateQuantity(nil, "nope", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove(t *testing.T) {
	items := []entity.CartItem{item("libro-1", 1, 5, false), item("libro-2", 1, 5, false)}

	out := cart.Remove(items, "libro-1")
	require.Len(t, out, 1)
	assert.Equal(t, "libro-2", out[0].ProductID)

	assert.Len(t, cart.Remove(out, "desconocido"), 1)
}
