// Package cart implementa el reductor puro del carrito. La persistencia
// (Redis) solo guarda el resultado; toda la lógica de fusión y límites vive aquí.
package cart

import (
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
)

// Add agrega una línea al carrito. Si el producto ya existe, incrementa la
// cantidad de la línea existente en lugar de duplicarla. La cantidad resultante
// se valida contra InventoryQuantity salvo que el ítem sea de catálogo privado.
// Ante un exceso devuelve ErrInsufficientStock y el carrito queda sin cambios.
func Add(items []entity.CartItem, in entity.CartItem) ([]entity.CartItem, error) {
	if in.ProductID == "" || in.Quantity < 1 {
		return items, domain.ErrInvalidInput
	}
	for i, it := range items {
		if it.ProductID != in.ProductID {
			continue
		}
		newQty := it.Quantity + in.Quantity
		if !it.IsPrivateCatalog && newQty > it.InventoryQuantity {
			return items, domain.ErrInsufficientStock
		}
		out := make([]entity.CartItem, len(items))
		copy(out, items)
		out[i].Quantity = newQty
		return out, nil
	}
	if !in.IsPrivateCatalog && in.Quantity > in.InventoryQuantity {
		return items, domain.ErrInsufficientStock
	}
	out := make([]entity.CartItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, in), nil
}

// UpdateQuantity fija la cantidad de una línea. Con quantity < 1 la línea se
// elimina. El límite de inventario aplica igual que en Add.
func UpdateQuantity(items []entity.CartItem, productID string, quantity int) ([]entity.CartItem, error) {
	for i, it := range items {
		if it.ProductID != productID {
			continue
		}
		if quantity < 1 {
			return Remove(items, productID), nil
		}
		if !it.IsPrivateCatalog && quantity > it.InventoryQuantity {
			return items, domain.ErrInsufficientStock
		}
		out := make([]entity.CartItem, len(items))
		copy(out, items)
		out[i].Quantity = quantity
		return out, nil
	}
	return items, domain.ErrNotFound
}

// Remove elimina la línea del producto indicado; si no existe, no hace nada.
func Remove(items []entity.CartItem, productID string) []entity.CartItem {
	out := make([]entity.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
