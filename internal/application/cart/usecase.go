package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	cartdomain "github.com/unatienda/store-api/internal/domain/cart"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// Store puerto de persistencia del carrito (Redis). Un carrito por usuario.
type Store interface {
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, userID string) error
}

// UseCase casos de uso del carrito. La lógica de fusión y límites vive en el
// paquete de dominio; aquí solo se carga estado, se reduce y se guarda.
type UseCase struct {
	store       Store
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(store Store, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{store: store, productRepo: productRepo}
}

// Get devuelve el carrito del usuario (vacío si nunca agregó nada).
func (uc *UseCase) Get(ctx context.Context, userID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// AddItem agrega un producto al carrito fusionando con la línea existente.
func (uc *UseCase) AddItem(ctx context.Context, userID string, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if in.ProductID == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}
	c, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := cartdomain.Add(c.Items, entity.CartItem{
		ProductID:         product.ID,
		Name:              product.Name,
		Price:             product.Price,
		Quantity:          in.Quantity,
		InventoryQuantity: product.InventoryQuantity,
		IsPrivateCatalog:  product.IsPrivateCatalog,
	})
	if err != nil {
		return nil, err
	}
	return uc.save(ctx, c, items)
}

// UpdateQuantity fija la cantidad de una línea; con quantity < 1 la elimina.
func (uc *UseCase) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := cartdomain.UpdateQuantity(c.Items, productID, quantity)
	if err != nil {
		return nil, err
	}
	return uc.save(ctx, c, items)
}

// RemoveItem quita una línea del carrito.
func (uc *UseCase) RemoveItem(ctx context.Context, userID, productID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.save(ctx, c, cartdomain.Remove(c.Items, productID))
}

// Clear vacía el carrito del usuario.
func (uc *UseCase) Clear(ctx context.Context, userID string) error {
	return uc.store.Delete(ctx, userID)
}

func (uc *UseCase) load(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := uc.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &entity.Cart{UserID: userID}
	}
	return c, nil
}

func (uc *UseCase) save(ctx context.Context, c *entity.Cart, items []entity.CartItem) (*dto.CartResponse, error) {
	c.Items = items
	c.UpdatedAt = time.Now()
	if err := uc.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

func toCartResponse(c *entity.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	total := decimal.Zero
	for _, it := range c.Items {
		subtotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(subtotal)
		items = append(items, dto.CartItemResponse{
			ProductID:         it.ProductID,
			Name:              it.Name,
			Price:             it.Price,
			Quantity:          it.Quantity,
			InventoryQuantity: it.InventoryQuantity,
			IsPrivateCatalog:  it.IsPrivateCatalog,
			Subtotal:          subtotal,
		})
	}
	return &dto.CartResponse{Items: items, Total: total, UpdatedAt: c.UpdatedAt}
}
