package stockorders

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/internal/domain/stockorder"
)

// UseCase gestiona el ciclo de vida de las órdenes de stock: creación por tipo
// y transición de estado. La transición y la mutación de inventario que dispara
// ocurren en una sola transacción con bloqueo de filas (SELECT FOR UPDATE).
type UseCase struct {
	txRunner  TxRunner
	orderRepo repository.StockOrderRepository
	node      *snowflake.Node
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, orderRepo repository.StockOrderRepository, node *snowflake.Node) *UseCase {
	return &UseCase{txRunner: txRunner, orderRepo: orderRepo, node: node}
}

// CreateShipment registra un envío de proveedor en estado draft.
func (uc *UseCase) CreateShipment(userID, userName string, in dto.CreateShipmentRequest) (*dto.StockOrderResponse, error) {
	if in.Supplier == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order := uc.newOrder(stockorder.TypeShipment, in.CatalogType, userID, userName, in.Items, in.Notes)
	order.Supplier = in.Supplier
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toStockOrderResponse(order), nil
}

// CreateReturn registra una devolución de cliente en estado registered.
func (uc *UseCase) CreateReturn(userID, userName string, in dto.CreateReturnRequest) (*dto.StockOrderResponse, error) {
	if in.CustomerName == "" || in.ReturnReason == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order := uc.newOrder(stockorder.TypeReturn, in.CatalogType, userID, userName, in.Items, in.Notes)
	order.LinkedOrderID = in.LinkedOrderID
	order.CustomerName = in.CustomerName
	order.ReturnReason = in.ReturnReason
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toStockOrderResponse(order), nil
}

// CreateAdjustment registra un ajuste manual en estado requested. Los ítems
// llevan el delta con signo en expected_qty.
func (uc *UseCase) CreateAdjustment(userID, userName string, in dto.CreateAdjustmentRequest) (*dto.StockOrderResponse, error) {
	if in.AdjustmentReason == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ExpectedQty == 0 {
			return nil, domain.ErrInvalidInput // un ajuste de cero no ajusta nada
		}
	}
	order := uc.newOrder(stockorder.TypeAdjustment, in.CatalogType, userID, userName, in.Items, in.Notes)
	order.AdjustmentReason = in.AdjustmentReason
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toStockOrderResponse(order), nil
}

func (uc *UseCase) newOrder(typ stockorder.Type, catalogType, userID, userName string, items []dto.StockOrderItemRequest, notes string) *entity.StockOrder {
	if catalogType != entity.CatalogPCA {
		catalogType = entity.CatalogPublic
	}
	now := time.Now()
	order := &entity.StockOrder{
		ID:            uuid.New().String(),
		OrderNumber:   uc.node.Generate().String(),
		Type:          typ,
		CatalogType:   catalogType,
		Status:        typ.Initial(),
		Notes:         notes,
		CreatedAt:     now,
		CreatedBy:     userID,
		CreatedByName: userName,
		StatusHistory: []entity.StatusChange{
			{Status: typ.Initial(), By: userID, ByName: userName, Timestamp: now},
		},
	}
	for _, it := range items {
		order.Items = append(order.Items, entity.StockOrderItem{
			BookID:      it.BookID,
			ProductName: it.ProductName,
			ExpectedQty: it.ExpectedQty,
		})
	}
	return order
}

// GetByID devuelve una orden de stock.
func (uc *UseCase) GetByID(id string) (*dto.StockOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toStockOrderResponse(order), nil
}

// List lista órdenes de stock con filtros, orden y paginación.
func (uc *UseCase) List(q repository.StockOrderQuery) (*dto.StockOrderListResponse, error) {
	orders, total, err := uc.orderRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *toStockOrderResponse(o))
	}
	return &dto.StockOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// StatusCounts cuenta las órdenes de un tipo por estado (contadores de las
// pestañas del panel).
func (uc *UseCase) StatusCounts(typ stockorder.Type) (map[string]int, error) {
	if !typ.Valid() {
		return nil, domain.ErrInvalidInput
	}
	counts, err := uc.orderRepo.CountByStatus(typ)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(typ.Statuses()))
	for _, s := range typ.Statuses() {
		out[string(s)] = counts[s]
	}
	return out, nil
}

// ParseTarget normaliza el estado destino crudo de la URL y valida que
// pertenezca a la progresión del tipo. Un destino ajeno al tipo es una
// transición inválida.
func ParseTarget(typ stockorder.Type, raw string) (stockorder.Status, error) {
	target := stockorder.Status(strings.ToLower(strings.TrimSpace(raw)))
	if !typ.Belongs(target) {
		return "", domain.ErrInvalidTransition
	}
	return target, nil
}

// Transition avanza la orden al estado destino. Reglas:
//   - El destino llega como texto y se valida contra la progresión del tipo
//     de la orden (ParseTarget); solo hay transiciones hacia adelante y
//     repetir una ya aplicada devuelve ErrConflict sin mutar nada.
//   - items_update actualiza received_qty/condition antes de aplicar stock.
//   - Si el destino muta inventario (received/approved/applied), la mutación
//     ocurre en la misma transacción, con las filas de producto bloqueadas.
func (uc *UseCase) Transition(ctx context.Context, orderID, rawTarget, userID, userName string, in dto.TransitionRequest) (*dto.StockOrderResponse, error) {
	var result *entity.StockOrder
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.StockOrderRepository,
		productRepo repository.ProductRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		target, err := ParseTarget(order.Type, rawTarget)
		if err != nil {
			return err
		}
		if order.Status == target {
			return domain.ErrConflict // repetición de una transición ya aplicada
		}
		if !order.Type.CanTransition(order.Status, target) {
			if order.IsTerminal() {
				return domain.ErrOrderTerminal
			}
			return domain.ErrInvalidTransition
		}

		if err := applyItemUpdates(order, in.ItemsUpdate); err != nil {
			return err
		}
		if in.Notes != "" {
			if order.Notes != "" {
				order.Notes += "\n"
			}
			order.Notes += in.Notes
		}

		if order.Type.MutatesStock(target) {
			if err := applyStock(productRepo, order); err != nil {
				return err
			}
		}

		order.Status = target
		change := entity.StatusChange{Status: target, By: userID, ByName: userName, Timestamp: time.Now()}
		order.StatusHistory = append(order.StatusHistory, change)
		if err := orderRepo.UpdateStatus(order, change); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockOrderResponse(result), nil
}

// applyItemUpdates vuelca items_update sobre las líneas de la orden. Un
// received_qty de 0 explícito se registra como reportado: no llegó nada.
func applyItemUpdates(order *entity.StockOrder, updates []dto.ItemUpdate) error {
	for _, up := range updates {
		found := false
		for i := range order.Items {
			if order.Items[i].BookID != up.BookID {
				continue
			}
			if up.ReceivedQty != nil {
				if *up.ReceivedQty < 0 {
					return domain.ErrInvalidInput
				}
				order.Items[i].ReceivedQty = *up.ReceivedQty
				order.Items[i].QtyReported = true
			}
			if up.Condition != "" {
				switch up.Condition {
				case entity.ConditionNew, entity.ConditionGood, entity.ConditionDamaged:
					order.Items[i].Condition = up.Condition
				default:
					return domain.ErrInvalidInput
				}
			}
			found = true
			break
		}
		if !found {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// applyStock aplica el movimiento de inventario de una orden que alcanza su
// estado mutador, bloqueando cada fila de producto antes de sumar el delta.
func applyStock(productRepo repository.ProductRepository, order *entity.StockOrder) error {
	for i := range order.Items {
		item := &order.Items[i]
		delta := stockDelta(order.Type, item)
		if delta == 0 {
			continue
		}
		product, err := productRepo.GetForUpdate(item.BookID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.InventoryQuantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.AdjustInventory(item.BookID, delta); err != nil {
			return err
		}
	}
	return nil
}

// stockDelta calcula el delta de inventario de una línea según el tipo:
//   - envío recibido: entra lo reportado en received_qty (incluido un 0
//     explícito); sin reporte, lo esperado.
//   - devolución aprobada: solo reingresan ítems en condición vendible.
//   - ajuste aplicado: el delta con signo de expected_qty.
func stockDelta(typ stockorder.Type, item *entity.StockOrderItem) int {
	switch typ {
	case stockorder.TypeShipment:
		if item.QtyReported {
			return item.ReceivedQty
		}
		return item.ExpectedQty
	case stockorder.TypeReturn:
		if item.Condition != entity.ConditionNew && item.Condition != entity.ConditionGood {
			return 0
		}
		if item.QtyReported {
			return item.ReceivedQty
		}
		return item.ExpectedQty
	case stockorder.TypeAdjustment:
		return item.ExpectedQty
	}
	return 0
}

func toStockOrderResponse(o *entity.StockOrder) *dto.StockOrderResponse {
	if o == nil {
		return nil
	}
	next := o.Type.Next(o.Status)
	nextStr := make([]string, 0, len(next))
	for _, s := range next {
		nextStr = append(nextStr, string(s))
	}
	items := make([]dto.StockOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.StockOrderItemResponse{
			BookID:      it.BookID,
			ProductName: it.ProductName,
			ExpectedQty: it.ExpectedQty,
			ReceivedQty: it.ReceivedQty,
			Condition:   it.Condition,
		})
	}
	history := make([]dto.StatusChangeResponse, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, dto.StatusChangeResponse{
			Status:    string(h.Status),
			By:        h.By,
			ByName:    h.ByName,
			Timestamp: h.Timestamp,
		})
	}
	return &dto.StockOrderResponse{
		OrderID:          o.ID,
		OrderNumber:      o.OrderNumber,
		Type:             string(o.Type),
		CatalogType:      o.CatalogType,
		Status:           string(o.Status),
		NextStatuses:     nextStr,
		Terminal:         o.IsTerminal(),
		Items:            items,
		Supplier:         o.Supplier,
		LinkedOrderID:    o.LinkedOrderID,
		CustomerName:     o.CustomerName,
		ReturnReason:     o.ReturnReason,
		AdjustmentReason: o.AdjustmentReason,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		CreatedByName:    o.CreatedByName,
		StatusHistory:    history,
	}
}
