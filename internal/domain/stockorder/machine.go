// Package stockorder define la máquina de estados de las órdenes de stock.
//
// Cada tipo de orden (envío, devolución, ajuste) lleva su propio conjunto finito
// de estados y una función de transición total (estado) -> siguientes estados.
// Las transiciones son estrictamente hacia adelante: ningún estado terminal
// admite salida y no existe transición de retroceso.
package stockorder

// Type es el tipo de movimiento de stock.
type Type string

const (
	TypeShipment   Type = "shipment"   // envío de proveedor
	TypeReturn     Type = "return"     // devolución de cliente
	TypeAdjustment Type = "adjustment" // ajuste manual de inventario
)

// Status es un estado dentro de la progresión de un tipo de orden.
type Status string

// Estados por tipo:
//
//	shipment:   draft -> confirmed -> received
//	return:     registered -> inspected -> {approved, rejected}
//	adjustment: requested -> applied
const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusReceived  Status = "received"

	StatusRegistered Status = "registered"
	StatusInspected  Status = "inspected"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"

	StatusRequested Status = "requested"
	StatusApplied   Status = "applied"
)

// Valid indica si el tipo es uno de los tres conocidos.
func (t Type) Valid() bool {
	switch t {
	case TypeShipment, TypeReturn, TypeAdjustment:
		return true
	}
	return false
}

// Initial devuelve el estado inicial del tipo.
func (t Type) Initial() Status {
	switch t {
	case TypeShipment:
		return StatusDraft
	case TypeReturn:
		return StatusRegistered
	case TypeAdjustment:
		return StatusRequested
	}
	return ""
}

// Next devuelve los estados alcanzables desde s para el tipo t. La función es
// total: un estado terminal o desconocido devuelve nil. Cuando hay más de una
// opción (devolución inspeccionada) el operador elige el destino.
func (t Type) Next(s Status) []Status {
	switch t {
	case TypeShipment:
		switch s {
		case StatusDraft:
			return []Status{StatusConfirmed}
		case StatusConfirmed:
			return []Status{StatusReceived}
		}
	case TypeReturn:
		switch s {
		case StatusRegistered:
			return []Status{StatusInspected}
		case StatusInspected:
			return []Status{StatusApproved, StatusRejected}
		}
	case TypeAdjustment:
		if s == StatusRequested {
			return []Status{StatusApplied}
		}
	}
	return nil
}

// CanTransition indica si (from -> to) es una transición válida para el tipo.
func (t Type) CanTransition(from, to Status) bool {
	for _, next := range t.Next(from) {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si s no admite más transiciones bajo el tipo t.
// Un estado desconocido para el tipo también se reporta terminal: la UI no debe
// ofrecer "Avanzar" sobre datos que la máquina no reconoce.
func (t Type) IsTerminal(s Status) bool {
	return len(t.Next(s)) == 0
}

// Belongs indica si s pertenece a la progresión del tipo t.
func (t Type) Belongs(s Status) bool {
	for _, st := range t.Statuses() {
		if st == s {
			return true
		}
	}
	return false
}

// Statuses devuelve la progresión completa del tipo, en orden.
func (t Type) Statuses() []Status {
	switch t {
	case TypeShipment:
		return []Status{StatusDraft, StatusConfirmed, StatusReceived}
	case TypeReturn:
		return []Status{StatusRegistered, StatusInspected, StatusApproved, StatusRejected}
	case TypeAdjustment:
		return []Status{StatusRequested, StatusApplied}
	}
	return nil
}

// MutatesStock indica si alcanzar el estado s bajo el tipo t debe aplicar el
// movimiento al inventario (dentro de la misma transacción que el cambio de estado).
func (t Type) MutatesStock(s Status) bool {
	switch t {
	case TypeShipment:
		return s == StatusReceived
	case TypeReturn:
		return s == StatusApproved
	case TypeAdjustment:
		return s == StatusApplied
	}
	return false
}
