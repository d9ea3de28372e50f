package entity

import "time"

// Remitentes de un mensaje CRM.
const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// Conversation hilo de mensajería entre un cliente y la tienda.
type Conversation struct {
	ID            string
	UserID        string
	Subject       string
	LastMessageAt time.Time
	Closed        bool
	CreatedAt     time.Time
}

// Message mensaje dentro de una conversación.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string // UserID
	SenderRole     string // customer | admin
	Body           string
	CreatedAt      time.Time
}
