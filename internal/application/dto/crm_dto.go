package dto

import "time"

// StartConversationRequest el cliente abre un hilo nuevo.
type StartConversationRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PostMessageRequest mensaje dentro de un hilo existente.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// ConversationResponse hilo con su contador de no leídos (lado admin).
type ConversationResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Subject       string    `json:"subject"`
	Unread        int64     `json:"unread"`
	Closed        bool      `json:"closed"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// MessageResponse mensaje de una conversación.
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// DashboardResponse resumen del panel admin.
type DashboardResponse struct {
	Products          int    `json:"products"`
	Students          int    `json:"students"`
	OpenStockOrders   int    `json:"open_stock_orders"`
	PendingPresale    int    `json:"pending_presale"`
	OpenConversations int    `json:"open_conversations"`
	WalletVolume      string `json:"wallet_volume"`
}
