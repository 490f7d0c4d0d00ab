package realtime

import (
	"time"

	"delivery-marketplace/internal/domain"
)

// Envelope is the JSON payload pushed to a subscriber's live connections.
type Envelope struct {
	ID          int64                   `json:"id"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	OrderID     *int64                  `json:"order_id"`
	OrderStatus domain.OrderStatus      `json:"order_status,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}
