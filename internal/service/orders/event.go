package orders

import "time"

// AdminEvent is a single administrative order event from the admin stream.
type AdminEvent struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
