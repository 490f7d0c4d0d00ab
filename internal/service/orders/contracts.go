package orders

import (
	"context"

	"delivery-marketplace/internal/domain"
)

// orderRepository defines storage operations required by the state machine.
type orderRepository interface {
	Create(ctx context.Context, o *domain.Order) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	ListAvailable(ctx context.Context) ([]domain.Order, error)
	ListAssigned(ctx context.Context, courierID int64) ([]domain.Order, error)
	ListCompleted(ctx context.Context, courierID int64) ([]domain.Order, error)
	Claim(ctx context.Context, orderID, courierID int64) (bool, error)
	Unclaim(ctx context.Context, orderID, courierID int64) (bool, error)
	UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error)
	UpdatePartial(ctx context.Context, u domain.PartialOrderUpdate) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// catalogRepository resolves the catalog service an order references,
// the source of the price snapshot taken at creation.
type catalogRepository interface {
	Get(ctx context.Context, id int64) (*domain.CatalogService, error)
}

// Dispatcher delivers notifications triggered by state transitions.
// recipientID 0 means "resolve recipients from the type and the order".
// Implementations never fail the triggering transition: delivery problems
// are logged and swallowed behind this boundary.
type Dispatcher interface {
	Dispatch(ctx context.Context, order *domain.Order, typ domain.NotificationType, title, message string, recipientID int64)
}
