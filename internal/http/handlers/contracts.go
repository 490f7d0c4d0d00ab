package handlers

import (
	"context"

	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/service/orders"
)

// OrdersUsecase defines the order operations required by the HTTP layer.
type OrdersUsecase interface {
	Create(ctx context.Context, actor *domain.User, in orders.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error)
	Claim(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error)
	Unclaim(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error)
	Advance(ctx context.Context, orderID int64, actor *domain.User, requested domain.OrderStatus) (*domain.Order, error)
	ListForCustomer(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	ListAvailable(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	ListAssigned(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	ListCompleted(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	UpdateFields(ctx context.Context, actor *domain.User, u domain.PartialOrderUpdate) (*domain.Order, error)
	Delete(ctx context.Context, orderID int64, actor *domain.User) error
}

// NotificationsUsecase defines the notification operations required by the
// HTTP layer.
type NotificationsUsecase interface {
	List(ctx context.Context, actor *domain.User) ([]domain.Notification, error)
	Unread(ctx context.Context, actor *domain.User) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor *domain.User, id int64) error
	MarkAllRead(ctx context.Context, actor *domain.User) error
}
