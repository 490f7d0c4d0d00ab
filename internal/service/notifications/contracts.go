//go:generate mockgen -source=contracts.go -destination=notifications_mocks_test.go -package=notifications_test

package notifications

import (
	"context"

	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/realtime"
)

// notificationRepository defines storage operations required by the service.
type notificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForRecipient(ctx context.Context, recipientID int64, types []domain.NotificationType, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64, types []domain.NotificationType) (bool, error)
	MarkAllRead(ctx context.Context, recipientID int64, types []domain.NotificationType) (int64, error)
}

// userDirectory resolves recipients: a single user by id, or the fan-out
// target set of new-order notifications.
type userDirectory interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	ListActiveCouriers(ctx context.Context) ([]domain.User, error)
}

// Pusher pushes an envelope to a user's live connections, best-effort.
type Pusher interface {
	Push(userID int64, env realtime.Envelope)
}
