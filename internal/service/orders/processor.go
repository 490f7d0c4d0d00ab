//go:generate mockgen -source=processor.go -destination=processor_mocks_test.go -package=orders

package orders

import (
	"context"
	"errors"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
)

// AdminPort abstracts the subset of order operations the Processor needs
// when handling administrative events.
type AdminPort interface {
	ApplyAdminStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// Processor applies administrative order events (cancel / return) consumed
// from the admin stream.
type Processor struct {
	orders AdminPort
	logger logx.Logger
}

// NewProcessor creates a new orders.Processor.
func NewProcessor(orders AdminPort, logger logx.Logger) *Processor {
	return &Processor{orders: orders, logger: logger}
}

// Handle processes a single administrative event. Malformed or stale events
// are logged and marked consumed; only infrastructure errors are retried.
func (p *Processor) Handle(ctx context.Context, e AdminEvent) error {
	status := domain.OrderStatus(e.Status)
	if status != domain.StatusCancelled && status != domain.StatusReturn {
		p.logger.Warn("admin event: unsupported status",
			logx.Int64("order_id", e.OrderID),
			logx.String("status", e.Status),
		)
		return nil
	}

	err := p.orders.ApplyAdminStatus(ctx, e.OrderID, status)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		p.logger.Warn("admin event: unknown order", logx.Int64("order_id", e.OrderID))
		return nil
	case errors.Is(err, apperr.ErrConflict):
		// lost a race with a concurrent transition; retry the event
		return err
	default:
		return err
	}
}
