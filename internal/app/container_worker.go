package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/dig"

	"delivery-marketplace/internal/config"
	"delivery-marketplace/internal/logx"
	"delivery-marketplace/internal/realtime"
	"delivery-marketplace/internal/repository"
	"delivery-marketplace/internal/service/notifications"
	"delivery-marketplace/internal/service/orders"
	"delivery-marketplace/internal/transport/kafka"
)

// nopPusher drops realtime pushes. The worker process has no websocket
// clients; live delivery happens in the HTTP process.
type nopPusher struct{}

func (nopPusher) Push(int64, realtime.Envelope) {}

// MustBuildWorkerContainer builds the DI container for the admin-event worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewCatalogRepo,
		repository.NewUserRepo,
		repository.NewNotificationRepo,
		func() time.Duration { return 3 * time.Second },
		func(
			repo *repository.NotificationRepo,
			users *repository.UserRepo,
			timeout time.Duration,
			logger logx.Logger,
		) *notifications.Service {
			return notifications.NewService(repo, users, nopPusher{}, timeout, logger)
		},
		func(
			cfg *config.Config,
			repo *repository.OrderRepo,
			catalog *repository.CatalogRepo,
			dispatcher *notifications.Service,
			timeout time.Duration,
			logger logx.Logger,
		) *orders.Service {
			return orders.NewService(repo, catalog, dispatcher, cfg.Delivery.RollbackWindow, timeout, logger)
		},
		func(svc *orders.Service, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(svc, logger)
		},
		func(p *orders.Processor) kafka.HandleFunc {
			return p.Handle
		},
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h, logger)
		},
	)
}
