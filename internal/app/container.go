package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-marketplace/internal/auth"
	"delivery-marketplace/internal/config"
	"delivery-marketplace/internal/http/handlers"
	"delivery-marketplace/internal/http/middleware/ratelimit"
	"delivery-marketplace/internal/http/router"
	"delivery-marketplace/internal/logx"
	"delivery-marketplace/internal/metrics"
	"delivery-marketplace/internal/realtime"
	"delivery-marketplace/internal/repository"
	"delivery-marketplace/internal/service/notifications"
	"delivery-marketplace/internal/service/orders"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(cfg.DB.DSN()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pool, nil
	}
	return provideAll(container, providerDB)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewCatalogRepo,
		repository.NewUserRepo,
		repository.NewNotificationRepo,
		func() time.Duration { return 3 * time.Second },
		newRealtimeMetrics,
		realtime.NewHub,
		func(
			repo *repository.NotificationRepo,
			users *repository.UserRepo,
			hub *realtime.Hub,
			timeout time.Duration,
			logger logx.Logger,
		) *notifications.Service {
			return notifications.NewService(repo, users, hub, timeout, logger)
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
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		logger logx.Logger,
		base *handlers.Handlers,
		client *handlers.ClientOrderHandler,
		courier *handlers.CourierOrderHandler,
		notif *handlers.NotificationHandler,
		identity *auth.Identity,
		rl *ratelimit.Middleware,
		hub *realtime.Hub,
	) http.Handler {
		return router.New(router.Deps{
			Logger:        logger,
			Base:          base,
			ClientOrders:  client,
			CourierOrders: courier,
			Notifications: notif,
			Auth:          auth.Middleware(identity),
			RateLimit:     rl.Handler(),
			Websocket:     realtime.Handler(hub, identity, logger),
		})
	}
	return provideAll(container,
		handlers.New,
		func(uc *orders.Service) *handlers.ClientOrderHandler { return handlers.NewClientOrderHandler(uc) },
		func(uc *orders.Service) *handlers.CourierOrderHandler { return handlers.NewCourierOrderHandler(uc) },
		func(uc *notifications.Service) *handlers.NotificationHandler { return handlers.NewNotificationHandler(uc) },
		func(cfg *config.Config, users *repository.UserRepo) *auth.Identity {
			return auth.NewIdentity(cfg.Auth.Secret, users)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitCounter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}

// newRealtimeMetrics registers the realtime collectors with the default
// registry; tolerate re-registration so container tests can build twice.
func newRealtimeMetrics() *metrics.Realtime {
	m := metrics.NewRealtime()
	for _, c := range m.Collectors() {
		if err := prometheus.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				log.Printf("metrics register: %v", err)
			}
		}
	}
	return m
}
