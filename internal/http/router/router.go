package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-marketplace/internal/http/handlers"
	mw "delivery-marketplace/internal/http/middleware"
	"delivery-marketplace/internal/logx"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Logger        logx.Logger
	Base          *handlers.Handlers
	ClientOrders  *handlers.ClientOrderHandler
	CourierOrders *handlers.CourierOrderHandler
	Notifications *handlers.NotificationHandler
	Auth          func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Websocket     http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Observability(d.Logger))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	// REST routes run under auth, a per-caller rate limit and a request
	// timeout.
	r.Group(func(r chi.Router) {
		r.Use(d.Auth)
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		r.Use(chimw.Timeout(10 * time.Second))

		r.Route("/client/orders", func(r chi.Router) {
			r.Post("/", d.ClientOrders.Create)
			r.Get("/", d.ClientOrders.List)
			r.Get("/{id}", d.ClientOrders.GetByID)
			r.Patch("/{id}", d.ClientOrders.Update)
			r.Delete("/{id}", d.ClientOrders.Delete)
		})

		r.Route("/courier/orders", func(r chi.Router) {
			r.Get("/", d.CourierOrders.ListAvailable)
			r.Get("/assigned_orders", d.CourierOrders.ListAssigned)
			r.Get("/completed_orders", d.CourierOrders.ListCompleted)
			r.Get("/{id}", d.CourierOrders.GetByID)
			r.Patch("/{id}/assign", d.CourierOrders.Assign)
			r.Patch("/{id}/unassign", d.CourierOrders.Unassign)
			r.Patch("/{id}/update_status", d.CourierOrders.UpdateStatus)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", d.Notifications.List)
			r.Get("/unread", d.Notifications.Unread)
			r.Post("/{id}/mark_as_read", d.Notifications.MarkRead)
			r.Post("/mark_all_as_read", d.Notifications.MarkAllRead)
		})
	})

	// The websocket endpoint authenticates via a query token and keeps the
	// connection open well past any request timeout.
	if d.Websocket != nil {
		r.Handle("/ws/notifications", d.Websocket)
	}

	return r
}
