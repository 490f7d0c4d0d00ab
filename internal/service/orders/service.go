package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
)

// Conflict cases surfaced with distinct client-visible details.
var (
	// ErrAlreadyAssigned - the order already has a courier.
	ErrAlreadyAssigned = fmt.Errorf("%w: order is already assigned to a courier", apperr.ErrConflict)
	// ErrNotAvailable - the order left the pending state and cannot be claimed.
	ErrNotAvailable = fmt.Errorf("%w: order is not available for assignment", apperr.ErrConflict)
	// ErrNotUnassignable - the order advanced past courier_assigned and cannot be released.
	ErrNotUnassignable = fmt.Errorf("%w: order cannot be unassigned in its current status", apperr.ErrConflict)
)

// DefaultRollbackWindow bounds how long a courier may revert a status change.
const DefaultRollbackWindow = 10 * time.Minute

// Service owns the order status lifecycle: creation, claiming and the
// forward/rollback transition tables, plus the notifications they trigger.
type Service struct {
	repo             orderRepository
	catalog          catalogRepository
	dispatcher       Dispatcher
	rollbackWindow   time.Duration
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures an order Service.
func NewService(
	repo orderRepository,
	catalog catalogRepository,
	dispatcher Dispatcher,
	rollbackWindow time.Duration,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if rollbackWindow <= 0 {
		rollbackWindow = DefaultRollbackWindow
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		catalog:          catalog,
		dispatcher:       dispatcher,
		rollbackWindow:   rollbackWindow,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock; tests use this to control the rollback window.
func (s *Service) WithNow(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// CreateInput carries the client-supplied fields of a new order.
type CreateInput struct {
	ServiceID   int64
	City        string
	Street      string
	BuildingNum string
	Building    string
	Floor       string
	Apartment   string
	Latitude    *float64
	Longitude   *float64
	Comment     string
	Image       string
}

func validateCreate(in *CreateInput) error {
	if in.ServiceID <= 0 {
		return fmt.Errorf("%w: service is required", apperr.ErrInvalid)
	}
	if strings.TrimSpace(in.Street) == "" {
		return fmt.Errorf("%w: street is required", apperr.ErrInvalid)
	}
	if in.City == "" {
		in.City = "Moscow"
	}
	return nil
}

// Create places a new order for a client. The price is snapshotted from the
// catalog service; the status starts at pending with no courier. Every active
// courier is notified about the new order.
func (s *Service) Create(ctx context.Context, actor *domain.User, in CreateInput) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: only clients can create orders", apperr.ErrInvalid)
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	svc, err := s.catalog.Get(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: unknown service %d", apperr.ErrInvalid, in.ServiceID)
	}

	o := &domain.Order{
		ServiceID:   svc.ID,
		CustomerID:  actor.ID,
		City:        in.City,
		Street:      in.Street,
		BuildingNum: in.BuildingNum,
		Building:    in.Building,
		Floor:       in.Floor,
		Apartment:   in.Apartment,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      domain.StatusPending,
		Comment:     in.Comment,
		Image:       in.Image,
		Price:       svc.Price,
	}
	if _, err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		logx.String("event", "order_created"),
		logx.Int64("order_id", o.ID),
		logx.Int64("customer_id", actor.ID),
		logx.Int64("service_id", svc.ID),
	)

	s.dispatcher.Dispatch(ctx, o, domain.NotifyNewOrder,
		"New order", fmt.Sprintf("New order for service %s", svc.Name), 0)

	return o, nil
}

// Claim assigns a pending, unassigned order to the acting courier. The
// conditional update in the repository guarantees a single winner under
// concurrent claims; the loser is told why it lost.
func (s *Service) Claim(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can accept orders", apperr.ErrForbidden)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	won, err := s.repo.Claim(ctx, orderID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		o, err := s.repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case o == nil:
			return nil, apperr.ErrNotFound
		case o.CourierID != nil:
			return nil, ErrAlreadyAssigned
		default:
			return nil, ErrNotAvailable
		}
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}

	s.logger.Info("order claimed",
		logx.String("event", "order_claimed"),
		logx.Int64("order_id", o.ID),
		logx.Int64("courier_id", actor.ID),
	)

	s.dispatcher.Dispatch(ctx, o, domain.NotifyCourierAssigned,
		"Courier assigned",
		fmt.Sprintf("Courier %s has accepted your order", actor.FirstName),
		o.CustomerID)

	return o, nil
}

// Unclaim releases an order back to pending. Only the assigned courier may
// release, and only before the order advances past courier_assigned.
// The revert is silent: no notification is recorded or pushed.
func (s *Service) Unclaim(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can unassign orders", apperr.ErrForbidden)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.Unclaim(ctx, orderID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		o, err := s.repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case o == nil:
			return nil, apperr.ErrNotFound
		case !o.AssignedTo(actor.ID):
			return nil, fmt.Errorf("%w: you can only unassign orders assigned to you", apperr.ErrForbidden)
		default:
			return nil, ErrNotUnassignable
		}
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}

	s.logger.Info("order unclaimed",
		logx.String("event", "order_unclaimed"),
		logx.Int64("order_id", o.ID),
		logx.Int64("courier_id", actor.ID),
	)
	return o, nil
}

// Advance moves an order along the forward table, or back along the rollback
// table while the rollback window has not lapsed. Forward transitions notify
// the customer with a status-specific message; rollbacks stay silent.
func (s *Service) Advance(ctx context.Context, orderID int64, actor *domain.User, requested domain.OrderStatus) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can update the order status", apperr.ErrForbidden)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if !o.AssignedTo(actor.ID) {
		return nil, fmt.Errorf("%w: you do not have permission to update this order", apperr.ErrForbidden)
	}

	current := o.Status

	if prev, ok := current.RollbackOf(); ok && requested == prev {
		if s.now().Sub(o.StatusChangedAt) > s.rollbackWindow {
			return nil, apperr.ErrExpiredRollback
		}
		return s.writeStatus(ctx, o, current, requested, true)
	}

	if next, ok := current.ForwardOf(); ok && requested == next {
		return s.writeStatus(ctx, o, current, requested, false)
	}

	return nil, apperr.ErrInvalidTransition
}

func (s *Service) writeStatus(ctx context.Context, o *domain.Order, from, to domain.OrderStatus, rollback bool) (*domain.Order, error) {
	ok, err := s.repo.UpdateStatus(ctx, o.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race with a concurrent update of the same order
		return nil, apperr.ErrConflict
	}

	updated, err := s.repo.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.ErrNotFound
	}

	s.logger.Info("order status changed",
		logx.String("event", "order_status_changed"),
		logx.Int64("order_id", o.ID),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
		logx.Bool("rollback", rollback),
	)

	if !rollback {
		if typ, ok := domain.StatusNotification(to); ok {
			s.dispatcher.Dispatch(ctx, updated, typ,
				"Order status changed", domain.StatusMessage(to), updated.CustomerID)
		}
	}
	return updated, nil
}

// ApplyAdminStatus applies an administrative terminal status (cancelled or
// return) outside the courier transition tables. Replays on an already
// terminal order are no-ops. The customer learns the terminal status; the
// assigned courier gets an order_cancelled notice via the policy gate.
func (s *Service) ApplyAdminStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if status != domain.StatusCancelled && status != domain.StatusReturn {
		return fmt.Errorf("%w: status %q is not an administrative status", apperr.ErrInvalid, status)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return apperr.ErrNotFound
	}
	if o.Status.Terminal() {
		return nil
	}

	ok, err := s.repo.UpdateStatus(ctx, o.ID, o.Status, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrConflict
	}

	updated, err := s.repo.Get(ctx, o.ID)
	if err != nil {
		return err
	}
	if updated == nil {
		return apperr.ErrNotFound
	}

	s.logger.Info("order closed by admin",
		logx.String("event", "order_admin_status"),
		logx.Int64("order_id", o.ID),
		logx.String("status", string(status)),
	)

	// Both dispatches resolve {customer, courier}; the notification policy
	// routes each type to the role that may receive it.
	if typ, ok := domain.StatusNotification(status); ok {
		s.dispatcher.Dispatch(ctx, updated, typ, "Order status changed", domain.StatusMessage(status), 0)
	}
	s.dispatcher.Dispatch(ctx, updated, domain.NotifyOrderCancelled,
		"Order cancelled", fmt.Sprintf("Order %d is no longer active", updated.ID), 0)

	return nil
}

// Get returns an order visible to the actor: the owning client, the assigned
// courier, any courier while the order is open for claiming, or an admin.
func (s *Service) Get(ctx context.Context, orderID int64, actor *domain.User) (*domain.Order, error) {
	if actor == nil {
		return nil, apperr.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return o, nil
	case domain.RoleClient:
		if o.CustomerID == actor.ID {
			return o, nil
		}
	case domain.RoleCourier:
		if o.AssignedTo(actor.ID) {
			return o, nil
		}
		if o.Status == domain.StatusPending && o.CourierID == nil {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: you do not have permission to view this order", apperr.ErrForbidden)
}

// ListForCustomer returns the acting client's own orders.
func (s *Service) ListForCustomer(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: only clients can access this endpoint", apperr.ErrForbidden)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByCustomer(ctx, actor.ID)
}

// ListAvailable returns pending, unassigned orders open for claiming.
func (s *Service) ListAvailable(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can access this endpoint", apperr.ErrForbidden)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListAvailable(ctx)
}

// ListAssigned returns the acting courier's non-completed orders.
func (s *Service) ListAssigned(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can access this endpoint", apperr.ErrForbidden)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListAssigned(ctx, actor.ID)
}

// ListCompleted returns the acting courier's completed orders.
func (s *Service) ListCompleted(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleCourier {
		return nil, fmt.Errorf("%w: only couriers can access this endpoint", apperr.ErrForbidden)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListCompleted(ctx, actor.ID)
}

// UpdateFields applies an owner's partial update of address and comment
// fields. The status, price and courier are never touched through this path.
func (s *Service) UpdateFields(ctx context.Context, actor *domain.User, u domain.PartialOrderUpdate) (*domain.Order, error) {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: only clients can access this endpoint", apperr.ErrForbidden)
	}
	if u.ID <= 0 || u.Empty() {
		return nil, apperr.ErrInvalid
	}
	if u.Street != nil && strings.TrimSpace(*u.Street) == "" {
		return nil, fmt.Errorf("%w: street cannot be empty", apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if o.CustomerID != actor.ID {
		return nil, fmt.Errorf("%w: you do not have permission to update this order", apperr.ErrForbidden)
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: order is closed", apperr.ErrConflict)
	}

	if _, err := s.repo.UpdatePartial(ctx, u); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, u.ID)
}

// Delete removes an order. Only the owner may delete, and only while the
// order is still pending.
func (s *Service) Delete(ctx context.Context, orderID int64, actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleClient {
		return fmt.Errorf("%w: only clients can access this endpoint", apperr.ErrForbidden)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return apperr.ErrNotFound
	}
	if o.CustomerID != actor.ID {
		return fmt.Errorf("%w: you do not have permission to delete this order", apperr.ErrForbidden)
	}
	if o.Status != domain.StatusPending {
		return fmt.Errorf("%w: order is already in progress", apperr.ErrConflict)
	}

	_, err = s.repo.Delete(ctx, orderID)
	return err
}
