package notifications

import (
	"context"
	"time"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
	"delivery-marketplace/internal/realtime"
)

// Service persists notifications and fans them out to live subscribers.
// Persistence is the durable guarantee; the realtime push is best-effort
// and never fails the operation that triggered it.
type Service struct {
	repo             notificationRepository
	users            userDirectory
	pusher           Pusher
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates and configures a notification Service.
func NewService(repo notificationRepository, users userDirectory, pusher Pusher, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		users:            users,
		pusher:           pusher,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Dispatch resolves the recipient set for an order event, applies the
// notification policy, persists one row per allowed recipient and pushes the
// envelope to each recipient's live connections. recipientID 0 means
// "resolve from the type and the order". All failures are logged here; the
// triggering state transition has already committed and never rolls back.
func (s *Service) Dispatch(
	ctx context.Context,
	order *domain.Order,
	typ domain.NotificationType,
	title, message string,
	recipientID int64,
) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	recipients, err := s.resolveRecipients(ctx, order, typ, recipientID)
	if err != nil {
		s.logger.Error("notification recipients unresolved",
			logx.String("type", string(typ)),
			logx.Err(err),
		)
		return
	}

	for i := range recipients {
		s.dispatchOne(ctx, &recipients[i], order, typ, title, message)
	}
}

func (s *Service) dispatchOne(
	ctx context.Context,
	rcpt *domain.User,
	order *domain.Order,
	typ domain.NotificationType,
	title, message string,
) {
	if !domain.TypeAllowed(rcpt.Role, typ) {
		// not an error: the policy silently narrows the recipient set
		s.logger.Debug("notification type not allowed for role",
			logx.String("type", string(typ)),
			logx.Int64("recipient_id", rcpt.ID),
			logx.String("role", string(rcpt.Role)),
		)
		return
	}

	n := &domain.Notification{
		RecipientID: rcpt.ID,
		Type:        typ,
		Title:       title,
		Message:     message,
	}
	env := realtime.Envelope{
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if order != nil {
		id := order.ID
		n.OrderID = &id
		env.OrderID = &id
		env.OrderStatus = order.Status
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("notification persist failed",
			logx.String("type", string(typ)),
			logx.Int64("recipient_id", rcpt.ID),
			logx.Err(err),
		)
		return
	}

	env.ID = n.ID
	env.CreatedAt = n.CreatedAt
	// best-effort: a failed or offline push is fine, the row is durable
	s.pusher.Push(rcpt.ID, env)
}

func (s *Service) resolveRecipients(
	ctx context.Context,
	order *domain.Order,
	typ domain.NotificationType,
	recipientID int64,
) ([]domain.User, error) {
	if recipientID != 0 {
		u, err := s.users.Get(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, nil
		}
		return []domain.User{*u}, nil
	}

	if typ == domain.NotifyNewOrder {
		return s.users.ListActiveCouriers(ctx)
	}

	if order == nil {
		return nil, nil
	}
	var out []domain.User
	if u, err := s.users.Get(ctx, order.CustomerID); err != nil {
		return nil, err
	} else if u != nil {
		out = append(out, *u)
	}
	if order.CourierID != nil {
		if u, err := s.users.Get(ctx, *order.CourierID); err != nil {
			return nil, err
		} else if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// SendSystem sends a system notification to a single user. System
// notifications carry no order reference and are allowed for every role.
func (s *Service) SendSystem(ctx context.Context, recipientID int64, title, message string) {
	s.Dispatch(ctx, nil, domain.NotifySystem, title, message, recipientID)
}

// List returns the actor's notifications narrowed to the role-allowed type
// set, newest first.
func (s *Service) List(ctx context.Context, actor *domain.User) ([]domain.Notification, error) {
	if actor == nil {
		return nil, apperr.ErrForbidden
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListForRecipient(ctx, actor.ID, domain.AllowedTypes(actor.Role), false)
}

// Unread returns the actor's unread notifications.
func (s *Service) Unread(ctx context.Context, actor *domain.User) ([]domain.Notification, error) {
	if actor == nil {
		return nil, apperr.ErrForbidden
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListForRecipient(ctx, actor.ID, domain.AllowedTypes(actor.Role), true)
}

// MarkRead marks one of the actor's notifications as read.
func (s *Service) MarkRead(ctx context.Context, actor *domain.User, id int64) error {
	if actor == nil {
		return apperr.ErrForbidden
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.MarkRead(ctx, id, actor.ID, domain.AllowedTypes(actor.Role))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification in the actor's role-filtered queryset
// as read.
func (s *Service) MarkAllRead(ctx context.Context, actor *domain.User) error {
	if actor == nil {
		return apperr.ErrForbidden
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.repo.MarkAllRead(ctx, actor.ID, domain.AllowedTypes(actor.Role))
	return err
}
