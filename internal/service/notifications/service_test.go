package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
	"delivery-marketplace/internal/realtime"
)

type stubNotificationRepo struct {
	mu          sync.Mutex
	created     []domain.Notification
	createErr   error
	listFn      func(recipientID int64, types []domain.NotificationType, unreadOnly bool) ([]domain.Notification, error)
	markReadFn  func(id, recipientID int64, types []domain.NotificationType) (bool, error)
	markAllRead func(recipientID int64, types []domain.NotificationType) (int64, error)
}

func (s *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = int64(len(s.created) + 1)
	n.CreatedAt = time.Now()
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotificationRepo) ListForRecipient(_ context.Context, recipientID int64, types []domain.NotificationType, unreadOnly bool) ([]domain.Notification, error) {
	return s.listFn(recipientID, types, unreadOnly)
}

func (s *stubNotificationRepo) MarkRead(_ context.Context, id, recipientID int64, types []domain.NotificationType) (bool, error) {
	return s.markReadFn(id, recipientID, types)
}

func (s *stubNotificationRepo) MarkAllRead(_ context.Context, recipientID int64, types []domain.NotificationType) (int64, error) {
	return s.markAllRead(recipientID, types)
}

func (s *stubNotificationRepo) Created() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.created))
	copy(out, s.created)
	return out
}

type stubUsers struct {
	byID     map[int64]*domain.User
	couriers []domain.User
}

func (s *stubUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	return s.byID[id], nil
}

func (s *stubUsers) ListActiveCouriers(context.Context) ([]domain.User, error) {
	return s.couriers, nil
}

type recordingPusher struct {
	mu     sync.Mutex
	pushes map[int64][]realtime.Envelope
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{pushes: make(map[int64][]realtime.Envelope)}
}

func (p *recordingPusher) Push(userID int64, env realtime.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes[userID] = append(p.pushes[userID], env)
}

func (p *recordingPusher) For(userID int64) []realtime.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Envelope(nil), p.pushes[userID]...)
}

var (
	customer = domain.User{ID: 1, Role: domain.RoleClient}
	driverA  = domain.User{ID: 2, Role: domain.RoleCourier}
	driverB  = domain.User{ID: 3, Role: domain.RoleCourier}
)

func defaultUsers() *stubUsers {
	return &stubUsers{
		byID: map[int64]*domain.User{
			1: &customer,
			2: &driverA,
			3: &driverB,
		},
		couriers: []domain.User{driverA, driverB},
	}
}

func TestDispatch_NewOrderFansOutToActiveCouriers(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	order := &domain.Order{ID: 10, CustomerID: 1, Status: domain.StatusPending}
	s.Dispatch(context.Background(), order, domain.NotifyNewOrder, "New order", "New order for service repair", 0)

	created := repo.Created()
	require.Len(t, created, 2)
	for _, n := range created {
		require.Equal(t, domain.NotifyNewOrder, n.Type)
		require.NotNil(t, n.OrderID)
		require.Equal(t, int64(10), *n.OrderID)
	}
	require.Len(t, pusher.For(2), 1)
	require.Len(t, pusher.For(3), 1)
	require.Empty(t, pusher.For(1), "the ordering customer is not a recipient")
}

func TestDispatch_PolicyGatesCourierFromStatusTypes(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	courierID := int64(2)
	order := &domain.Order{ID: 10, CustomerID: 1, CourierID: &courierID, Status: domain.StatusInProgress}
	// recipient 0 resolves to {customer, courier}; only the customer may
	// receive in_progress
	s.Dispatch(context.Background(), order, domain.NotifyInProgress, "Order status changed", domain.StatusMessage(domain.StatusInProgress), 0)

	created := repo.Created()
	require.Len(t, created, 1)
	require.Equal(t, int64(1), created[0].RecipientID)
	require.Empty(t, pusher.For(2))
}

func TestDispatch_OrderCancelledReachesOnlyCourier(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	courierID := int64(2)
	order := &domain.Order{ID: 10, CustomerID: 1, CourierID: &courierID, Status: domain.StatusCancelled}
	s.Dispatch(context.Background(), order, domain.NotifyOrderCancelled, "Order cancelled", "Order 10 is no longer active", 0)

	created := repo.Created()
	require.Len(t, created, 1)
	require.Equal(t, int64(2), created[0].RecipientID)
	require.Empty(t, pusher.For(1))
}

func TestDispatch_ExplicitRecipientWrongRoleIsDropped(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	order := &domain.Order{ID: 10, CustomerID: 1, Status: domain.StatusPending}
	// new_order is a courier-only type
	s.Dispatch(context.Background(), order, domain.NotifyNewOrder, "New order", "msg", customer.ID)

	require.Empty(t, repo.Created())
	require.Empty(t, pusher.For(1))
}

func TestDispatch_PersistFailureSkipsPush(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{createErr: errors.New("db down")}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	order := &domain.Order{ID: 10, CustomerID: 1, Status: domain.StatusPending}
	s.Dispatch(context.Background(), order, domain.NotifyNewOrder, "New order", "msg", 0)

	require.Empty(t, pusher.For(2))
	require.Empty(t, pusher.For(3))
}

func TestDispatch_EnvelopeCarriesPersistedIdentity(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	courierID := int64(2)
	order := &domain.Order{ID: 10, CustomerID: 1, CourierID: &courierID, Status: domain.StatusCompleted}
	s.Dispatch(context.Background(), order, domain.NotifyCompleted, "Order status changed", domain.StatusMessage(domain.StatusCompleted), 1)

	envs := pusher.For(1)
	require.Len(t, envs, 1)
	require.NotZero(t, envs[0].ID, "envelope id comes from the stored row")
	require.Equal(t, domain.StatusCompleted, envs[0].OrderStatus)
	require.NotNil(t, envs[0].OrderID)
	require.Equal(t, int64(10), *envs[0].OrderID)
}

func TestSendSystem_AnyRole(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	pusher := newRecordingPusher()
	s := NewService(repo, defaultUsers(), pusher, time.Second, logx.Nop())

	s.SendSystem(context.Background(), driverA.ID, "Maintenance", "The platform restarts at midnight")

	created := repo.Created()
	require.Len(t, created, 1)
	require.Equal(t, domain.NotifySystem, created[0].Type)
	require.Nil(t, created[0].OrderID)
	require.Len(t, pusher.For(2), 1)
}

func TestList_UsesRoleTypeSet(t *testing.T) {
	t.Parallel()

	var gotTypes []domain.NotificationType
	repo := &stubNotificationRepo{
		listFn: func(recipientID int64, types []domain.NotificationType, unreadOnly bool) ([]domain.Notification, error) {
			require.Equal(t, int64(2), recipientID)
			require.False(t, unreadOnly)
			gotTypes = types
			return nil, nil
		},
	}
	s := NewService(repo, defaultUsers(), newRecordingPusher(), time.Second, logx.Nop())

	_, err := s.List(context.Background(), &driverA)
	require.NoError(t, err)
	require.ElementsMatch(t, domain.AllowedTypes(domain.RoleCourier), gotTypes)
}

func TestUnread_PassesUnreadOnly(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{
		listFn: func(_ int64, _ []domain.NotificationType, unreadOnly bool) ([]domain.Notification, error) {
			require.True(t, unreadOnly)
			return nil, nil
		},
	}
	s := NewService(repo, defaultUsers(), newRecordingPusher(), time.Second, logx.Nop())

	_, err := s.Unread(context.Background(), &customer)
	require.NoError(t, err)
}

func TestMarkRead_ForeignRowIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{
		markReadFn: func(int64, int64, []domain.NotificationType) (bool, error) {
			return false, nil
		},
	}
	s := NewService(repo, defaultUsers(), newRecordingPusher(), time.Second, logx.Nop())

	err := s.MarkRead(context.Background(), &customer, 77)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkAllRead_ScopedToActor(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{
		markAllRead: func(recipientID int64, types []domain.NotificationType) (int64, error) {
			require.Equal(t, customer.ID, recipientID)
			require.ElementsMatch(t, domain.AllowedTypes(domain.RoleClient), types)
			return 3, nil
		},
	}
	s := NewService(repo, defaultUsers(), newRecordingPusher(), time.Second, logx.Nop())

	require.NoError(t, s.MarkAllRead(context.Background(), &customer))
}
