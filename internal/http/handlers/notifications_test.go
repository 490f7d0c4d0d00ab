package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
)

type stubNotifications struct {
	listFn        func(ctx context.Context, actor *domain.User) ([]domain.Notification, error)
	unreadFn      func(ctx context.Context, actor *domain.User) ([]domain.Notification, error)
	markReadFn    func(ctx context.Context, actor *domain.User, id int64) error
	markAllReadFn func(ctx context.Context, actor *domain.User) error
}

func (s *stubNotifications) List(ctx context.Context, actor *domain.User) ([]domain.Notification, error) {
	return s.listFn(ctx, actor)
}

func (s *stubNotifications) Unread(ctx context.Context, actor *domain.User) ([]domain.Notification, error) {
	return s.unreadFn(ctx, actor)
}

func (s *stubNotifications) MarkRead(ctx context.Context, actor *domain.User, id int64) error {
	return s.markReadFn(ctx, actor, id)
}

func (s *stubNotifications) MarkAllRead(ctx context.Context, actor *domain.User) error {
	return s.markAllReadFn(ctx, actor)
}

func TestNotificationsList(t *testing.T) {
	t.Parallel()

	orderID := int64(10)
	uc := &stubNotifications{
		listFn: func(_ context.Context, actor *domain.User) ([]domain.Notification, error) {
			require.Equal(t, testClient.ID, actor.ID)
			return []domain.Notification{{
				ID:          3,
				RecipientID: actor.ID,
				OrderID:     &orderID,
				Type:        domain.NotifyCompleted,
				Title:       "Order status changed",
				Message:     "Order completed",
				CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	h := NewNotificationHandler(uc)
	rec := doRequest(t, h.List, http.MethodGet, "/notifications/", "", testClient, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []notificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "completed", got[0].Type)
	require.False(t, got[0].IsRead)
	require.NotNil(t, got[0].Order)
	require.Equal(t, orderID, *got[0].Order)
}

func TestNotificationsUnread(t *testing.T) {
	t.Parallel()

	uc := &stubNotifications{
		unreadFn: func(context.Context, *domain.User) ([]domain.Notification, error) {
			return nil, nil
		},
	}
	h := NewNotificationHandler(uc)
	rec := doRequest(t, h.Unread, http.MethodGet, "/notifications/unread", "", testClient, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestMarkRead_OK(t *testing.T) {
	t.Parallel()

	uc := &stubNotifications{
		markReadFn: func(_ context.Context, _ *domain.User, id int64) error {
			require.Equal(t, int64(3), id)
			return nil
		},
	}
	h := NewNotificationHandler(uc)
	rec := doRequest(t, h.MarkRead, http.MethodPost, "/notifications/3/mark_as_read", "3", testClient, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestMarkRead_ForeignRow(t *testing.T) {
	t.Parallel()

	uc := &stubNotifications{
		markReadFn: func(context.Context, *domain.User, int64) error {
			return apperr.ErrNotFound
		},
	}
	h := NewNotificationHandler(uc)
	rec := doRequest(t, h.MarkRead, http.MethodPost, "/notifications/3/mark_as_read", "3", testClient, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not found.", detailOf(t, rec))
}

func TestMarkAllRead_OK(t *testing.T) {
	t.Parallel()

	called := false
	uc := &stubNotifications{
		markAllReadFn: func(context.Context, *domain.User) error {
			called = true
			return nil
		},
	}
	h := NewNotificationHandler(uc)
	rec := doRequest(t, h.MarkAllRead, http.MethodPost, "/notifications/mark_all_as_read", "", testClient, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
}
