package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"delivery-marketplace/internal/domain"
)

// NotificationRepo represents the notification repository.
type NotificationRepo struct{ db *pgxpool.Pool }

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo { return &NotificationRepo{db: db} }

func typeStrings(types []domain.NotificationType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

// Create - persists a notification row and fills in its ID and creation time.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO notifications(recipient_id, order_id, type, title, message)
        VALUES($1,$2,$3,$4,$5)
        RETURNING id, created_at`,
		n.RecipientID, n.OrderID, n.Type, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListForRecipient returns a recipient's notifications limited to the given
// role-allowed types, newest first. unreadOnly narrows to unread rows.
func (r *NotificationRepo) ListForRecipient(
	ctx context.Context,
	recipientID int64,
	types []domain.NotificationType,
	unreadOnly bool,
) ([]domain.Notification, error) {
	q := `SELECT id, recipient_id, order_id, type, title, message, created_at, is_read
          FROM notifications
          WHERE recipient_id=$1 AND type = ANY($2)`
	if unreadOnly {
		q += ` AND NOT is_read`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, recipientID, typeStrings(types))
	if err != nil {
		return nil, fmt.Errorf("list notifications for %d: %w", recipientID, err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.OrderID, &n.Type, &n.Title,
			&n.Message, &n.CreatedAt, &n.IsRead); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead sets is_read on one notification belonging to the recipient,
// respecting the role-allowed type set. Returns true if a row was affected.
func (r *NotificationRepo) MarkRead(
	ctx context.Context,
	id, recipientID int64,
	types []domain.NotificationType,
) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE notifications SET is_read=TRUE
        WHERE id=$1 AND recipient_id=$2 AND type = ANY($3)`,
		id, recipientID, typeStrings(types))
	if err != nil {
		return false, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// MarkAllRead sets is_read on every notification in the recipient's
// role-filtered queryset and returns the number of rows affected.
func (r *NotificationRepo) MarkAllRead(
	ctx context.Context,
	recipientID int64,
	types []domain.NotificationType,
) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE notifications SET is_read=TRUE
        WHERE recipient_id=$1 AND type = ANY($2) AND NOT is_read`,
		recipientID, typeStrings(types))
	if err != nil {
		return 0, fmt.Errorf("mark all read for %d: %w", recipientID, err)
	}
	return ct.RowsAffected(), nil
}
