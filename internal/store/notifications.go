package store

import (
	"context"
	"fmt"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// ListNotifications returns a user's order notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]*models.OrderNotification, error) {
	rows, err := s.query(ctx, s.DB, `
		SELECT id, order_id, user_id, type, message, is_read, created_at
		FROM order_notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []*models.OrderNotification{}
	for rows.Next() {
		var n models.OrderNotification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	return mustAffect(s.exec(ctx, s.DB,
		"UPDATE order_notifications SET is_read = ? WHERE id = ? AND user_id = ?", true, id, userID))
}
