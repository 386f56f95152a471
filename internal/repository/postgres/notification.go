package postgres

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, n model.Notification) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, n.ID, n.UserID, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return goerr.Wrap(classify(err), "insert notification", goerr.V("user_id", n.UserID))
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "list notifications", goerr.V("user_id", userID))
	}
	defer rows.Close()

	notes := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scan notification")
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, notificationID, userID string) (model.Notification, error) {
	var n model.Notification
	err := s.pool.QueryRow(ctx, `
		UPDATE notifications SET read = true
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, message, read, created_at
	`, notificationID, userID).Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		return model.Notification{}, goerr.Wrap(classify(err), "mark notification read", goerr.V("notification_id", notificationID))
	}
	return n, nil
}
