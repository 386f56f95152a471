package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (c *Client) CreateNotification(ctx context.Context, notification model.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.users[notification.UserID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "recipient not found", goerr.V("user_id", notification.UserID))
	}
	noteCopy := notification
	c.notes[notification.ID] = &noteCopy
	return nil
}

// ListNotifications returns the newest notifications of a user first.
func (c *Client) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	notes := []model.Notification{}
	for _, n := range c.notes {
		if n.UserID == userID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID, userID string) (model.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, exists := c.notes[notificationID]
	if !exists || n.UserID != userID {
		return model.Notification{}, goerr.Wrap(model.ErrNotFound, "notification not found",
			goerr.V("notification_id", notificationID))
	}
	n.Read = true
	return *n, nil
}
