package notification

import (
	"context"
	"time"
)

// NotificationRepository defines data access for queued notifications.
type NotificationRepository interface {
	// Create enqueues a notification
	Create(ctx context.Context, n Notification) (Notification, error)

	// DeleteOlderThan removes notifications created before the cutoff.
	// Used by retention cleanup only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service queues notifications for later delivery.
type Service interface {
	QueueNotification(ctx context.Context, n Notification) error
}
