package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
)

type notificationService struct {
	repo notification.NotificationRepository
}

// QueueNotification implements notification.Service.
func (s *notificationService) QueueNotification(ctx context.Context, n notification.Notification) error {
	n.ID = uuid.NewString()
	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}
	return nil
}

func NewNotificationService(repo notification.NotificationRepository) notification.Service {
	return &notificationService{repo: repo}
}
