package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeMarkedAbsent   NotificationType = "attendance_marked_absent"
	TypeAutoCheckout   NotificationType = "attendance_auto_checkout"
	TypeBreakAutoEnded NotificationType = "break_auto_ended"
)

// Notification is one queued message. Delivery (push, email, SSE) is an
// external collaborator; the engines only enqueue.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]any
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
