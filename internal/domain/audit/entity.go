package audit

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Actions emitted by the automated engines.
const (
	ActionSessionCreated   = "session_created"
	ActionSessionLocked    = "session_locked"
	ActionMarkedAbsent     = "marked_absent"
	ActionAutoCheckout     = "auto_checkout"
	ActionBreakAutoEnded   = "break_auto_ended"
	ActionStatusRecomputed = "status_recomputed"
	ActionHoursRecomputed  = "hours_recomputed"
	ActionDataCleanup      = "data_cleanup"
)

// AuditLog is an append-only record of one mutation. ActorUserID is nil for
// system actions. Hash chains over PreviousHash for tamper evidence;
// entries are never updated or deleted outside retention cleanup.
type AuditLog struct {
	ID           string
	Action       string
	Description  string
	ActorUserID  *string
	SubjectType  string
	SubjectID    string
	Before       map[string]any
	After        map[string]any
	Status       string
	Severity     Severity
	Hash         string
	PreviousHash string
	CreatedAt    time.Time
}
