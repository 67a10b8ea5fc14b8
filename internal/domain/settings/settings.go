package settings

import (
	"context"
	"time"
)

// Keys consumed by the engine jobs.
const (
	KeyAutoCheckout      = "auto_checkout"
	KeyWeekendCheckin    = "weekend_checkin"
	KeyAbsentAlerts      = "absent_alerts"
	KeyShiftBoundaryHour = "shift_boundary_hour"
	KeyRetentionPolicy   = "retention_policy"
)

// Retention policy values for KeyRetentionPolicy.
const (
	RetentionOneMonth   = "1month"
	RetentionThreeMonths = "3months"
	RetentionSixMonths  = "6months"
	RetentionOneYear    = "1year"
	RetentionForever    = "forever"
)

// Store exposes typed read access to runtime configuration. Missing keys
// resolve to the supplied default; a malformed value is an error so a
// half-written setting never silently flips behavior.
type Store interface {
	Bool(ctx context.Context, key string, def bool) (bool, error)
	Int(ctx context.Context, key string, def int) (int, error)
	String(ctx context.Context, key string, def string) (string, error)
	// TimeOfDay parses an "HH:MM" value; the returned instant carries
	// only clock fields.
	TimeOfDay(ctx context.Context, key string, def time.Time) (time.Time, error)
}
