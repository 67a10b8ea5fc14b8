package audit

import (
	"context"
	"time"
)

// AuditRepository defines data access for audit log entries. Append-only:
// no update path exists.
type AuditRepository interface {
	// Create appends an entry
	Create(ctx context.Context, entry AuditLog) (AuditLog, error)

	// LatestHash returns the hash of the most recent entry, empty when
	// the log is empty. Anchors the tamper-evidence chain.
	LatestHash(ctx context.Context) (string, error)

	// DeleteOlderThan removes entries created before the cutoff. Used by
	// retention cleanup only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
