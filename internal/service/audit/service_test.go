package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/fixtures"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
)

func TestRecord_FillsDefaultsAndChainsHashes(t *testing.T) {
	ctx := context.Background()
	repo := fixtures.NewAuditRepo()
	clk := clock.FixedAt(time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC))
	recorder := NewAuditService(repo, clk)

	err := recorder.Record(ctx, audit.AuditLog{
		Action:      audit.ActionSessionCreated,
		SubjectType: "attendance_session",
		SubjectID:   "sess-1",
		After:       map[string]any{"status": "active"},
	})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	err = recorder.Record(ctx, audit.AuditLog{
		Action:      audit.ActionMarkedAbsent,
		SubjectType: "attendance_record",
		SubjectID:   "rec-1",
	})
	require.NoError(t, err)

	require.Len(t, repo.Entries, 2)
	first, second := repo.Entries[0], repo.Entries[1]

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, audit.SeverityInfo, first.Severity)
	assert.Equal(t, "success", first.Status)
	assert.NotEmpty(t, first.Hash)
	assert.Empty(t, first.PreviousHash)

	// Each entry anchors on its predecessor's hash.
	assert.Equal(t, first.Hash, second.PreviousHash)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestRecord_HashCoversContent(t *testing.T) {
	ctx := context.Background()
	clk := clock.FixedAt(time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC))

	entryAt := func(action string) audit.AuditLog {
		repo := fixtures.NewAuditRepo()
		recorder := NewAuditService(repo, clk)
		require.NoError(t, recorder.Record(ctx, audit.AuditLog{
			Action:      action,
			SubjectType: "attendance_record",
			SubjectID:   "rec-1",
		}))
		return repo.Entries[0]
	}

	a := entryAt(audit.ActionMarkedAbsent)
	b := entryAt(audit.ActionAutoCheckout)
	same := entryAt(audit.ActionMarkedAbsent)

	assert.NotEqual(t, a.Hash, b.Hash)
	// Identical content at the identical instant digests identically.
	assert.Equal(t, a.Hash, same.Hash)
}
