package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
)

// Recorder appends audit entries. Engines depend on this rather than the
// repository so tests can capture the trail in memory.
type Recorder interface {
	Record(ctx context.Context, entry audit.AuditLog) error
}

type auditService struct {
	repo audit.AuditRepository
	clk  clock.Clock
}

// Record fills in identity, timestamp and the tamper-evidence chain, then
// appends the entry. Each entry's hash covers the previous entry's hash, so
// any rewrite of history breaks the chain from that point on.
func (s *auditService) Record(ctx context.Context, entry audit.AuditLog) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.clk.Now()
	if entry.Severity == "" {
		entry.Severity = audit.SeverityInfo
	}
	if entry.Status == "" {
		entry.Status = "success"
	}

	prev, err := s.repo.LatestHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to anchor audit chain: %w", err)
	}
	entry.PreviousHash = prev
	entry.Hash = chainHash(entry)

	if _, err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

func chainHash(entry audit.AuditLog) string {
	// json.Marshal sorts map keys, so the digest is stable for equal
	// before/after content.
	before, _ := json.Marshal(entry.Before)
	after, _ := json.Marshal(entry.After)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%s",
		entry.PreviousHash,
		entry.Action,
		entry.SubjectType,
		entry.SubjectID,
		before,
		after,
		entry.Status,
		entry.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"),
	)
	return hex.EncodeToString(h.Sum(nil))
}

func NewAuditService(repo audit.AuditRepository, clk clock.Clock) Recorder {
	return &auditService{repo: repo, clk: clk}
}
