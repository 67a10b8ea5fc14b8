package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// Create implements audit.AuditRepository.
func (r *auditRepository) Create(ctx context.Context, entry audit.AuditLog) (audit.AuditLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (
			id, action, description, actor_user_id, subject_type, subject_id,
			before, after, status, severity, hash, previous_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.Action, entry.Description, entry.ActorUserID, entry.SubjectType, entry.SubjectID,
		entry.Before, entry.After, entry.Status, entry.Severity, entry.Hash, entry.PreviousHash, entry.CreatedAt,
	)
	if err != nil {
		return audit.AuditLog{}, fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return entry, nil
}

// LatestHash implements audit.AuditRepository.
func (r *auditRepository) LatestHash(ctx context.Context) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT hash FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT 1`

	var hash string
	if err := q.QueryRow(ctx, query).Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest audit hash: %w", err)
	}

	return hash, nil
}

// DeleteOlderThan implements audit.AuditRepository.
func (r *auditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}
