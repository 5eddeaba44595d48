package dao

import (
	"context"
	"fmt"

	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
)

// AuditLogDAO handles database operations for the append-only audit log.
// There are no update or delete methods on purpose.
type AuditLogDAO struct {
	db *database.DB
}

// NewAuditLogDAO creates a new AuditLogDAO instance
func NewAuditLogDAO(db *database.DB) *AuditLogDAO {
	return &AuditLogDAO{db: db}
}

// CreateWithTx appends an audit entry inside a transition's transaction, so
// the entry and the status change commit or fail together.
func (dao *AuditLogDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO AFT_AUDIT_LOG (
			AUDIT_ID, REQUEST_ID, ACTOR_ID, ACTION, OLD_STATUS, NEW_STATUS,
			NOTES, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		entry.AuditID,
		entry.RequestID,
		entry.ActorID,
		entry.Action,
		entry.OldStatus,
		entry.NewStatus,
		entry.Notes,
		entry.CreatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create audit entry with transaction: %w", err)
	}

	return nil
}

// GetByRequestID retrieves a request's audit entries in creation order, the
// order a replay reconstructs the lifecycle in.
func (dao *AuditLogDAO) GetByRequestID(ctx context.Context, requestID string) ([]models.AuditLogEntry, error) {
	query := `
		SELECT AUDIT_ID, REQUEST_ID, ACTOR_ID, ACTION, OLD_STATUS, NEW_STATUS,
		       NOTES, CREATED_TIME
		FROM AFT_AUDIT_LOG
		WHERE REQUEST_ID = ?
		ORDER BY CREATED_TIME ASC, AUDIT_ID ASC
	`

	var entries []models.AuditLogEntry
	if err := dao.db.SelectContext(ctx, &entries, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}

	return entries, nil
}
