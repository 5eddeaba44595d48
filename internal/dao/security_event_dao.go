package dao

import (
	"context"
	"fmt"

	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
)

// SecurityEventDAO handles the long-retention security event record kept
// separately from the general audit log.
type SecurityEventDAO struct {
	db *database.DB
}

// NewSecurityEventDAO creates a new SecurityEventDAO instance
func NewSecurityEventDAO(db *database.DB) *SecurityEventDAO {
	return &SecurityEventDAO{db: db}
}

// CreateWithTx appends a security event inside the transition's transaction
func (dao *SecurityEventDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, event *models.SecurityEvent) error {
	query := `
		INSERT INTO AFT_SECURITY_EVENT (
			EVENT_ID, REQUEST_ID, ACTOR_ID, EVENT_TYPE, DETAIL, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		event.EventID,
		event.RequestID,
		event.ActorID,
		event.EventType,
		event.Detail,
		event.CreatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create security event with transaction: %w", err)
	}

	return nil
}

// GetByRequestID retrieves a request's security events in creation order
func (dao *SecurityEventDAO) GetByRequestID(ctx context.Context, requestID string) ([]models.SecurityEvent, error) {
	query := `
		SELECT EVENT_ID, REQUEST_ID, ACTOR_ID, EVENT_TYPE, DETAIL, CREATED_TIME
		FROM AFT_SECURITY_EVENT
		WHERE REQUEST_ID = ?
		ORDER BY CREATED_TIME ASC, EVENT_ID ASC
	`

	var events []models.SecurityEvent
	if err := dao.db.SelectContext(ctx, &events, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to get security events: %w", err)
	}

	return events, nil
}
