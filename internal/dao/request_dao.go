package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = errors.New("not found")

// requestColumns is the canonical column list for AFT_REQUEST selects
const requestColumns = `REQUEST_ID, REQUEST_NUMBER, TRANSFER_DIRECTION, CLASSIFICATION_LEVEL,
	       TRANSFER_PURPOSE, SOURCE_SYSTEM, DEST_SYSTEM, REQUESTOR_ID, APPROVER_ID,
	       DTA_ID, SME_ID, CUSTODIAN_ID, STATUS, APPROVAL_DATA, TRANSFER_DATA,
	       REJECTION_REASON, CREATED_TIME, UPDATED_TIME`

// RequestDAO handles database operations for AFT requests
type RequestDAO struct {
	db *database.DB
}

// NewRequestDAO creates a new RequestDAO instance
func NewRequestDAO(db *database.DB) *RequestDAO {
	return &RequestDAO{db: db}
}

// Create inserts a new request
func (dao *RequestDAO) Create(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO AFT_REQUEST (
			REQUEST_ID, REQUEST_NUMBER, TRANSFER_DIRECTION, CLASSIFICATION_LEVEL,
			TRANSFER_PURPOSE, SOURCE_SYSTEM, DEST_SYSTEM, REQUESTOR_ID,
			STATUS, APPROVAL_DATA, TRANSFER_DATA, CREATED_TIME, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		req.RequestID,
		req.RequestNumber,
		req.TransferDirection,
		req.ClassificationLevel,
		req.TransferPurpose,
		req.SourceSystem,
		req.DestSystem,
		req.RequestorID,
		req.Status,
		req.ApprovalData,
		req.TransferData,
		req.CreatedTime,
		req.UpdatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// CreateWithTx inserts a new request using a transaction
func (dao *RequestDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, req *models.Request) error {
	query := `
		INSERT INTO AFT_REQUEST (
			REQUEST_ID, REQUEST_NUMBER, TRANSFER_DIRECTION, CLASSIFICATION_LEVEL,
			TRANSFER_PURPOSE, SOURCE_SYSTEM, DEST_SYSTEM, REQUESTOR_ID,
			STATUS, APPROVAL_DATA, TRANSFER_DATA, CREATED_TIME, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		req.RequestID,
		req.RequestNumber,
		req.TransferDirection,
		req.ClassificationLevel,
		req.TransferPurpose,
		req.SourceSystem,
		req.DestSystem,
		req.RequestorID,
		req.Status,
		req.ApprovalData,
		req.TransferData,
		req.CreatedTime,
		req.UpdatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create request with transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a request by ID
func (dao *RequestDAO) GetByID(ctx context.Context, requestID string) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM AFT_REQUEST WHERE REQUEST_ID = ?`

	var req models.Request
	err := dao.db.GetContext(ctx, &req, query, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return &req, nil
}

// GetByIDForUpdate retrieves a request inside a transaction, taking an
// exclusive row lock for the duration of the transition.
func (dao *RequestDAO) GetByIDForUpdate(ctx context.Context, tx *database.Transaction, requestID string) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM AFT_REQUEST WHERE REQUEST_ID = ? FOR UPDATE`

	var req models.Request
	err := tx.GetContext(ctx, &req, query, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request for update: %w", err)
	}

	return &req, nil
}

// ListFilter narrows a request listing. The visibility fields are combined
// as an OR-group so a reviewer sees their pending stage plus anything they
// have already signed.
type ListFilter struct {
	Status       string   // exact status requested by the caller
	RequestorID  string   // restrict to the owning requestor
	AnyStatuses  []string // visibility: statuses visible to the acting role
	SignerUserID string   // visibility: requests carrying this user's signature
}

// List retrieves requests matching the filter with pagination, returning
// the page and the total match count.
func (dao *RequestDAO) List(ctx context.Context, filter ListFilter, limit, offset int) ([]models.Request, int, error) {
	where, args := buildListWhere(filter)

	countQuery := "SELECT COUNT(*) FROM AFT_REQUEST" + where
	var total int
	if err := dao.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM AFT_REQUEST` + where +
		" ORDER BY CREATED_TIME DESC LIMIT ? OFFSET ?"
	listArgs := append(append([]interface{}{}, args...), limit, offset)

	var requests []models.Request
	if err := dao.db.SelectContext(ctx, &requests, query, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, total, nil
}

func buildListWhere(filter ListFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "STATUS = ?")
		args = append(args, filter.Status)
	}

	var visibility []string
	if filter.RequestorID != "" {
		visibility = append(visibility, "REQUESTOR_ID = ?")
		args = append(args, filter.RequestorID)
	}
	if len(filter.AnyStatuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.AnyStatuses)), ", ")
		visibility = append(visibility, "STATUS IN ("+placeholders+")")
		for _, s := range filter.AnyStatuses {
			args = append(args, s)
		}
	}
	if filter.SignerUserID != "" {
		visibility = append(visibility,
			"(JSON_SEARCH(APPROVAL_DATA, 'one', ?) IS NOT NULL OR JSON_SEARCH(TRANSFER_DATA, 'one', ?) IS NOT NULL)")
		args = append(args, filter.SignerUserID, filter.SignerUserID)
	}
	if len(visibility) > 0 {
		conditions = append(conditions, "("+strings.Join(visibility, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// TransitionUpdate describes the fields a single transition writes. Nil
// fields are left untouched. The update is guarded by the expected current
// status, so a concurrent transition from the same status loses.
type TransitionUpdate struct {
	NewStatus            string
	ApprovalData         models.JSON
	TransferData         models.JSON
	RejectionReason      *string
	ClearRejectionReason bool
	ApproverID           *string
	DTAID                *string
	SMEID                *string
	CustodianID          *string
	UpdatedTime          int64
}

// ApplyTransition performs the status-guarded update inside the transition's
// transaction. It returns ErrStatusMoved when the row is no longer in the
// expected status.
var ErrStatusMoved = errors.New("request status changed concurrently")

func (dao *RequestDAO) ApplyTransition(ctx context.Context, tx *database.Transaction, requestID, expectedStatus string, update TransitionUpdate) error {
	setClauses := []string{"STATUS = ?", "UPDATED_TIME = ?"}
	args := []interface{}{update.NewStatus, update.UpdatedTime}

	if update.ApprovalData != nil {
		setClauses = append(setClauses, "APPROVAL_DATA = ?")
		args = append(args, update.ApprovalData)
	}
	if update.TransferData != nil {
		setClauses = append(setClauses, "TRANSFER_DATA = ?")
		args = append(args, update.TransferData)
	}
	if update.RejectionReason != nil {
		setClauses = append(setClauses, "REJECTION_REASON = ?")
		args = append(args, *update.RejectionReason)
	} else if update.ClearRejectionReason {
		setClauses = append(setClauses, "REJECTION_REASON = NULL")
	}
	if update.ApproverID != nil {
		setClauses = append(setClauses, "APPROVER_ID = ?")
		args = append(args, *update.ApproverID)
	}
	if update.DTAID != nil {
		setClauses = append(setClauses, "DTA_ID = ?")
		args = append(args, *update.DTAID)
	}
	if update.SMEID != nil {
		setClauses = append(setClauses, "SME_ID = ?")
		args = append(args, *update.SMEID)
	}
	if update.CustodianID != nil {
		setClauses = append(setClauses, "CUSTODIAN_ID = ?")
		args = append(args, *update.CustodianID)
	}

	query := "UPDATE AFT_REQUEST SET " + strings.Join(setClauses, ", ") +
		" WHERE REQUEST_ID = ? AND STATUS = ?"
	args = append(args, requestID, expectedStatus)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("request %s expected status %s: %w", requestID, expectedStatus, ErrStatusMoved)
	}

	return nil
}

// UpdateFields updates the editable classification fields of a request.
// Status is deliberately not touched here.
func (dao *RequestDAO) UpdateFields(ctx context.Context, req *models.Request) error {
	query := `
		UPDATE AFT_REQUEST
		SET TRANSFER_DIRECTION = ?, CLASSIFICATION_LEVEL = ?, TRANSFER_PURPOSE = ?,
		    SOURCE_SYSTEM = ?, DEST_SYSTEM = ?, UPDATED_TIME = ?
		WHERE REQUEST_ID = ?
	`

	result, err := dao.db.ExecContext(
		ctx,
		query,
		req.TransferDirection,
		req.ClassificationLevel,
		req.TransferPurpose,
		req.SourceSystem,
		req.DestSystem,
		req.UpdatedTime,
		req.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("request %s: %w", req.RequestID, ErrNotFound)
	}

	return nil
}

// Delete removes a request while it is still a draft. Non-draft rows are
// never physically deleted.
func (dao *RequestDAO) Delete(ctx context.Context, requestID string) error {
	query := `DELETE FROM AFT_REQUEST WHERE REQUEST_ID = ? AND STATUS = 'draft'`

	result, err := dao.db.ExecContext(ctx, query, requestID)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("draft request %s: %w", requestID, ErrNotFound)
	}

	return nil
}
