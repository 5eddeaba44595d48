package models

// AuditLogEntry represents the AFT_AUDIT_LOG table: one row per transition
// or significant mutation. Rows are append-only and never updated or
// deleted.
type AuditLogEntry struct {
	AuditID     string  `db:"AUDIT_ID" json:"auditId"`
	RequestID   string  `db:"REQUEST_ID" json:"requestId"`
	ActorID     string  `db:"ACTOR_ID" json:"actorId"`
	Action      string  `db:"ACTION" json:"action"`
	OldStatus   *string `db:"OLD_STATUS" json:"oldStatus,omitempty"`
	NewStatus   string  `db:"NEW_STATUS" json:"newStatus"`
	Notes       string  `db:"NOTES" json:"notes,omitempty"`
	CreatedTime int64   `db:"CREATED_TIME" json:"createdTime"`
}

// SecurityEvent represents the AFT_SECURITY_EVENT table: the long-retention
// record emitted for security-sensitive transitions (rejection,
// resubmission, media destruction), distinct from the general audit log.
type SecurityEvent struct {
	EventID     string `db:"EVENT_ID" json:"eventId"`
	RequestID   string `db:"REQUEST_ID" json:"requestId"`
	ActorID     string `db:"ACTOR_ID" json:"actorId"`
	EventType   string `db:"EVENT_TYPE" json:"eventType"`
	Detail      string `db:"DETAIL" json:"detail,omitempty"`
	CreatedTime int64  `db:"CREATED_TIME" json:"createdTime"`
}
