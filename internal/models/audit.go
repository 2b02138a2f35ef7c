package models

import (
	"encoding/json"
	"time"
)

// Audit actions recorded for staff mutations.
const (
	AuditAdmissionStatus  = "ADMISSION_STATUS_UPDATE"
	AuditAdmissionApprove = "ADMISSION_APPROVE"
	AuditStudentUpdate    = "STUDENT_UPDATE"
	AuditStudentDelete    = "STUDENT_DELETE"
	AuditHostelAllocate   = "HOSTEL_ALLOCATE"
	AuditHostelVacate     = "HOSTEL_VACATE"
	AuditFeeCreate        = "FEE_CREATE"
	AuditFeeStatus        = "FEE_STATUS_UPDATE"
	AuditFeePayment       = "FEE_PAYMENT"
	AuditEmailRetry       = "EMAIL_RETRY"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resourceId,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"newValues,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ipAddress"`
	UserAgent  string          `db:"user_agent" json:"userAgent"`
	RequestID  string          `db:"request_id" json:"requestId"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// AuditFilter narrows audit log reads.
type AuditFilter struct {
	Resource   string
	ResourceID string
	Limit      int
}
