package models

import "time"

// EmailStatus tracks delivery of an outbound notification.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// EmailKind identifies which notification a delivery belongs to.
type EmailKind string

const (
	EmailKindAllocation  EmailKind = "hostel_allocation"
	EmailKindCredentials EmailKind = "admission_credentials"
)

// EmailDelivery is persisted on the document whose change triggered the email.
type EmailDelivery struct {
	Status        EmailStatus `bson:"status" json:"status"`
	Attempts      int         `bson:"attempts" json:"attempts"`
	LastError     string      `bson:"lastError,omitempty" json:"lastError,omitempty"`
	LastAttemptAt *time.Time  `bson:"lastAttemptAt,omitempty" json:"lastAttemptAt,omitempty"`
	SentAt        *time.Time  `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}

// PendingDelivery returns a fresh delivery record awaiting its first attempt.
func PendingDelivery() *EmailDelivery {
	return &EmailDelivery{Status: EmailStatusPending}
}

// PendingEmail is a failed delivery selected for another attempt.
type PendingEmail struct {
	Kind      EmailKind
	StudentID string
	Attempts  int
}
