package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeeType string

const (
	FeeTuition FeeType = "Tuition"
	FeeHostel  FeeType = "Hostel"
	FeeLibrary FeeType = "Library"
	FeeLab     FeeType = "Lab"
	FeeExam    FeeType = "Exam"
	FeeOther   FeeType = "Other"
)

type FeeCategory string

const (
	FeeCategoryRegular    FeeCategory = "Regular"
	FeeCategoryLate       FeeCategory = "Late"
	FeeCategoryFine       FeeCategory = "Fine"
	FeeCategoryAdditional FeeCategory = "Additional"
)

// FeeStatus is the publication state of a fee notice.
type FeeStatus string

const (
	FeeActive    FeeStatus = "Active"
	FeeInactive  FeeStatus = "Inactive"
	FeeCancelled FeeStatus = "Cancelled"
)

var feeTransitions = transitionTable[FeeStatus]{
	FeeActive:   {FeeInactive, FeeCancelled},
	FeeInactive: {FeeActive, FeeCancelled},
}

func (s FeeStatus) Valid() bool {
	switch s {
	case FeeActive, FeeInactive, FeeCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the fee table allows s -> next. Cancelled is terminal.
func (s FeeStatus) CanTransitionTo(next FeeStatus) bool {
	return next.Valid() && feeTransitions.allows(s, next)
}

type PaymentMethod string

const (
	PaymentOnline       PaymentMethod = "Online"
	PaymentCash         PaymentMethod = "Cash"
	PaymentCheque       PaymentMethod = "Cheque"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// FeePayment is one student's payment embedded in a notice.
type FeePayment struct {
	StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"`
	StudentEmail  string             `bson:"studentEmail" json:"studentEmail"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaymentDate   time.Time          `bson:"paymentDate" json:"paymentDate"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	ReceiptNumber string             `bson:"receiptNumber,omitempty" json:"receiptNumber,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// FeeNotice announces a fee to a course and semester cohort.
//
// TotalStudents is a snapshot of the approved cohort size taken when the
// notice is created. It is intentionally not refreshed as enrolment changes.
type FeeNotice struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	AcademicYear    string             `bson:"academicYear" json:"academicYear"`
	Semester        string             `bson:"semester" json:"semester"`
	Course          string             `bson:"course" json:"course"`
	FeeType         FeeType            `bson:"feeType" json:"feeType"`
	Category        FeeCategory        `bson:"category" json:"category"`
	Amount          float64            `bson:"amount" json:"amount"`
	DueDate         time.Time          `bson:"dueDate" json:"dueDate"`
	Status          FeeStatus          `bson:"status" json:"status"`
	IsVisible       bool               `bson:"isVisible" json:"isVisible"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	Payments        []FeePayment       `bson:"payments" json:"payments"`
	TotalStudents   int                `bson:"totalStudents" json:"totalStudents"`
	PaidStudents    int                `bson:"paidStudents" json:"paidStudents"`
	PendingStudents int                `bson:"pendingStudents" json:"pendingStudents"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version         int64              `bson:"version" json:"version"`
}

// RecomputeCounters derives paid/pending from the payment list so that
// PaidStudents + PendingStudents == TotalStudents always holds.
func (f *FeeNotice) RecomputeCounters() {
	paid := 0
	for _, p := range f.Payments {
		if p.Status == PaymentCompleted {
			paid++
		}
	}
	if paid > f.TotalStudents {
		f.TotalStudents = paid
	}
	f.PaidStudents = paid
	f.PendingStudents = f.TotalStudents - paid
}

// PaymentFor returns the index of the payment recorded for email, or -1.
func (f *FeeNotice) PaymentFor(email string) int {
	for i := range f.Payments {
		if strings.EqualFold(f.Payments[i].StudentEmail, email) {
			return i
		}
	}
	return -1
}

// UpsertPayment overwrites the student's existing payment in place or appends
// a new one. It reports whether an existing record was replaced.
func (f *FeeNotice) UpsertPayment(p FeePayment) bool {
	if idx := f.PaymentFor(p.StudentEmail); idx >= 0 {
		f.Payments[idx] = p
		return true
	}
	f.Payments = append(f.Payments, p)
	return false
}

// PaymentByReceipt finds a payment by its receipt number.
func (f *FeeNotice) PaymentByReceipt(receipt string) (*FeePayment, bool) {
	for i := range f.Payments {
		if f.Payments[i].ReceiptNumber == receipt {
			return &f.Payments[i], true
		}
	}
	return nil, false
}

// FeeFilter narrows fee notice listings and statistics.
type FeeFilter struct {
	Semester string
	Course   string
	Status   FeeStatus
	PageRequest
}

// FeeStats aggregates collection progress across notices.
type FeeStats struct {
	TotalFees       int     `json:"totalFees"`
	TotalAmount     float64 `json:"totalAmount"`
	TotalStudents   int     `json:"totalStudents"`
	PaidStudents    int     `json:"paidStudents"`
	PendingStudents int     `json:"pendingStudents"`
	CollectionRate  string  `json:"collectionRate"`
}
