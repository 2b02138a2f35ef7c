package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/validation"
)

const feeNotFound = "Fee notice not found"

type feeRepository interface {
	Create(ctx context.Context, fee *models.FeeNotice) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeeNotice, error)
	List(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, int64, error)
	ListAll(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, error)
	ListForCohort(ctx context.Context, course, semester string) ([]models.FeeNotice, error)
	Update(ctx context.Context, fee *models.FeeNotice) error
}

type feeStudentLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	CountApproved(ctx context.Context, course, semester string) (int64, error)
}

// CreateFeeRequest publishes a fee notice to a cohort.
type CreateFeeRequest struct {
	Title        string             `json:"title" validate:"required"`
	Description  string             `json:"description,omitempty"`
	AcademicYear string             `json:"academicYear" validate:"required"`
	Semester     string             `json:"semester" validate:"required"`
	Course       string             `json:"course" validate:"required"`
	Amount       *float64           `json:"amount" validate:"required,gte=0"`
	DueDate      string             `json:"dueDate" validate:"required"`
	FeeType      models.FeeType     `json:"feeType,omitempty" validate:"omitempty,oneof=Tuition Hostel Library Lab Exam Other"`
	Category     models.FeeCategory `json:"category,omitempty" validate:"omitempty,oneof=Regular Late Fine Additional"`
	IsVisible    *bool              `json:"isVisible,omitempty"`
	CreatedBy    string             `json:"createdBy,omitempty"`
}

// RecordPaymentRequest records a manual payment against a notice.
type RecordPaymentRequest struct {
	FeeID         string               `json:"feeId" validate:"required"`
	StudentEmail  string               `json:"studentEmail" validate:"required,email"`
	Amount        *float64             `json:"amount" validate:"required,gt=0"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=Online Cash Cheque 'Bank Transfer'"`
	TransactionID string               `json:"transactionId,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Version       *int64               `json:"version,omitempty"`
}

// UpdateFeeStatusRequest changes the publication state of a notice.
type UpdateFeeStatusRequest struct {
	Status  models.FeeStatus `json:"status" validate:"required"`
	Version *int64           `json:"version,omitempty"`
}

// PaymentRecord is returned after a payment is recorded.
type PaymentRecord struct {
	Payment models.FeePayment `json:"payment"`
	Fee     FeeSummary        `json:"fee"`
}

// FeeSummary is the short description of a notice.
type FeeSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Amount  float64            `json:"amount"`
	DueDate time.Time          `json:"dueDate"`
	Version int64              `json:"version"`
}

// StudentFee is a notice as seen by one student.
type StudentFee struct {
	models.FeeNotice
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentDate   *time.Time           `json:"paymentDate"`
	TransactionID string               `json:"transactionId"`
	ReceiptNumber string               `json:"receiptNumber"`
}

// StudentFeeProfile identifies the student in the fee view.
type StudentFeeProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Course   string `json:"course"`
	Semester string `json:"semester"`
}

// StudentFeeView lists the notices addressed to a student's cohort.
type StudentFeeView struct {
	Student StudentFeeProfile `json:"student"`
	Fees    []StudentFee      `json:"fees"`
}

// FeeService manages fee notices and the payment ledger.
type FeeService struct {
	repo      feeRepository
	students  feeStudentLookup
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeeService constructs the fee service.
func NewFeeService(repo feeRepository, students feeStudentLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		repo:      repo,
		students:  students,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a notice. TotalStudents is the number of
// approved students in the cohort at this moment.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.FeeNotice, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Course = strings.TrimSpace(req.Course)
	req.Semester = strings.TrimSpace(req.Semester)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing required fields")
	}
	due, err := validation.ParseDate(req.DueDate)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "Missing required fields"), "dueDate must be an ISO-8601 date")
	}
	now := s.now()
	if !due.After(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Due date must be in the future")
	}

	total, err := s.students.CountApproved(ctx, req.Course, req.Semester)
	if err != nil {
		return nil, internalError(err, "failed to count cohort")
	}

	fee := &models.FeeNotice{
		Title:         req.Title,
		Description:   strings.TrimSpace(req.Description),
		AcademicYear:  strings.TrimSpace(req.AcademicYear),
		Semester:      req.Semester,
		Course:        req.Course,
		FeeType:       req.FeeType,
		Category:      req.Category,
		Amount:        *req.Amount,
		DueDate:       due,
		Status:        models.FeeActive,
		IsVisible:     true,
		CreatedBy:     strings.TrimSpace(req.CreatedBy),
		TotalStudents: int(total),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if fee.FeeType == "" {
		fee.FeeType = models.FeeTuition
	}
	if fee.Category == "" {
		fee.Category = models.FeeCategoryRegular
	}
	if fee.CreatedBy == "" {
		fee.CreatedBy = "Staff"
	}
	if req.IsVisible != nil {
		fee.IsVisible = *req.IsVisible
	}
	fee.RecomputeCounters()

	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, internalError(err, "failed to create fee notice")
	}
	s.cache.InvalidateFees(ctx)
	s.logger.Info("fee notice created", zap.String("id", fee.ID.Hex()), zap.String("course", fee.Course), zap.Int("total_students", fee.TotalStudents))
	return fee, nil
}

// List returns a page of notices, newest first.
func (s *FeeService) List(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Invalid status filter")
	}
	filter.PageRequest = filter.PageRequest.Normalize()
	fees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list fee notices")
	}
	return fees, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns one notice with its payments.
func (s *FeeService) Get(ctx context.Context, id string) (*models.FeeNotice, error) {
	oid, err := objectID(id, feeNotFound)
	if err != nil {
		return nil, err
	}
	fee, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err, feeNotFound, "failed to load fee notice")
	}
	return fee, nil
}

// ForStudent lists the active, visible notices of the student's cohort with
// the student's own payment state on each.
func (s *FeeService) ForStudent(ctx context.Context, email string) (*StudentFeeView, error) {
	student, err := s.students.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, studentNotFound, "failed to load student")
	}
	course, semester := student.AcademicInfo.Course, student.AcademicInfo.Semester
	notices, err := s.repo.ListForCohort(ctx, course, semester)
	if err != nil {
		return nil, internalError(err, "failed to load student fees")
	}

	view := &StudentFeeView{
		Student: StudentFeeProfile{Name: student.FullName(), Email: student.Email, Course: course, Semester: semester},
		Fees:    make([]StudentFee, 0, len(notices)),
	}
	for _, notice := range notices {
		entry := StudentFee{PaymentStatus: models.PaymentPending}
		own := []models.FeePayment{}
		if idx := notice.PaymentFor(student.Email); idx >= 0 {
			p := notice.Payments[idx]
			own = append(own, p)
			entry.PaymentStatus = p.Status
			entry.PaymentDate = &p.PaymentDate
			entry.TransactionID = p.TransactionID
			entry.ReceiptNumber = p.ReceiptNumber
		}
		notice.Payments = own
		entry.FeeNotice = notice
		view.Fees = append(view.Fees, entry)
	}
	return view, nil
}

// RecordPayment stores a Completed payment for the student, replacing an
// earlier non-completed record.
func (s *FeeService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentRecord, error) {
	req.StudentEmail = normalizeEmail(req.StudentEmail)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing required fields")
	}
	fee, err := s.Get(ctx, req.FeeID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, fee.Version); err != nil {
		return nil, err
	}
	student, err := s.students.FindByEmail(ctx, req.StudentEmail)
	if err != nil {
		return nil, storeError(err, studentNotFound, "failed to load student")
	}
	if idx := fee.PaymentFor(student.Email); idx >= 0 && fee.Payments[idx].Status == models.PaymentCompleted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Payment already recorded for this fee")
	}

	receipt, err := receiptNumber(s.now())
	if err != nil {
		return nil, internalError(err, "failed to generate receipt number")
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentOnline
	}
	payment := models.FeePayment{
		StudentID:     student.ID,
		StudentEmail:  student.Email,
		Amount:        *req.Amount,
		PaymentMethod: method,
		TransactionID: strings.TrimSpace(req.TransactionID),
		PaymentDate:   s.now(),
		Status:        models.PaymentCompleted,
		ReceiptNumber: receipt,
		Notes:         strings.TrimSpace(req.Notes),
	}
	fee.UpsertPayment(payment)
	fee.RecomputeCounters()
	fee.UpdatedAt = payment.PaymentDate

	if err := s.repo.Update(ctx, fee); err != nil {
		return nil, storeError(err, feeNotFound, "failed to record payment")
	}
	s.metrics.RecordPayment(string(method), string(fee.FeeType), payment.Amount)
	s.cache.InvalidateFees(ctx)
	s.logger.Info("payment recorded", zap.String("fee_id", fee.ID.Hex()), zap.String("receipt", receipt))

	return &PaymentRecord{
		Payment: payment,
		Fee:     FeeSummary{ID: fee.ID, Title: fee.Title, Amount: fee.Amount, DueDate: fee.DueDate, Version: fee.Version},
	}, nil
}

// Stats aggregates the active notices matching semester and course.
func (s *FeeService) Stats(ctx context.Context, semester, course string) (*models.FeeStats, error) {
	epoch := s.cache.Epoch()
	key := feeStatsKey(semester, course)
	var cached models.FeeStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	fees, err := s.repo.ListAll(ctx, models.FeeFilter{Semester: strings.TrimSpace(semester), Course: strings.TrimSpace(course), Status: models.FeeActive})
	if err != nil {
		return nil, internalError(err, "failed to compute fee statistics")
	}
	stats := &models.FeeStats{TotalFees: len(fees), CollectionRate: "0.00"}
	for _, f := range fees {
		stats.TotalAmount += f.Amount
		stats.TotalStudents += f.TotalStudents
		stats.PaidStudents += f.PaidStudents
		stats.PendingStudents += f.PendingStudents
	}
	if stats.TotalStudents > 0 {
		stats.CollectionRate = fmt.Sprintf("%.2f", float64(stats.PaidStudents)/float64(stats.TotalStudents)*100)
	}
	s.cache.Set(ctx, key, stats, 0, epoch)
	return stats, nil
}

// UpdateStatus moves a notice between Active, Inactive and Cancelled.
func (s *FeeService) UpdateStatus(ctx context.Context, id string, req UpdateFeeStatusRequest) (*models.FeeNotice, error) {
	if err := s.validator.Struct(req); err != nil || !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid status")
	}
	fee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, fee.Version); err != nil {
		return nil, err
	}
	if !fee.Status.CanTransitionTo(req.Status) {
		return nil, transitionError(&models.TransitionError{Entity: "fee", From: string(fee.Status), To: string(req.Status)})
	}
	fee.Status = req.Status
	fee.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, fee); err != nil {
		return nil, storeError(err, feeNotFound, "failed to update fee status")
	}
	s.cache.InvalidateFees(ctx)
	return fee, nil
}

// receiptNumber renders RCP<epoch ms><3 random digits>.
func receiptNumber(now time.Time) (string, error) {
	n, err := randomInt(1000)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP%d%03d", now.UnixMilli(), n), nil
}
