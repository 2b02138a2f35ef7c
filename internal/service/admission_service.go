package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/validation"
)

const (
	applicationNotFound  = "Application not found"
	maxStudentIDAttempts = 5
)

type admissionRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
	Update(ctx context.Context, student *models.Student, arm ...models.EmailKind) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type admissionDocuments interface {
	ValidateCounts(uploads map[string][]UploadedFile) error
	Store(ctx context.Context, uploads map[string][]UploadedFile) (*models.Documents, error)
	Remove(ctx context.Context, paths []string)
	Links(student *models.Student) ([]DocumentLink, error)
}

type credentialNotifier interface {
	QueueCredentials(ctx context.Context, studentID primitive.ObjectID, password string) bool
}

// SubmitAdmissionRequest is the multipart admission form. The nested
// sections arrive as JSON strings.
type SubmitAdmissionRequest struct {
	FirstName        string `form:"firstName" json:"firstName" validate:"required,min=2,max=50"`
	LastName         string `form:"lastName" json:"lastName" validate:"required,min=2,max=50"`
	Email            string `form:"email" json:"email" validate:"required,email"`
	Phone            string `form:"phone" json:"phone" validate:"required"`
	DateOfBirth      string `form:"dateOfBirth" json:"dateOfBirth" validate:"required,admission_age"`
	Gender           string `form:"gender" json:"gender" validate:"required,oneof=Male Female Other"`
	Nationality      string `form:"nationality" json:"nationality" validate:"required"`
	Address          string `form:"address" json:"address" validate:"required"`
	AcademicInfo     string `form:"academicInfo" json:"academicInfo" validate:"required"`
	EmergencyContact string `form:"emergencyContact" json:"emergencyContact" validate:"required"`
}

func (r *SubmitAdmissionRequest) trim() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Nationality = strings.TrimSpace(r.Nationality)
}

// admissionSections holds the decoded JSON sections for validation.
type admissionSections struct {
	Address          models.Address          `json:"address"`
	AcademicInfo     models.AcademicInfo     `json:"academicInfo"`
	EmergencyContact models.EmergencyContact `json:"emergencyContact"`
}

// UpdateAdmissionStatusRequest moves an application through review.
type UpdateAdmissionStatusRequest struct {
	Status  models.AdmissionStatus `json:"status" validate:"required"`
	Version *int64                 `json:"version,omitempty"`
}

// ApproveAdmissionRequest approves with an optional staff-chosen password.
type ApproveAdmissionRequest struct {
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
	Version  *int64 `json:"version,omitempty"`
}

// AdmissionSubmission is returned after a successful submission.
type AdmissionSubmission struct {
	ID              primitive.ObjectID     `json:"studentId"`
	AdmissionStatus models.AdmissionStatus `json:"admissionStatus"`
	SubmittedAt     time.Time              `json:"submittedAt"`
}

// AdmissionDecision is returned after a status change.
type AdmissionDecision struct {
	ID              primitive.ObjectID     `json:"id"`
	StudentID       string                 `json:"studentId,omitempty"`
	AdmissionStatus models.AdmissionStatus `json:"admissionStatus"`
	ReviewedAt      *time.Time             `json:"reviewedAt,omitempty"`
	ApprovedAt      *time.Time             `json:"approvedAt,omitempty"`
	CredentialEmail *models.EmailDelivery  `json:"credentialEmail,omitempty"`
	Version         int64                  `json:"version"`
}

// ScreeningView is a full application plus signed document links.
type ScreeningView struct {
	Application *models.Student `json:"application"`
	Documents   []DocumentLink  `json:"documents"`
}

// AdmissionService runs intake and the review workflow.
type AdmissionService struct {
	repo      admissionRepository
	documents admissionDocuments
	notifier  credentialNotifier
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	hash      passwordHasher
	now       func() time.Time
}

// NewAdmissionService constructs the admission service.
func NewAdmissionService(repo admissionRepository, documents admissionDocuments, notifier credentialNotifier, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{
		repo:      repo,
		documents: documents,
		notifier:  notifier,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		hash:      bcryptHash,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the form, stores the uploads and creates a Pending
// application. Stored files are removed again if the insert fails.
func (s *AdmissionService) Submit(ctx context.Context, req SubmitAdmissionRequest, uploads map[string][]UploadedFile) (*AdmissionSubmission, error) {
	req.trim()
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Validation failed")
	}
	dob, err := validation.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "Validation failed"), "Please provide a valid date of birth")
	}
	sections, err := s.decodeSections(req)
	if err != nil {
		return nil, err
	}
	if err := s.documents.ValidateCounts(uploads); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, internalError(err, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "Student with this email already exists")
	}

	docs, err := s.documents.Store(ctx, uploads)
	if err != nil {
		return nil, err
	}

	now := s.now()
	student := &models.Student{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      dob,
		Gender:           models.Gender(req.Gender),
		Nationality:      req.Nationality,
		Address:          sections.Address,
		AcademicInfo:     sections.AcademicInfo,
		EmergencyContact: sections.EmergencyContact,
		Documents:        docs,
		AdmissionStatus:  models.AdmissionPending,
		SubmittedAt:      now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		s.documents.Remove(ctx, docs.Paths())
		return nil, storeError(err, applicationNotFound, "failed to save application")
	}
	s.cache.InvalidateAdmissions(ctx)
	s.logger.Info("admission submitted", zap.String("id", student.ID.Hex()), zap.String("course", student.AcademicInfo.Course))

	return &AdmissionSubmission{ID: student.ID, AdmissionStatus: student.AdmissionStatus, SubmittedAt: student.SubmittedAt}, nil
}

func (s *AdmissionService) decodeSections(req SubmitAdmissionRequest) (*admissionSections, error) {
	var sections admissionSections
	invalid := appErrors.Clone(appErrors.ErrValidation, "Validation failed")
	if err := json.Unmarshal([]byte(req.Address), &sections.Address); err != nil {
		return nil, appErrors.WithDetails(invalid, "Invalid address format")
	}
	if err := json.Unmarshal([]byte(req.AcademicInfo), &sections.AcademicInfo); err != nil {
		return nil, appErrors.WithDetails(invalid, "Invalid academic information format")
	}
	if err := json.Unmarshal([]byte(req.EmergencyContact), &sections.EmergencyContact); err != nil {
		return nil, appErrors.WithDetails(invalid, "Invalid emergency contact format")
	}
	sections.EmergencyContact.Email = strings.TrimSpace(sections.EmergencyContact.Email)
	if err := s.validator.Struct(sections); err != nil {
		return nil, validationError(err, "Validation failed")
	}
	return &sections, nil
}

// List returns a page of applications, newest first.
func (s *AdmissionService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Invalid status filter")
	}
	filter.PageRequest = filter.PageRequest.Normalize()
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list applications")
	}
	return students, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns the full application.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Student, error) {
	oid, err := objectID(id, applicationNotFound)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err, applicationNotFound, "failed to load application")
	}
	return student, nil
}

// Screening returns the application with signed links to its documents.
func (s *AdmissionService) Screening(ctx context.Context, id string) (*ScreeningView, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.documents.Links(student)
	if err != nil {
		return nil, internalError(err, "failed to sign document links")
	}
	return &ScreeningView{Application: student, Documents: links}, nil
}

// UpdateStatus applies a review decision. Entering Approved runs the
// approval side effects with a generated password.
func (s *AdmissionService) UpdateStatus(ctx context.Context, id string, req UpdateAdmissionStatusRequest) (*AdmissionDecision, error) {
	if err := s.validator.Struct(req); err != nil || !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid status. Must be one of: Pending, Approved, Rejected, Under Review")
	}
	return s.transition(ctx, id, req.Status, req.Version, "")
}

// Approve moves the application to Approved, using password as the
// temporary portal credential when given.
func (s *AdmissionService) Approve(ctx context.Context, id string, req ApproveAdmissionRequest) (*AdmissionDecision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Validation failed")
	}
	return s.transition(ctx, id, models.AdmissionApproved, req.Version, req.Password)
}

func (s *AdmissionService) transition(ctx context.Context, id string, next models.AdmissionStatus, version *int64, password string) (*AdmissionDecision, error) {
	oid, err := objectID(id, applicationNotFound)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err, applicationNotFound, "failed to load application")
	}
	if err := checkVersion(version, student.Version); err != nil {
		return nil, err
	}

	now := s.now()
	entered, err := student.TransitionAdmission(next, now)
	if err != nil {
		return nil, transitionError(err)
	}
	student.UpdatedAt = now

	var issued string
	needsID := entered && student.StudentID == ""
	if entered && student.PasswordHash == "" {
		if issued, err = s.issueCredentials(student, password); err != nil {
			return nil, internalError(err, "failed to issue credentials")
		}
	}

	var arm []models.EmailKind
	if issued != "" {
		arm = append(arm, models.EmailKindCredentials)
	}
	if err := s.save(ctx, student, needsID, now, arm); err != nil {
		return nil, err
	}

	s.metrics.RecordAdmissionStatus(string(student.AdmissionStatus))
	s.cache.InvalidateAdmissions(ctx)
	if issued != "" && s.notifier != nil && !s.notifier.QueueCredentials(ctx, student.ID, issued) {
		student.CredentialEmail.Status = models.EmailStatusFailed
	}
	s.logger.Info("admission status updated",
		zap.String("id", student.ID.Hex()),
		zap.String("status", string(student.AdmissionStatus)),
		zap.String("student_id", student.StudentID))

	return &AdmissionDecision{
		ID:              student.ID,
		StudentID:       student.StudentID,
		AdmissionStatus: student.AdmissionStatus,
		ReviewedAt:      student.ReviewedAt,
		ApprovedAt:      student.ApprovedAt,
		CredentialEmail: student.CredentialEmail,
		Version:         student.Version,
	}, nil
}

func (s *AdmissionService) issueCredentials(student *models.Student, password string) (string, error) {
	if password == "" {
		generated, err := generateTempPassword()
		if err != nil {
			return "", err
		}
		password = generated
	}
	hash, err := s.hash(password)
	if err != nil {
		return "", err
	}
	student.PasswordHash = hash
	student.CredentialEmail = models.PendingDelivery()
	return password, nil
}

// save persists the transition, drawing a new enrolment id whenever the
// previous draw collided with an existing one.
func (s *AdmissionService) save(ctx context.Context, student *models.Student, needsID bool, now time.Time, arm []models.EmailKind) error {
	for attempt := 0; ; attempt++ {
		if needsID {
			id, err := generateStudentID(now.Year())
			if err != nil {
				return internalError(err, "failed to generate student id")
			}
			student.StudentID = id
		}
		err := s.repo.Update(ctx, student, arm...)
		if err == nil {
			return nil
		}
		if needsID && errors.Is(err, appErrors.ErrDuplicate) && attempt+1 < maxStudentIDAttempts {
			s.logger.Warn("student id collision, retrying", zap.String("student_id", student.StudentID))
			continue
		}
		return storeError(err, applicationNotFound, "failed to update application")
	}
}

// StatusByEmail is the public status lookup.
func (s *AdmissionService) StatusByEmail(ctx context.Context, email string) (*models.AdmissionStatusView, error) {
	student, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "No application found with this email", "failed to load application")
	}
	view := student.StatusView()
	return &view, nil
}

// Delete removes the application and, best effort, its stored files.
func (s *AdmissionService) Delete(ctx context.Context, id string) error {
	return deleteStudent(ctx, s.repo, s.documents, s.cache, s.logger, id, applicationNotFound)
}

type studentDeleter interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type documentRemover interface {
	Remove(ctx context.Context, paths []string)
}

func deleteStudent(ctx context.Context, repo studentDeleter, documents documentRemover, cache *CacheService, logger *zap.Logger, id, notFound string) error {
	oid, err := objectID(id, notFound)
	if err != nil {
		return err
	}
	student, err := repo.FindByID(ctx, oid)
	if err != nil {
		return storeError(err, notFound, "failed to load student")
	}
	if err := repo.Delete(ctx, oid); err != nil {
		return storeError(err, notFound, "failed to delete student")
	}
	if documents != nil {
		documents.Remove(ctx, student.Documents.Paths())
	}
	cache.InvalidateAdmissions(ctx)
	if student.Hostel.AllocationStatus() == models.AllocationActive {
		cache.InvalidateHostel(ctx)
	}
	logger.Info("student deleted", zap.String("id", oid.Hex()))
	return nil
}

// generateStudentID draws STU<year><4 random digits>.
func generateStudentID(year int) (string, error) {
	n, err := randomInt(10000)
	if err != nil {
		return "", err
	}
	return models.FormatStudentID(year, int(n)), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
