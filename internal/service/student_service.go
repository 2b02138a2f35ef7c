package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/validation"
)

type studentRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
	Update(ctx context.Context, student *models.Student, arm ...models.EmailKind) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UpdateStudentRequest is a partial profile update; nil fields are kept.
type UpdateStudentRequest struct {
	FirstName        *string                  `json:"firstName,omitempty" validate:"omitempty,min=2,max=50"`
	LastName         *string                  `json:"lastName,omitempty" validate:"omitempty,min=2,max=50"`
	Phone            *string                  `json:"phone,omitempty" validate:"omitempty,min=1"`
	Nationality      *string                  `json:"nationality,omitempty" validate:"omitempty,min=1"`
	Address          *models.Address          `json:"address,omitempty"`
	AcademicInfo     *models.AcademicInfo     `json:"academicInfo,omitempty"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact,omitempty"`
	Version          *int64                   `json:"version,omitempty"`
}

// StudentService handles student profile use-cases.
type StudentService struct {
	repo      studentRepository
	documents documentRemover
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, documents documentRemover, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		documents: documents,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Invalid status filter")
	}
	filter.PageRequest = filter.PageRequest.Normalize()
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	return students, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns a student by document id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	oid, err := objectID(id, studentNotFound)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err, studentNotFound, "failed to load student")
	}
	return student, nil
}

// ByEmail returns a student by email.
func (s *StudentService) ByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, studentNotFound, "failed to load student")
	}
	return student, nil
}

// Update applies a partial profile update.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	trimPtr(req.FirstName)
	trimPtr(req.LastName)
	trimPtr(req.Phone)
	trimPtr(req.Nationality)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Validation failed")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, student.Version); err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Nationality != nil {
		student.Nationality = *req.Nationality
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.AcademicInfo != nil {
		student.AcademicInfo = *req.AcademicInfo
	}
	if req.EmergencyContact != nil {
		student.EmergencyContact = *req.EmergencyContact
	}
	student.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, studentNotFound, "failed to update student")
	}
	return student, nil
}

// Delete removes the student and, best effort, their stored files.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	return deleteStudent(ctx, s.repo, s.documents, s.cache, s.logger, id, studentNotFound)
}

func trimPtr(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}
