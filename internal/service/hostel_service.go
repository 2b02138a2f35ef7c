package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/validation"
)

const studentNotFound = "Student not found"

type hostelRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student, arm ...models.EmailKind) error
	ListHostelApplications(ctx context.Context) ([]models.Student, error)
	FindRoommates(ctx context.Context, self primitive.ObjectID, roomType models.RoomType, roomNumber string) ([]models.Student, error)
	OccupiedRooms(ctx context.Context) (map[models.RoomType]int, error)
}

type allocationNotifier interface {
	QueueAllocation(ctx context.Context, studentID primitive.ObjectID) bool
}

// HostelServiceConfig carries the business constants of the hostel.
type HostelServiceConfig struct {
	Capacity       map[models.RoomType]int
	MonthlyRent    map[models.RoomType]int64
	CurrencySymbol string
	DefaultBlock   string
}

// DefaultHostelConfig mirrors the single-block hostel: 100 rooms per type.
func DefaultHostelConfig() HostelServiceConfig {
	return HostelServiceConfig{
		Capacity:       map[models.RoomType]int{models.RoomSingle: 100, models.RoomDouble: 100, models.RoomTriple: 100},
		MonthlyRent:    map[models.RoomType]int64{models.RoomSingle: 10000, models.RoomDouble: 8000, models.RoomTriple: 6000},
		CurrencySymbol: "₹",
		DefaultBlock:   "Main",
	}
}

// AllocateRoomRequest assigns a room to a student.
type AllocateRoomRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	RoomType   models.RoomType `json:"roomType" validate:"required,oneof=Single Double Triple"`
	RoomNumber string          `json:"roomNumber" validate:"required"`
	Block      string          `json:"block,omitempty"`
	Floor      string          `json:"floor,omitempty"`
	Version    *int64          `json:"version,omitempty"`
}

// VacateRoomRequest ends an active allocation.
type VacateRoomRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Version *int64 `json:"version,omitempty"`
}

// ApplyHostelRequest is a student's hostel application.
type ApplyHostelRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Preferences struct {
		RoomType        models.RoomType `json:"roomType,omitempty" validate:"omitempty,oneof=Single Double Triple"`
		BlockPreference string          `json:"blockPreference,omitempty"`
	} `json:"preferences"`
}

// HostelApplicationView is one row of the staff application list.
type HostelApplicationView struct {
	ID               primitive.ObjectID        `json:"id"`
	FirstName        string                    `json:"firstName"`
	LastName         string                    `json:"lastName"`
	Email            string                    `json:"email"`
	Course           string                    `json:"course"`
	Application      *models.HostelApplication `json:"application,omitempty"`
	AllocationStatus models.AllocationStatus   `json:"allocationStatus,omitempty"`
}

// HostelInfo is the student's hostel record plus current roommates.
type HostelInfo struct {
	models.Hostel
	Roommates []models.Roommate `json:"roommates,omitempty"`
}

// ApplyResult reports whether an application was newly recorded.
type ApplyResult struct {
	AlreadyApplied bool
	Hostel         models.Hostel
}

// HostelService manages hostel applications and room allocation.
type HostelService struct {
	repo      hostelRepository
	notifier  allocationNotifier
	cache     *CacheService
	metrics   *MetricsService
	cfg       HostelServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewHostelService constructs the hostel service. Missing config entries
// fall back to DefaultHostelConfig.
func NewHostelService(repo hostelRepository, notifier allocationNotifier, cache *CacheService, metrics *MetricsService, cfg HostelServiceConfig, validate *validator.Validate, logger *zap.Logger) *HostelService {
	defaults := DefaultHostelConfig()
	if cfg.Capacity == nil {
		cfg.Capacity = defaults.Capacity
	}
	if cfg.MonthlyRent == nil {
		cfg.MonthlyRent = defaults.MonthlyRent
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = defaults.CurrencySymbol
	}
	if cfg.DefaultBlock == "" {
		cfg.DefaultBlock = defaults.DefaultBlock
	}
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostelService{
		repo:      repo,
		notifier:  notifier,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Stats counts occupied rooms per type. A room is occupied when at least
// one student holds an Active allocation for it.
func (s *HostelService) Stats(ctx context.Context) ([]models.RoomOccupancy, error) {
	epoch := s.cache.Epoch()
	var cached []models.RoomOccupancy
	if s.cache.Get(ctx, cacheKeyHostelStats, &cached) {
		return cached, nil
	}
	occupied, err := s.repo.OccupiedRooms(ctx)
	if err != nil {
		return nil, internalError(err, "failed to compute hostel stats")
	}
	stats := make([]models.RoomOccupancy, 0, len(models.RoomTypes()))
	for _, t := range models.RoomTypes() {
		total := s.cfg.Capacity[t]
		filled := occupied[t]
		// over-allocation shows as negative empty so filled+empty stays total
		stats = append(stats, models.RoomOccupancy{Type: t, Total: total, Filled: filled, Empty: total - filled})
	}
	s.cache.Set(ctx, cacheKeyHostelStats, stats, 0, epoch)
	return stats, nil
}

// ListApplications returns every student who applied for a room.
func (s *HostelService) ListApplications(ctx context.Context) ([]HostelApplicationView, error) {
	students, err := s.repo.ListHostelApplications(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list hostel applications")
	}
	views := make([]HostelApplicationView, 0, len(students))
	for _, st := range students {
		views = append(views, HostelApplicationView{
			ID:               st.ID,
			FirstName:        st.FirstName,
			LastName:         st.LastName,
			Email:            st.Email,
			Course:           st.AcademicInfo.Course,
			Application:      st.Hostel.Application,
			AllocationStatus: st.Hostel.AllocationStatus(),
		})
	}
	return views, nil
}

// Allocate activates a room allocation and queues the allocation email.
// Email problems never fail the allocation.
func (s *HostelService) Allocate(ctx context.Context, req AllocateRoomRequest) (*models.HostelAllocation, error) {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "email, roomType and roomNumber are required")
	}
	student, err := s.load(ctx, req.Email, req.Version)
	if err != nil {
		return nil, err
	}
	current := student.Hostel.AllocationStatus()
	if !current.CanTransitionTo(models.AllocationActive) {
		return nil, transitionError(&models.TransitionError{Entity: "allocation", From: string(current), To: string(models.AllocationActive)})
	}

	now := s.now()
	block := strings.TrimSpace(req.Block)
	if block == "" {
		block = s.cfg.DefaultBlock
	}
	student.Hostel.Allocation = &models.HostelAllocation{
		RoomNumber:  req.RoomNumber,
		Block:       block,
		Floor:       strings.TrimSpace(req.Floor),
		RoomType:    req.RoomType,
		MonthlyRent: s.rentFor(req.RoomType),
		Status:      models.AllocationActive,
		CheckInDate: &now,
		Email:       models.PendingDelivery(),
	}
	student.UpdatedAt = now
	if err := s.repo.Update(ctx, student, models.EmailKindAllocation); err != nil {
		return nil, storeError(err, studentNotFound, "failed to save allocation")
	}

	s.metrics.RecordAllocation(string(req.RoomType), "allocate")
	s.cache.InvalidateHostel(ctx)
	alloc := student.Hostel.Allocation
	if s.notifier != nil && !s.notifier.QueueAllocation(ctx, student.ID) {
		alloc.Email.Status = models.EmailStatusFailed
	}
	s.logger.Info("room allocated",
		zap.String("student_id", student.ID.Hex()),
		zap.String("room_type", string(alloc.RoomType)),
		zap.String("room_number", alloc.RoomNumber))
	return alloc, nil
}

// Vacate ends the student's allocation.
func (s *HostelService) Vacate(ctx context.Context, req VacateRoomRequest) (*models.HostelAllocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "email is required")
	}
	student, err := s.load(ctx, req.Email, req.Version)
	if err != nil {
		return nil, err
	}
	current := student.Hostel.AllocationStatus()
	if current != models.AllocationActive {
		return nil, transitionError(&models.TransitionError{Entity: "allocation", From: string(current), To: string(models.AllocationInactive)})
	}
	now := s.now()
	alloc := student.Hostel.Allocation
	alloc.Status = models.AllocationInactive
	alloc.ExpectedCheckOut = &now
	student.UpdatedAt = now
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, studentNotFound, "failed to vacate room")
	}
	s.metrics.RecordAllocation(string(alloc.RoomType), "vacate")
	s.cache.InvalidateHostel(ctx)
	return alloc, nil
}

// Apply records a hostel application. Applying twice returns the existing
// application unchanged.
func (s *HostelService) Apply(ctx context.Context, req ApplyHostelRequest) (*ApplyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Validation failed")
	}
	student, err := s.load(ctx, req.Email, nil)
	if err != nil {
		return nil, err
	}
	if student.Hostel.Applied && student.Hostel.HasApplied() {
		return &ApplyResult{AlreadyApplied: true, Hostel: student.Hostel}, nil
	}

	roomType := req.Preferences.RoomType
	if roomType == "" {
		roomType = models.RoomDouble
	}
	now := s.now()
	student.Hostel.Applied = true
	student.Hostel.Application = &models.HostelApplication{
		Preferences: models.HostelPreferences{RoomType: roomType, BlockPreference: strings.TrimSpace(req.Preferences.BlockPreference)},
		AppliedAt:   &now,
	}
	switch student.Hostel.AllocationStatus() {
	case models.AllocationNone:
		student.Hostel.Allocation = &models.HostelAllocation{Status: models.AllocationPending}
	case models.AllocationInactive:
		student.Hostel.Allocation.Status = models.AllocationPending
	}
	student.UpdatedAt = now
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, studentNotFound, "failed to save hostel application")
	}
	return &ApplyResult{Hostel: student.Hostel}, nil
}

// Info returns the student's hostel record with roommates when the
// allocation is active.
func (s *HostelService) Info(ctx context.Context, email string) (*HostelInfo, error) {
	student, err := s.load(ctx, email, nil)
	if err != nil {
		return nil, err
	}
	info := &HostelInfo{Hostel: student.Hostel}
	alloc := student.Hostel.Allocation
	if alloc == nil || alloc.Status != models.AllocationActive || alloc.RoomNumber == "" {
		return info, nil
	}
	mates, err := s.repo.FindRoommates(ctx, student.ID, alloc.RoomType, alloc.RoomNumber)
	if err != nil {
		return nil, internalError(err, "failed to load roommates")
	}
	info.Roommates = make([]models.Roommate, 0, len(mates))
	for _, m := range mates {
		info.Roommates = append(info.Roommates, models.Roommate{FirstName: m.FirstName, Email: m.Email, Course: m.AcademicInfo.Course})
	}
	return info, nil
}

func (s *HostelService) load(ctx context.Context, email string, version *int64) (*models.Student, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, studentNotFound, "failed to load student")
	}
	if err := checkVersion(version, student.Version); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *HostelService) rentFor(t models.RoomType) string {
	return formatMoney(s.cfg.CurrencySymbol, s.cfg.MonthlyRent[t])
}

// formatMoney renders whole currency units with thousands separators,
// e.g. ₹10,000.
func formatMoney(symbol string, amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + symbol + b.String()
}
