package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
)

type dashboardStudentCounter interface {
	CountByStatus(ctx context.Context, status models.AdmissionStatus) (int64, error)
	CountActiveAllocations(ctx context.Context) (int64, error)
}

type dashboardFeeSummer interface {
	CollectedBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL       time.Duration
	TotalBeds      int
	CurrencySymbol string
}

// DashboardService composes the staff dashboard counters.
type DashboardService struct {
	students dashboardStudentCounter
	fees     dashboardFeeSummer
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students dashboardStudentCounter
	Fees     dashboardFeeSummer
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.TotalBeds <= 0 {
		cfg.TotalBeds = 500
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "₹"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students: params.Students,
		fees:     params.Fees,
		cache:    params.Cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Stats returns dashboard counters and indicates cache utilisation.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	epoch := s.cache.Epoch()
	var cached models.DashboardStats
	if s.cache.Get(ctx, cacheKeyDashboard, &cached) {
		return &cached, true, nil
	}

	approved, err := s.students.CountByStatus(ctx, models.AdmissionApproved)
	if err != nil {
		return nil, false, internalError(err, "failed to count students")
	}
	pending, err := s.students.CountByStatus(ctx, models.AdmissionPending)
	if err != nil {
		return nil, false, internalError(err, "failed to count pending admissions")
	}
	occupied, err := s.students.CountActiveAllocations(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to count hostel occupancy")
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	collected, err := s.fees.CollectedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, false, internalError(err, "failed to sum collected fees")
	}

	stats := &models.DashboardStats{
		TotalStudents:     approved,
		PendingAdmissions: pending,
		HostelOccupancy: models.HostelOccupancy{
			Occupied: int(occupied),
			Capacity: s.cfg.TotalBeds,
			Rate:     math.Round(float64(occupied) / float64(s.cfg.TotalBeds) * 100),
		},
		FeesCollectedThisMonth: collected,
		FeesCollected:          lakhs(s.cfg.CurrencySymbol, collected),
		GeneratedAt:            now,
	}
	s.cache.Set(ctx, cacheKeyDashboard, stats, s.cfg.CacheTTL, epoch)
	return stats, false, nil
}

// lakhs renders an amount in lakhs with one decimal, e.g. ₹1.5L.
func lakhs(symbol string, amount float64) string {
	if amount <= 0 {
		return symbol + "0L"
	}
	return fmt.Sprintf("%s%.1fL", symbol, amount/100000)
}
