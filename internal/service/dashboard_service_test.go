package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
)

type fakeFeeSummer struct {
	total    float64
	from, to time.Time
	calls    int
	err      error
}

func (f *fakeFeeSummer) CollectedBetween(_ context.Context, from, to time.Time) (float64, error) {
	f.calls++
	f.from, f.to = from, to
	return f.total, f.err
}

func TestDashboardStatsComposesCounters(t *testing.T) {
	repo := newStudentRepoMock()
	repo.put(&models.Student{Email: "a@x.io", AdmissionStatus: models.AdmissionApproved, Hostel: activeAt(models.RoomSingle, "1")})
	repo.put(&models.Student{Email: "b@x.io", AdmissionStatus: models.AdmissionApproved})
	repo.put(&models.Student{Email: "c@x.io", AdmissionStatus: models.AdmissionPending})
	fees := &fakeFeeSummer{total: 150000}
	cacheRepo := newCacheRepoMock()

	svc := NewDashboardService(DashboardServiceParams{
		Students: repo,
		Fees:     fees,
		Cache:    NewCacheService(cacheRepo, nil, time.Minute, nil, true),
		Config:   DashboardServiceConfig{TotalBeds: 4},
	})
	svc.now = func() time.Time { return time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC) }

	stats, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(2), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.PendingAdmissions)
	assert.Equal(t, models.HostelOccupancy{Occupied: 1, Capacity: 4, Rate: 25}, stats.HostelOccupancy)
	assert.Equal(t, "₹1.5L", stats.FeesCollected)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), fees.from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), fees.to)

	again, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stats.TotalStudents, again.TotalStudents)
	assert.Equal(t, 1, fees.calls)
}

func TestDashboardStatsPropagatesErrors(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Students: newStudentRepoMock(), Fees: &fakeFeeSummer{err: errors.New("boom")}})
	_, _, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestLakhs(t *testing.T) {
	assert.Equal(t, "₹0L", lakhs("₹", 0))
	assert.Equal(t, "₹0.5L", lakhs("₹", 50000))
}
