package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
)

func newHostelFixture() (*HostelService, *studentRepoMock, *notifierMock, *cacheRepoMock) {
	repo := newStudentRepoMock()
	notifier := newNotifierMock()
	cacheRepo := newCacheRepoMock()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewHostelService(repo, notifier, cache, nil, HostelServiceConfig{}, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo, notifier, cacheRepo
}

func activeAt(roomType models.RoomType, room string) models.Hostel {
	return models.Hostel{Applied: true, Allocation: &models.HostelAllocation{RoomType: roomType, RoomNumber: room, Status: models.AllocationActive}}
}

func TestHostelStatsCountsDistinctRooms(t *testing.T) {
	svc, repo, _, cacheRepo := newHostelFixture()
	repo.put(&models.Student{Email: "a@x.io", Hostel: activeAt(models.RoomDouble, "201")})
	repo.put(&models.Student{Email: "b@x.io", Hostel: activeAt(models.RoomDouble, "201")})
	repo.put(&models.Student{Email: "c@x.io", Hostel: activeAt(models.RoomSingle, "101")})
	inactive := activeAt(models.RoomTriple, "301")
	inactive.Allocation.Status = models.AllocationInactive
	repo.put(&models.Student{Email: "d@x.io", Hostel: inactive})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.RoomOccupancy{
		{Type: models.RoomSingle, Total: 100, Filled: 1, Empty: 99},
		{Type: models.RoomDouble, Total: 100, Filled: 1, Empty: 99},
		{Type: models.RoomTriple, Total: 100, Filled: 0, Empty: 100},
	}, stats)
	assert.True(t, cacheRepo.has(cacheKeyHostelStats))
}

func TestHostelStatsFilledPlusEmptyIsTotalWhenOverAllocated(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	svc.cfg.Capacity = map[models.RoomType]int{models.RoomSingle: 1}
	repo.put(&models.Student{Email: "a@x.io", Hostel: activeAt(models.RoomSingle, "101")})
	repo.put(&models.Student{Email: "b@x.io", Hostel: activeAt(models.RoomSingle, "102")})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupancy{Type: models.RoomSingle, Total: 1, Filled: 2, Empty: -1}, stats[0])
	for _, row := range stats {
		assert.Equal(t, row.Total, row.Filled+row.Empty, row.Type)
	}
}

func TestHostelAllocatePersistsPendingEmail(t *testing.T) {
	svc, repo, notifier, cacheRepo := newHostelFixture()
	s := repo.put(&models.Student{Email: "asha@x.io", Hostel: models.Hostel{Allocation: &models.HostelAllocation{Status: models.AllocationPending}}})
	require.NoError(t, cacheRepo.Set(context.Background(), cacheKeyHostelStats, []int{1}, 0))

	alloc, err := svc.Allocate(context.Background(), AllocateRoomRequest{Email: "ASHA@x.io", RoomType: models.RoomSingle, RoomNumber: " 101 "})
	require.NoError(t, err)
	assert.Equal(t, "₹10,000", alloc.MonthlyRent)
	assert.Equal(t, "Main", alloc.Block)
	assert.Equal(t, "101", alloc.RoomNumber)
	assert.Equal(t, models.EmailStatusPending, alloc.Email.Status)

	stored := repo.get(s.ID)
	assert.Equal(t, models.AllocationActive, stored.Hostel.Allocation.Status)
	assert.Equal(t, models.EmailStatusPending, stored.Hostel.Allocation.Email.Status)
	assert.Equal(t, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), *stored.Hostel.Allocation.CheckInDate)
	assert.Equal(t, []primitive.ObjectID{s.ID}, notifier.allocations)
	assert.False(t, cacheRepo.has(cacheKeyHostelStats))
}

func TestHostelAllocateSurvivesQueueFailure(t *testing.T) {
	svc, repo, notifier, _ := newHostelFixture()
	notifier.reject = true
	repo.put(&models.Student{Email: "asha@x.io"})

	alloc, err := svc.Allocate(context.Background(), AllocateRoomRequest{Email: "asha@x.io", RoomType: models.RoomTriple, RoomNumber: "301", Block: "East"})
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusFailed, alloc.Email.Status)
	assert.Equal(t, "₹6,000", alloc.MonthlyRent)
	assert.Equal(t, "East", alloc.Block)
}

func TestHostelAllocateValidation(t *testing.T) {
	svc, _, _, _ := newHostelFixture()
	_, err := svc.Allocate(context.Background(), AllocateRoomRequest{Email: "a@x.io", RoomType: "Suite", RoomNumber: "1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Allocate(context.Background(), AllocateRoomRequest{Email: "ghost@x.io", RoomType: models.RoomSingle, RoomNumber: "1"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestHostelAllocateRejectsStaleVersion(t *testing.T) {
	svc, repo, notifier, _ := newHostelFixture()
	repo.put(&models.Student{Email: "asha@x.io", Version: 5})
	stale := int64(4)

	_, err := svc.Allocate(context.Background(), AllocateRoomRequest{Email: "asha@x.io", RoomType: models.RoomSingle, RoomNumber: "1", Version: &stale})
	assert.True(t, errors.Is(err, appErrors.ErrStaleWrite))
	assert.Empty(t, notifier.allocations)
	assert.Equal(t, 0, repo.updates)
}

func TestHostelVacate(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	s := repo.put(&models.Student{Email: "asha@x.io", Hostel: activeAt(models.RoomDouble, "201")})

	alloc, err := svc.Vacate(context.Background(), VacateRoomRequest{Email: "asha@x.io"})
	require.NoError(t, err)
	assert.Equal(t, models.AllocationInactive, alloc.Status)
	require.NotNil(t, repo.get(s.ID).Hostel.Allocation.ExpectedCheckOut)

	_, err = svc.Vacate(context.Background(), VacateRoomRequest{Email: "asha@x.io"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestHostelApplyIsIdempotent(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	s := repo.put(&models.Student{Email: "asha@x.io"})

	first, err := svc.Apply(context.Background(), ApplyHostelRequest{Email: "asha@x.io"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyApplied)
	assert.Equal(t, models.RoomDouble, first.Hostel.Application.Preferences.RoomType)
	assert.Equal(t, models.AllocationPending, first.Hostel.AllocationStatus())

	var req ApplyHostelRequest
	req.Email = "asha@x.io"
	req.Preferences.RoomType = models.RoomSingle
	second, err := svc.Apply(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.AlreadyApplied)
	assert.Equal(t, models.RoomDouble, second.Hostel.Application.Preferences.RoomType)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, models.RoomDouble, repo.get(s.ID).Hostel.Application.Preferences.RoomType)
}

func TestHostelApplyKeepsActiveAllocation(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	h := activeAt(models.RoomSingle, "101")
	h.Applied = false
	s := repo.put(&models.Student{Email: "asha@x.io", Hostel: h})

	_, err := svc.Apply(context.Background(), ApplyHostelRequest{Email: "asha@x.io"})
	require.NoError(t, err)
	assert.Equal(t, models.AllocationActive, repo.get(s.ID).Hostel.AllocationStatus())
}

func TestHostelInfoListsRoommates(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	repo.put(&models.Student{FirstName: "Asha", Email: "asha@x.io", Hostel: activeAt(models.RoomDouble, "201")})
	repo.put(&models.Student{FirstName: "Bina", Email: "bina@x.io", AcademicInfo: models.AcademicInfo{Course: "Physics"}, Hostel: activeAt(models.RoomDouble, "201")})
	repo.put(&models.Student{FirstName: "Chen", Email: "chen@x.io", Hostel: activeAt(models.RoomDouble, "202")})

	info, err := svc.Info(context.Background(), "asha@x.io")
	require.NoError(t, err)
	assert.Equal(t, []models.Roommate{{FirstName: "Bina", Email: "bina@x.io", Course: "Physics"}}, info.Roommates)
}

func TestHostelListApplications(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	repo.put(&models.Student{FirstName: "Asha", Email: "asha@x.io", Hostel: activeAt(models.RoomDouble, "201")})
	repo.put(&models.Student{FirstName: "Nope", Email: "nope@x.io"})

	views, err := svc.ListApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.AllocationActive, views[0].AllocationStatus)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹10,000", formatMoney("₹", 10000))
	assert.Equal(t, "₹800", formatMoney("₹", 800))
	assert.Equal(t, "$1,234,567", formatMoney("$", 1234567))
	assert.Equal(t, "-₹1,000", formatMoney("₹", -1000))
}

func TestHostelAllocateAfterCredentialEmailSent(t *testing.T) {
	admissions, repo, _, notifier := newAdmissionFixture()
	s := repo.put(&models.Student{FirstName: "Asha", Email: "asha@x.io", AdmissionStatus: models.AdmissionPending})

	decision, err := admissions.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionApproved})
	require.NoError(t, err)
	password := notifier.credentials[s.ID]
	require.NotEmpty(t, password)

	sender := &senderMock{}
	worker := NewEmailWorker(repo, sender, EmailWorkerConfig{MaxRetries: 3}, nil, nil)
	job := jobs.Job{ID: "credentials-1", Attempt: 1, Payload: EmailJob{Kind: models.EmailKindCredentials, StudentID: s.ID, Password: password}}
	require.NoError(t, worker.Handle(context.Background(), job))
	require.Len(t, sender.sent, 1)

	hostel := NewHostelService(repo, newNotifierMock(), NewCacheService(newCacheRepoMock(), nil, time.Minute, nil, true), nil, HostelServiceConfig{}, nil, nil)
	version := decision.Version
	alloc, err := hostel.Allocate(context.Background(), AllocateRoomRequest{Email: "asha@x.io", RoomType: models.RoomSingle, RoomNumber: "101", Version: &version})
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusPending, alloc.Email.Status)

	stored := repo.get(s.ID)
	assert.Equal(t, decision.Version+1, stored.Version)
	assert.Equal(t, "hash:"+password, stored.PasswordHash)
	require.NotNil(t, stored.CredentialEmail)
	assert.Equal(t, models.EmailStatusSent, stored.CredentialEmail.Status)
	assert.Equal(t, 1, stored.CredentialEmail.Attempts)
	assert.Equal(t, models.EmailStatusPending, stored.Hostel.Allocation.Email.Status)
}

func TestHostelVacateKeepsAllocationEmailState(t *testing.T) {
	svc, repo, _, _ := newHostelFixture()
	hostel := activeAt(models.RoomDouble, "201")
	hostel.Allocation.Email = models.PendingDelivery()
	s := repo.put(&models.Student{Email: "asha@x.io", Hostel: hostel})

	loaded, err := repo.FindByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.NoError(t, repo.RecordEmailAttempt(context.Background(), models.EmailKindAllocation, s.ID, models.EmailStatusSent, nil, time.Now()))

	version := loaded.Version
	_, err = svc.Vacate(context.Background(), VacateRoomRequest{Email: "asha@x.io", Version: &version})
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusSent, repo.get(s.ID).Hostel.Allocation.Email.Status)
}
