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
)

func newAdmissionFixture() (*AdmissionService, *studentRepoMock, *documentsMock, *notifierMock) {
	repo := newStudentRepoMock()
	docs := &documentsMock{stored: &models.Documents{IDProof: "admissions/20240101-x-id.pdf"}}
	notifier := newNotifierMock()
	svc := NewAdmissionService(repo, docs, notifier, nil, nil, nil, nil)
	svc.hash = func(p string) (string, error) { return "hash:" + p, nil }
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, docs, notifier
}

func validSubmission() SubmitAdmissionRequest {
	return SubmitAdmissionRequest{
		FirstName:        "Asha",
		LastName:         "Rao",
		Email:            "  Asha.Rao@Example.com ",
		Phone:            "+911234567890",
		DateOfBirth:      "2004-05-06",
		Gender:           "Female",
		Nationality:      "Indian",
		Address:          `{"street":"1 Main St","city":"Pune","state":"MH","zipCode":"411001","country":"India"}`,
		AcademicInfo:     `{"course":"Computer Science","semester":"1","previousEducation":{"institution":"DPS","qualification":"HSC","yearOfPassing":2022,"percentage":88.5}}`,
		EmergencyContact: `{"name":"Ravi Rao","relationship":"Father","phone":"+919876543210"}`,
	}
}

func TestAdmissionSubmitCreatesPendingApplication(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	uploads := map[string][]UploadedFile{SlotIDProof: {{Filename: "id.pdf"}}}

	res, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionPending, res.AdmissionStatus)

	stored := repo.get(res.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "asha.rao@example.com", stored.Email)
	assert.Equal(t, "Computer Science", stored.AcademicInfo.Course)
	assert.Equal(t, "admissions/20240101-x-id.pdf", stored.Documents.IDProof)
	assert.Equal(t, time.Date(2004, 5, 6, 0, 0, 0, 0, time.UTC), stored.DateOfBirth)
}

func TestAdmissionSubmitRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	repo.put(&models.Student{Email: "asha.rao@example.com"})

	_, err := svc.Submit(context.Background(), validSubmission(), nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
	assert.Equal(t, "Student with this email already exists", appErr.Message)
}

func TestAdmissionSubmitValidation(t *testing.T) {
	svc, _, _, _ := newAdmissionFixture()

	cases := map[string]func(r *SubmitAdmissionRequest){
		"short name":      func(r *SubmitAdmissionRequest) { r.FirstName = "A" },
		"bad email":       func(r *SubmitAdmissionRequest) { r.Email = "nope" },
		"too young":       func(r *SubmitAdmissionRequest) { r.DateOfBirth = time.Now().Format("2006-01-02") },
		"bad gender":      func(r *SubmitAdmissionRequest) { r.Gender = "Unknown" },
		"address json":    func(r *SubmitAdmissionRequest) { r.Address = "{" },
		"missing city":    func(r *SubmitAdmissionRequest) { r.Address = `{"street":"x","state":"y","zipCode":"1","country":"z"}` },
		"percentage":      func(r *SubmitAdmissionRequest) { r.AcademicInfo = `{"course":"CS","semester":"1","previousEducation":{"institution":"DPS","qualification":"HSC","yearOfPassing":2022,"percentage":101}}` },
		"no prior education": func(r *SubmitAdmissionRequest) {
			r.AcademicInfo = `{"course":"CS","semester":"1"}`
		},
		"empty prior education": func(r *SubmitAdmissionRequest) {
			r.AcademicInfo = `{"course":"CS","semester":"1","previousEducation":{}}`
		},
		"only percentage": func(r *SubmitAdmissionRequest) {
			r.AcademicInfo = `{"course":"CS","semester":"1","previousEducation":{"percentage":70}}`
		},
		"missing percentage": func(r *SubmitAdmissionRequest) {
			r.AcademicInfo = `{"course":"CS","semester":"1","previousEducation":{"institution":"DPS","qualification":"HSC","yearOfPassing":2022}}`
		},
		"contact missing": func(r *SubmitAdmissionRequest) { r.EmergencyContact = `{"name":"x"}` },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validSubmission()
			mutate(&req)
			_, err := svc.Submit(context.Background(), req, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation), err.Error())
		})
	}
}

func TestAdmissionSubmitAcceptsZeroPercentage(t *testing.T) {
	svc, _, _, _ := newAdmissionFixture()
	req := validSubmission()
	req.AcademicInfo = `{"course":"CS","semester":"1","previousEducation":{"institution":"DPS","qualification":"HSC","yearOfPassing":2022,"percentage":0}}`

	_, err := svc.Submit(context.Background(), req, nil)
	require.NoError(t, err)
}

func TestAdmissionSubmitRemovesFilesWhenInsertFails(t *testing.T) {
	svc, repo, docs, _ := newAdmissionFixture()
	svc.repo = &failingCreateRepo{studentRepoMock: repo}

	_, err := svc.Submit(context.Background(), validSubmission(), map[string][]UploadedFile{SlotIDProof: {{Filename: "id.pdf"}}})
	require.Error(t, err)
	assert.Equal(t, []string{"admissions/20240101-x-id.pdf"}, docs.removed)
}

type failingCreateRepo struct {
	*studentRepoMock
}

func (f *failingCreateRepo) Create(context.Context, *models.Student) error {
	return errors.New("write concern timeout")
}

func TestAdmissionApproveAssignsIDAndQueuesCredentials(t *testing.T) {
	svc, repo, _, notifier := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionUnderReview})

	res, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionApproved})
	require.NoError(t, err)
	assert.True(t, models.IsStudentID(res.StudentID), res.StudentID)
	assert.Equal(t, "STU2025", res.StudentID[:7])
	require.NotNil(t, res.ApprovedAt)
	assert.Equal(t, int64(2), res.Version)
	assert.Equal(t, models.EmailStatusPending, res.CredentialEmail.Status)

	password := notifier.credentials[s.ID]
	require.Len(t, password, tempPasswordLength)
	assert.Equal(t, "hash:"+password, repo.get(s.ID).PasswordHash)

	// A repeated approval keeps the id and sends nothing new.
	delete(notifier.credentials, s.ID)
	again, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionApproved})
	require.NoError(t, err)
	assert.Equal(t, res.StudentID, again.StudentID)
	assert.Empty(t, notifier.credentials)
}

func TestAdmissionApproveUsesSuppliedPassword(t *testing.T) {
	svc, repo, _, notifier := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionPending})

	_, err := svc.Approve(context.Background(), s.ID.Hex(), ApproveAdmissionRequest{Password: "welcome-2025"})
	require.NoError(t, err)
	assert.Equal(t, "welcome-2025", notifier.credentials[s.ID])
	assert.Equal(t, "hash:welcome-2025", repo.get(s.ID).PasswordHash)
}

func TestAdmissionApproveRetriesOnStudentIDCollision(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionPending})
	collide := &collidingRepo{studentRepoMock: repo, collisions: 2}
	svc.repo = collide

	res, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionApproved})
	require.NoError(t, err)
	assert.Equal(t, 3, collide.calls)
	assert.NotEmpty(t, res.StudentID)
}

type collidingRepo struct {
	*studentRepoMock
	collisions int
	calls      int
}

func (c *collidingRepo) Update(ctx context.Context, s *models.Student, arm ...models.EmailKind) error {
	c.calls++
	if c.calls <= c.collisions {
		return appErrors.Clone(appErrors.ErrDuplicate, "student identifier already in use")
	}
	return c.studentRepoMock.Update(ctx, s, arm...)
}

func TestAdmissionRejectsIllegalTransition(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionApproved, StudentID: "STU20250001"})

	_, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionPending})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	assert.Equal(t, models.AdmissionApproved, repo.get(s.ID).AdmissionStatus)
}

func TestAdmissionRejectsUnknownStatus(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionPending})

	_, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: "Waitlisted"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAdmissionStaleVersionWritesNothing(t *testing.T) {
	svc, repo, _, notifier := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", AdmissionStatus: models.AdmissionPending, Version: 4})
	stale := int64(3)

	_, err := svc.UpdateStatus(context.Background(), s.ID.Hex(), UpdateAdmissionStatusRequest{Status: models.AdmissionApproved, Version: &stale})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStaleWrite))
	assert.Equal(t, 0, repo.updates)
	assert.Empty(t, notifier.credentials)
}

func TestAdmissionGetMalformedIDIsNotFound(t *testing.T) {
	svc, _, _, _ := newAdmissionFixture()
	_, err := svc.Get(context.Background(), "not-an-id")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAdmissionListPaginates(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		repo.put(&models.Student{Email: primitive.NewObjectID().Hex() + "@x.io", AdmissionStatus: models.AdmissionPending, SubmittedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	students, page, err := svc.List(context.Background(), models.StudentFilter{PageRequest: models.PageRequest{Page: 2}})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, &models.Pagination{CurrentPage: 2, TotalPages: 2, TotalItems: 12, Limit: 10, HasNext: false, HasPrev: true}, page)
}

func TestAdmissionStatusByEmail(t *testing.T) {
	svc, repo, _, _ := newAdmissionFixture()
	repo.put(&models.Student{FirstName: "Asha", Email: "asha@example.com", AdmissionStatus: models.AdmissionRejected})

	view, err := svc.StatusByEmail(context.Background(), "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionRejected, view.AdmissionStatus)

	_, err = svc.StatusByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAdmissionDeleteRemovesFiles(t *testing.T) {
	svc, repo, docs, _ := newAdmissionFixture()
	s := repo.put(&models.Student{Email: "a@example.com", Documents: &models.Documents{ProfilePhoto: "admissions/p.jpg", OtherDocuments: []string{"admissions/o.pdf"}}})

	require.NoError(t, svc.Delete(context.Background(), s.ID.Hex()))
	assert.Nil(t, repo.get(s.ID))
	assert.Equal(t, []string{"admissions/p.jpg", "admissions/o.pdf"}, docs.removed)

	assert.True(t, errors.Is(svc.Delete(context.Background(), s.ID.Hex()), appErrors.ErrNotFound))
}

func TestAdmissionScreeningIncludesLinks(t *testing.T) {
	svc, repo, docs, _ := newAdmissionFixture()
	docs.links = []DocumentLink{{Slot: SlotIDProof, Path: "admissions/id.pdf", URL: "/api/documents/download?token=t"}}
	s := repo.put(&models.Student{Email: "a@example.com"})

	view, err := svc.Screening(context.Background(), s.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, s.ID, view.Application.ID)
	assert.Len(t, view.Documents, 1)
}
