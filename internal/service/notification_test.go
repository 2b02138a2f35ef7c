package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
	"github.com/noah-isme/college-admin-api/pkg/mailer"
)

type statusCall struct {
	kind   models.EmailKind
	id     primitive.ObjectID
	status models.EmailStatus
	errMsg string
}

type emailStoreMock struct {
	mu       sync.Mutex
	students map[primitive.ObjectID]*models.Student
	failed   []models.PendingEmail
	statuses []statusCall
	attempts []statusCall
	resets   map[primitive.ObjectID]string
}

func newEmailStoreMock() *emailStoreMock {
	return &emailStoreMock{students: map[primitive.ObjectID]*models.Student{}, resets: map[primitive.ObjectID]string{}}
}

func (m *emailStoreMock) FindByID(_ context.Context, id primitive.ObjectID) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *s
	return &clone, nil
}

func (m *emailStoreMock) RecordEmailAttempt(_ context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, sendErr error, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := statusCall{kind: kind, id: id, status: status}
	if sendErr != nil {
		call.errMsg = sendErr.Error()
	}
	m.attempts = append(m.attempts, call)
	return nil
}

func (m *emailStoreMock) SetEmailStatus(_ context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, statusCall{kind: kind, id: id, status: status, errMsg: lastError})
	return nil
}

func (m *emailStoreMock) ListFailedEmails(context.Context, int) ([]models.PendingEmail, error) {
	return m.failed, nil
}

func (m *emailStoreMock) ResetCredentials(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[id] = hash
	return nil
}

type queueMock struct {
	jobs []jobs.Job
	err  error
}

func (q *queueMock) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type senderMock struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *senderMock) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestNotificationQueuesCredentials(t *testing.T) {
	store := newEmailStoreMock()
	queue := &queueMock{}
	svc := NewNotificationService(queue, store, 5, nil)

	id := primitive.NewObjectID()
	svc.QueueCredentials(context.Background(), id, "secret")

	require.Len(t, queue.jobs, 1)
	payload := queue.jobs[0].Payload.(EmailJob)
	assert.Equal(t, models.EmailKindCredentials, payload.Kind)
	assert.Equal(t, "secret", payload.Password)
	assert.Empty(t, store.statuses)
}

func TestNotificationEnqueueFailureMarksFailed(t *testing.T) {
	store := newEmailStoreMock()
	svc := NewNotificationService(&queueMock{err: jobs.ErrQueueFull}, store, 5, nil)

	id := primitive.NewObjectID()
	svc.QueueAllocation(context.Background(), id)

	require.Len(t, store.statuses, 1)
	assert.Equal(t, models.EmailStatusFailed, store.statuses[0].status)
	assert.Equal(t, models.EmailKindAllocation, store.statuses[0].kind)
}

func TestRetryFailedReissuesCredentials(t *testing.T) {
	store := newEmailStoreMock()
	credID := primitive.NewObjectID()
	allocID := primitive.NewObjectID()
	store.failed = []models.PendingEmail{
		{Kind: models.EmailKindCredentials, StudentID: credID.Hex(), Attempts: 2},
		{Kind: models.EmailKindAllocation, StudentID: allocID.Hex(), Attempts: 1},
		{Kind: models.EmailKindAllocation, StudentID: "bogus"},
	}
	queue := &queueMock{}
	svc := NewNotificationService(queue, store, 5, nil)
	svc.hash = func(p string) (string, error) { return "hash:" + p, nil }

	summary, err := svc.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &RetrySummary{Found: 3, Queued: 2, Failed: 1}, summary)

	require.Len(t, queue.jobs, 2)
	cred := queue.jobs[0].Payload.(EmailJob)
	assert.Len(t, cred.Password, 12)
	assert.Equal(t, "hash:"+cred.Password, store.resets[credID])

	require.Len(t, store.statuses, 1)
	assert.Equal(t, models.EmailStatusPending, store.statuses[0].status)
	assert.Equal(t, allocID, store.statuses[0].id)
}

func activeStudent() *models.Student {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	return &models.Student{
		ID:        primitive.NewObjectID(),
		FirstName: "Asha",
		Email:     "asha@example.com",
		StudentID: "STU20240042",
		Hostel: models.Hostel{Allocation: &models.HostelAllocation{
			RoomNumber:  "101",
			RoomType:    models.RoomSingle,
			Block:       "Main",
			MonthlyRent: "₹10,000",
			Status:      models.AllocationActive,
			CheckInDate: &now,
		}},
	}
}

func TestEmailWorkerSendsAllocation(t *testing.T) {
	store := newEmailStoreMock()
	student := activeStudent()
	store.students[student.ID] = student
	sender := &senderMock{}
	worker := NewEmailWorker(store, sender, EmailWorkerConfig{MaxRetries: 2}, nil, nil)

	err := worker.Handle(context.Background(), jobs.Job{Payload: EmailJob{Kind: models.EmailKindAllocation, StudentID: student.ID}})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "asha@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].HTML, "01 Jul 2024")
	require.Len(t, store.attempts, 1)
	assert.Equal(t, models.EmailStatusSent, store.attempts[0].status)
}

func TestEmailWorkerRetriesThenFails(t *testing.T) {
	store := newEmailStoreMock()
	student := activeStudent()
	store.students[student.ID] = student
	sender := &senderMock{err: errors.New("connection refused")}
	worker := NewEmailWorker(store, sender, EmailWorkerConfig{MaxRetries: 1}, NewMetricsService(), nil)

	payload := EmailJob{Kind: models.EmailKindCredentials, StudentID: student.ID, Password: "pw"}
	err := worker.Handle(context.Background(), jobs.Job{Attempt: 0, Payload: payload})
	assert.Error(t, err)
	err = worker.Handle(context.Background(), jobs.Job{Attempt: 1, Payload: payload})
	assert.Error(t, err)

	require.Len(t, store.attempts, 2)
	assert.Equal(t, models.EmailStatusPending, store.attempts[0].status)
	assert.Equal(t, models.EmailStatusFailed, store.attempts[1].status)
	assert.Equal(t, "connection refused", store.attempts[1].errMsg)
}

func TestEmailWorkerDropsMissingStudent(t *testing.T) {
	store := newEmailStoreMock()
	sender := &senderMock{}
	worker := NewEmailWorker(store, sender, EmailWorkerConfig{}, nil, nil)

	err := worker.Handle(context.Background(), jobs.Job{Payload: EmailJob{Kind: models.EmailKindAllocation, StudentID: primitive.NewObjectID()}})
	assert.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.Empty(t, store.attempts)
}

func TestEmailWorkerGiveUpMarksFailed(t *testing.T) {
	store := newEmailStoreMock()
	worker := NewEmailWorker(store, &senderMock{}, EmailWorkerConfig{}, nil, nil)
	id := primitive.NewObjectID()

	worker.GiveUp(context.Background(), jobs.Job{Payload: EmailJob{Kind: models.EmailKindAllocation, StudentID: id}}, errors.New("boom"))

	require.Len(t, store.statuses, 1)
	assert.Equal(t, statusCall{kind: models.EmailKindAllocation, id: id, status: models.EmailStatusFailed, errMsg: "boom"}, store.statuses[0])
}
