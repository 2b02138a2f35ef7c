package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
)

// EmailJob is the payload of a queued email. Password is only set for
// credential emails and only ever lives in memory.
type EmailJob struct {
	Kind      models.EmailKind
	StudentID primitive.ObjectID
	Password  string
}

type emailQueue interface {
	Enqueue(job jobs.Job) error
}

type notificationStore interface {
	ListFailedEmails(ctx context.Context, maxAttempts int) ([]models.PendingEmail, error)
	SetEmailStatus(ctx context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, lastError string) error
	ResetCredentials(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// RetrySummary reports one sweep over failed deliveries.
type RetrySummary struct {
	Found  int `json:"found"`
	Queued int `json:"queued"`
	Failed int `json:"failed"`
}

// NotificationService puts outbound emails on the queue and re-arms failed
// deliveries.
type NotificationService struct {
	queue       emailQueue
	store       notificationStore
	hash        passwordHasher
	maxAttempts int
	logger      *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(queue emailQueue, store notificationStore, maxAttempts int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &NotificationService{queue: queue, store: store, hash: bcryptHash, maxAttempts: maxAttempts, logger: logger}
}

// QueueCredentials enqueues the approval credentials email and reports
// whether it was accepted. An enqueue failure is recorded on the student
// and never returned.
func (s *NotificationService) QueueCredentials(ctx context.Context, studentID primitive.ObjectID, password string) bool {
	return s.enqueue(ctx, EmailJob{Kind: models.EmailKindCredentials, StudentID: studentID, Password: password})
}

// QueueAllocation enqueues the hostel allocation email.
func (s *NotificationService) QueueAllocation(ctx context.Context, studentID primitive.ObjectID) bool {
	return s.enqueue(ctx, EmailJob{Kind: models.EmailKindAllocation, StudentID: studentID})
}

func (s *NotificationService) enqueue(ctx context.Context, payload EmailJob) bool {
	job := jobs.Job{
		ID:      fmt.Sprintf("%s:%s", payload.Kind, payload.StudentID.Hex()),
		Type:    string(payload.Kind),
		Payload: payload,
	}
	err := s.queue.Enqueue(job)
	if err == nil {
		return true
	}
	s.logger.Error("failed to enqueue email",
		zap.String("kind", string(payload.Kind)),
		zap.String("student_id", payload.StudentID.Hex()),
		zap.Error(err))
	if markErr := s.store.SetEmailStatus(ctx, payload.Kind, payload.StudentID, models.EmailStatusFailed, err.Error()); markErr != nil {
		s.logger.Error("failed to record email enqueue failure", zap.String("student_id", payload.StudentID.Hex()), zap.Error(markErr))
	}
	return false
}

// RetryFailed re-enqueues failed deliveries that have attempts left. A
// credential email gets a fresh temporary password because the original
// plaintext was never stored.
func (s *NotificationService) RetryFailed(ctx context.Context) (*RetrySummary, error) {
	pending, err := s.store.ListFailedEmails(ctx, s.maxAttempts)
	if err != nil {
		return nil, internalError(err, "failed to load failed emails")
	}
	summary := &RetrySummary{Found: len(pending)}
	for _, p := range pending {
		id, err := primitive.ObjectIDFromHex(p.StudentID)
		if err != nil {
			summary.Failed++
			continue
		}
		payload := EmailJob{Kind: p.Kind, StudentID: id}
		if p.Kind == models.EmailKindCredentials {
			password, err := s.rearmCredentials(ctx, id)
			if err != nil {
				s.logger.Error("failed to re-issue credentials", zap.String("student_id", p.StudentID), zap.Error(err))
				summary.Failed++
				continue
			}
			payload.Password = password
		} else if err := s.store.SetEmailStatus(ctx, p.Kind, id, models.EmailStatusPending, ""); err != nil {
			s.logger.Error("failed to re-arm email", zap.String("student_id", p.StudentID), zap.Error(err))
			summary.Failed++
			continue
		}
		if s.enqueue(ctx, payload) {
			summary.Queued++
		} else {
			summary.Failed++
		}
	}
	if summary.Found > 0 {
		s.logger.Info("email retry sweep finished",
			zap.Int("found", summary.Found), zap.Int("queued", summary.Queued), zap.Int("failed", summary.Failed))
	}
	return summary, nil
}

func (s *NotificationService) rearmCredentials(ctx context.Context, id primitive.ObjectID) (string, error) {
	password, err := generateTempPassword()
	if err != nil {
		return "", err
	}
	hash, err := s.hash(password)
	if err != nil {
		return "", err
	}
	if err := s.store.ResetCredentials(ctx, id, hash); err != nil {
		return "", err
	}
	return password, nil
}
