package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/jobs"
	"github.com/noah-isme/college-admin-api/pkg/mailer"
)

const emailSendTimeout = 30 * time.Second

type emailDeliveryStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	RecordEmailAttempt(ctx context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, sendErr error, at time.Time) error
	SetEmailStatus(ctx context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, lastError string) error
}

// EmailWorkerConfig tunes message rendering and retry accounting.
type EmailWorkerConfig struct {
	PortalURL  string
	MaxRetries int
}

// EmailWorker renders and sends queued emails and records every attempt on
// the student document.
type EmailWorker struct {
	store   emailDeliveryStore
	sender  mailer.Sender
	cfg     EmailWorkerConfig
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEmailWorker constructs a worker.
func NewEmailWorker(store emailDeliveryStore, sender mailer.Sender, cfg EmailWorkerConfig, metrics *MetricsService, logger *zap.Logger) *EmailWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailWorker{store: store, sender: sender, cfg: cfg, metrics: metrics, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Handle processes one email job. A returned error asks the queue to retry.
func (w *EmailWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(EmailJob)
	if !ok {
		w.logger.Error("dropping email job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	log := w.logger.With(zap.String("kind", string(payload.Kind)), zap.String("student_id", payload.StudentID.Hex()), zap.Int("attempt", job.Attempt))

	student, err := w.store.FindByID(ctx, payload.StudentID)
	if err != nil {
		if isMissing(err) {
			log.Warn("dropping email for missing student")
			return nil
		}
		return err
	}

	msg, err := w.render(student, payload)
	if err != nil {
		log.Error("dropping unrenderable email", zap.Error(err))
		w.record(ctx, payload, models.EmailStatusFailed, err, log)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	sendErr := w.sender.Send(sendCtx, msg)
	cancel()

	switch {
	case sendErr == nil:
		w.metrics.RecordEmail(string(payload.Kind), "sent")
		w.record(ctx, payload, models.EmailStatusSent, nil, log)
		log.Info("email sent")
		return nil
	case job.Final(w.cfg.MaxRetries):
		w.metrics.RecordEmail(string(payload.Kind), "failed")
		w.record(ctx, payload, models.EmailStatusFailed, sendErr, log)
	default:
		w.metrics.RecordEmail(string(payload.Kind), "retry")
		w.record(ctx, payload, models.EmailStatusPending, sendErr, log)
	}
	return sendErr
}

// GiveUp marks the delivery failed once the queue stops retrying it.
func (w *EmailWorker) GiveUp(ctx context.Context, job jobs.Job, cause error) {
	payload, ok := job.Payload.(EmailJob)
	if !ok {
		return
	}
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}
	if err := w.store.SetEmailStatus(ctx, payload.Kind, payload.StudentID, models.EmailStatusFailed, lastError); err != nil && !isMissing(err) {
		w.logger.Error("failed to mark email failed", zap.String("student_id", payload.StudentID.Hex()), zap.Error(err))
	}
}

func (w *EmailWorker) record(ctx context.Context, payload EmailJob, status models.EmailStatus, sendErr error, log *zap.Logger) {
	if err := w.store.RecordEmailAttempt(context.WithoutCancel(ctx), payload.Kind, payload.StudentID, status, sendErr, w.now()); err != nil && !isMissing(err) {
		log.Error("failed to record email attempt", zap.Error(err))
	}
}

func (w *EmailWorker) render(student *models.Student, payload EmailJob) (mailer.Message, error) {
	switch payload.Kind {
	case models.EmailKindCredentials:
		if payload.Password == "" {
			return mailer.Message{}, errors.New("credential email without password")
		}
		return mailer.CredentialsMessage(student.Email, mailer.CredentialsData{
			FirstName: student.FirstName,
			Email:     student.Email,
			StudentID: student.StudentID,
			Password:  payload.Password,
			PortalURL: w.cfg.PortalURL,
		})
	case models.EmailKindAllocation:
		alloc := student.Hostel.Allocation
		if alloc == nil || alloc.Status != models.AllocationActive {
			return mailer.Message{}, errors.New("student has no active allocation")
		}
		checkIn := ""
		if alloc.CheckInDate != nil {
			checkIn = alloc.CheckInDate.Format("02 Jan 2006")
		}
		return mailer.AllocationMessage(student.Email, mailer.AllocationData{
			FirstName:   student.FirstName,
			RoomNumber:  alloc.RoomNumber,
			RoomType:    string(alloc.RoomType),
			Block:       alloc.Block,
			Floor:       alloc.Floor,
			MonthlyRent: alloc.MonthlyRent,
			CheckIn:     checkIn,
		})
	default:
		return mailer.Message{}, errors.New("unknown email kind " + string(payload.Kind))
	}
}
