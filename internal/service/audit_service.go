package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
)

type auditStore interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditService appends and reads the staff audit trail. With no store the
// trail is disabled and every call is a no-op.
type AuditService struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditService constructs the audit service; store may be nil.
func NewAuditService(store auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: store, logger: logger}
}

// Enabled reports whether entries are persisted.
func (s *AuditService) Enabled() bool {
	return s != nil && s.store != nil
}

// Record stores entry. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) {
	if !s.Enabled() {
		return
	}
	if err := s.store.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log", zap.String("action", entry.Action), zap.String("request_id", entry.RequestID), zap.Error(err))
	}
}

// List returns the newest entries matching filter.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if !s.Enabled() {
		return []models.AuditLog{}, nil
	}
	logs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load audit logs")
	}
	return logs, nil
}
