package service

import (
	"context"

	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	// Log records an action against a clinic inside the caller's transaction.
	Log(ctx context.Context, tx *gorm.DB, clinicID uuid.UUID, actor string, action string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Log(ctx context.Context, tx *gorm.DB, clinicID uuid.UUID, actor string, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		ClinicID: &clinicID,
		Actor:    actor,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
