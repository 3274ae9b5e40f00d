package service

import (
	"context"

	"salesboard/internal/model"
	"salesboard/internal/repository"
)

type AuditService interface {
	GetAuditLogs(ctx context.Context, page, limit int) ([]model.ReportAudit, int64, error)
}

type auditService struct {
	auditRepo repository.ReportAuditRepository
}

func NewAuditService(auditRepo repository.ReportAuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs returns one page of audit entries, newest first, plus the
// total count for pagination.
func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]model.ReportAudit, int64, error) {
	return s.auditRepo.List(ctx, page, limit)
}
