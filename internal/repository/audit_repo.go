package repository

import (
	"context"

	"salesboard/internal/model"

	"gorm.io/gorm"
)

type ReportAuditRepository interface {
	Log(ctx context.Context, entry *model.ReportAudit) error
	List(ctx context.Context, page, limit int) ([]model.ReportAudit, int64, error)
}

type reportAuditRepository struct {
	db *gorm.DB
}

func NewReportAuditRepository(db *gorm.DB) ReportAuditRepository {
	return &reportAuditRepository{db: db}
}

func (r *reportAuditRepository) Log(ctx context.Context, entry *model.ReportAudit) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *reportAuditRepository) List(ctx context.Context, page, limit int) ([]model.ReportAudit, int64, error) {
	var entries []model.ReportAudit
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ReportAudit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
