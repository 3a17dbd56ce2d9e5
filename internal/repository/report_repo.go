package repository

import (
	"StartLinker/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ReportRepo interface {
	CreateReport(ctx context.Context, report *model.Report) error
	GetReportById(ctx context.Context, id uint64) (*model.Report, error)
	GetPendingReports(ctx context.Context, offset, limit int) ([]*model.Report, error)
	UpdateReportStatus(ctx context.Context, id uint64, status int, handlerID uint64) (int64, error)
	CountPendingByTarget(ctx context.Context, targetType int, targetID uint64) (int64, error)
}

type ReportRepoImpl struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &ReportRepoImpl{db: db}
}

func (s *ReportRepoImpl) CreateReport(ctx context.Context, report *model.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *ReportRepoImpl) GetReportById(ctx context.Context, id uint64) (*model.Report, error) {
	report := &model.Report{}
	result := s.db.WithContext(ctx).First(report, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return report, nil
}

func (s *ReportRepoImpl) GetPendingReports(ctx context.Context, offset, limit int) ([]*model.Report, error) {
	reports := make([]*model.Report, 0)
	result := s.db.WithContext(ctx).
		Where("status = 0").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}

func (s *ReportRepoImpl) UpdateReportStatus(ctx context.Context, id uint64, status int, handlerID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ? AND status = 0", id).
		Updates(map[string]interface{}{
			"status":     status,
			"handler_id": handlerID,
		})
	return result.RowsAffected, result.Error
}

func (s *ReportRepoImpl) CountPendingByTarget(ctx context.Context, targetType int, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("target_type = ? AND target_id = ? AND status = 0", targetType, targetID).
		Count(&count).Error
	return count, err
}
