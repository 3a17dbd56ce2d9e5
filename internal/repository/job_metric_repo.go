package repository

import (
	"StartLinker/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobMetricRepo interface {
	SaveOrUpdateMetric(ctx context.Context, metric *model.JobMetric) error
	IncrApplyCount(ctx context.Context, jobID uint64, date time.Time) error
	GetJobMetricsBy7Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error)
	GetJobMetricsBy30Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error)
}

type jobMetricRepoImpl struct {
	db *gorm.DB
}

func NewJobMetricRepository(db *gorm.DB) JobMetricRepo {
	return &jobMetricRepoImpl{db: db}
}

func (s *jobMetricRepoImpl) SaveOrUpdateMetric(ctx context.Context, metric *model.JobMetric) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"view_count", "updated_at"}),
	}).Create(metric).Error
}

func (s *jobMetricRepoImpl) IncrApplyCount(ctx context.Context, jobID uint64, date time.Time) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}, {Name: "metric_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"apply_count": gorm.Expr("apply_count + 1"),
		}),
	}).Create(&model.JobMetric{
		JobID:      jobID,
		MetricDate: date,
		ApplyCount: 1,
	}).Error
}

func (s *jobMetricRepoImpl) GetJobMetricsBy7Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	metrics := make([]*model.JobMetric, 0)
	result := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Where("metric_date >= ?", time.Now().AddDate(0, 0, -7)).
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}

func (s *jobMetricRepoImpl) GetJobMetricsBy30Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	metrics := make([]*model.JobMetric, 0)
	result := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Where("metric_date >= ?", time.Now().AddDate(0, 0, -30)).
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}
