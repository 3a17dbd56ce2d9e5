package repository

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type JobRepo interface {
	GetJobById(ctx context.Context, id uint64) (*model.JobPosting, error)
	GetJobsByCompany(ctx context.Context, companyID uint64, offset, limit int) ([]*model.JobPosting, error)
	CreateJob(ctx context.Context, job *model.JobPosting) error
	UpdateJob(ctx context.Context, job *model.JobPosting) error
	UpdateJobStatus(ctx context.Context, id uint64, status int, rejectNote *string) (int64, error)
	PublishJob(ctx context.Context, id uint64, at time.Time) error
	DeleteJob(ctx context.Context, id uint64) error

	CreateApplication(ctx context.Context, app *model.JobApplication) error
	GetApplication(ctx context.Context, jobID, accountID uint64) (*model.JobApplication, error)
	GetApplicationsByJob(ctx context.Context, jobID uint64, offset, limit int) ([]*model.JobApplication, error)
	GetApplicationsByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id uint64, status int) error
}

type JobRepoImpl struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepo {
	return &JobRepoImpl{db: db}
}

func (s *JobRepoImpl) GetJobById(ctx context.Context, id uint64) (*model.JobPosting, error) {
	job := &model.JobPosting{}
	result := s.db.WithContext(ctx).First(job, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return job, nil
}

func (s *JobRepoImpl) GetJobsByCompany(ctx context.Context, companyID uint64, offset, limit int) ([]*model.JobPosting, error) {
	jobs := make([]*model.JobPosting, 0)
	result := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobRepoImpl) CreateJob(ctx context.Context, job *model.JobPosting) error {
	return s.db.WithContext(ctx).Create(job).Error
}

// UpdateJob 每次内容变更都递增 version，供搜索索引做外部版本控制
func (s *JobRepoImpl) UpdateJob(ctx context.Context, job *model.JobPosting) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Model(&model.JobPosting{}).Where("id = ?", job.ID).Updates(job); result.Error != nil {
			return result.Error
		}
		return tx.Model(&model.JobPosting{}).
			Where("id = ?", job.ID).
			Update("version", gorm.Expr("version + 1")).Error
	})
}

func (s *JobRepoImpl) UpdateJobStatus(ctx context.Context, id uint64, status int, rejectNote *string) (int64, error) {
	updates := map[string]interface{}{
		"status":  status,
		"version": gorm.Expr("version + 1"),
	}
	if rejectNote != nil {
		updates["reject_note"] = *rejectNote
	}

	result := s.db.WithContext(ctx).
		Model(&model.JobPosting{}).
		Where("id = ?", id).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (s *JobRepoImpl) PublishJob(ctx context.Context, id uint64, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.JobPosting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       consts.JobStatusOpen,
			"published_at": at,
			"version":      gorm.Expr("version + 1"),
		}).Error
}

func (s *JobRepoImpl) DeleteJob(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.JobPosting{}, id).Error
}

func (s *JobRepoImpl) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *JobRepoImpl) GetApplication(ctx context.Context, jobID, accountID uint64) (*model.JobApplication, error) {
	app := &model.JobApplication{}
	result := s.db.WithContext(ctx).
		Where("job_id = ? AND account_id = ?", jobID, accountID).
		First(app)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return app, nil
}

func (s *JobRepoImpl) GetApplicationsByJob(ctx context.Context, jobID uint64, offset, limit int) ([]*model.JobApplication, error) {
	apps := make([]*model.JobApplication, 0)
	result := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps)
	if result.Error != nil {
		return nil, result.Error
	}
	return apps, nil
}

func (s *JobRepoImpl) GetApplicationsByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.JobApplication, error) {
	apps := make([]*model.JobApplication, 0)
	result := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps)
	if result.Error != nil {
		return nil, result.Error
	}
	return apps, nil
}

func (s *JobRepoImpl) UpdateApplicationStatus(ctx context.Context, id uint64, status int) error {
	return s.db.WithContext(ctx).
		Model(&model.JobApplication{}).
		Where("id = ?", id).
		Update("status", status).Error
}
