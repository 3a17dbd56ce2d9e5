package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/minio"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/repository"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type JobService interface {
	CreateJob(ctx context.Context, companyID uint64, jobDTO *dto.CreateJobDTO) (*dto.JobDTO, error)
	GetJob(ctx context.Context, id uint64) (*dto.JobDTO, error)
	ListCompanyJobs(ctx context.Context, companyID uint64, page, pageSize int) ([]*dto.JobDTO, error)
	SearchJobs(ctx context.Context, searchDTO *dto.SearchJobDTO) ([]*dto.JobDTO, error)
	CloseJob(ctx context.Context, companyID uint64, id uint64) error
	ApplyJob(ctx context.Context, accountID uint64, jobID uint64, applyDTO *dto.ApplyJobDTO, resume io.Reader, size int64, contentType string) error
	ListJobApplications(ctx context.Context, companyID uint64, jobID uint64, page, pageSize int) ([]*dto.ApplicationDTO, error)
	ListMyApplications(ctx context.Context, accountID uint64, page, pageSize int) ([]*dto.ApplicationDTO, error)
	GetJobMetrics(ctx context.Context, companyID uint64, jobID uint64, days int) ([]*dto.JobMetricDTO, error)
}

type JobServiceImpl struct {
	jobRepo    repository.JobRepo
	metricRepo repository.JobMetricRepo
	jobES      es.JobRepo
	presign    func(ctx context.Context, bucket, objectName string, expiry time.Duration) (*url.URL, error)
}

func NewJobService(jobRepo repository.JobRepo, metricRepo repository.JobMetricRepo, jobES es.JobRepo) JobService {
	return &JobServiceImpl{
		jobRepo:    jobRepo,
		metricRepo: metricRepo,
		jobES:      jobES,
		presign:    minio.PresignedGet,
	}
}

// CreateJob 新职位先落库进入待审核状态，审核流程由 CDC 消费端驱动
func (s *JobServiceImpl) CreateJob(ctx context.Context, companyID uint64, jobDTO *dto.CreateJobDTO) (*dto.JobDTO, error) {
	if jobDTO.SalaryMax > 0 && jobDTO.SalaryMin > jobDTO.SalaryMax {
		return nil, ErrParamInvalid
	}

	job := &model.JobPosting{
		CompanyID:   companyID,
		Title:       jobDTO.Title,
		Description: jobDTO.Description,
		Skills:      jobDTO.Skills,
		Location:    jobDTO.Location,
		Remote:      jobDTO.Remote,
		SalaryMin:   jobDTO.SalaryMin,
		SalaryMax:   jobDTO.SalaryMax,
		Status:      consts.JobStatusPending,
	}
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return s.buildJobDTO(ctx, job, false), nil
}

func (s *JobServiceImpl) GetJob(ctx context.Context, id uint64) (*dto.JobDTO, error) {
	job, err := s.jobRepo.GetJobById(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	// 浏览计数走 Redis，定时任务回刷 MySQL
	field := strconv.FormatUint(id, 10)
	if _, err = redis.HIncrBy(ctx, consts.JobViewKey, field, 1); err != nil {
		log.WarnContext(ctx, "Incr job view count failed", "job_id", id, "err", err)
	} else {
		_ = redis.SAdd(ctx, consts.JobViewDirtyKey, field)
	}

	return s.buildJobDTO(ctx, job, true), nil
}

func (s *JobServiceImpl) ListCompanyJobs(ctx context.Context, companyID uint64, page, pageSize int) ([]*dto.JobDTO, error) {
	page, pageSize = normalizePage(page, pageSize)
	jobs, err := s.jobRepo.GetJobsByCompany(ctx, companyID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	dtos := make([]*dto.JobDTO, 0, len(jobs))
	for _, job := range jobs {
		dtos = append(dtos, s.buildJobDTO(ctx, job, false))
	}
	return dtos, nil
}

func (s *JobServiceImpl) SearchJobs(ctx context.Context, searchDTO *dto.SearchJobDTO) ([]*dto.JobDTO, error) {
	page, pageSize := normalizePage(searchDTO.Page, searchDTO.Size)

	var hits []*es.JobES
	var err error
	if searchDTO.Keyword == "" && searchDTO.Location == "" && !searchDTO.RemoteOnly {
		hits, err = s.jobES.GetLatestJobs(ctx, (page-1)*pageSize, pageSize)
	} else {
		hits, err = s.jobES.SearchJobs(ctx, searchDTO.Keyword, searchDTO.Location, searchDTO.RemoteOnly, (page-1)*pageSize, pageSize)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.JobDTO, 0, len(hits))
	for _, hit := range hits {
		dtos = append(dtos, &dto.JobDTO{
			ID:          hit.ID,
			CompanyID:   hit.CompanyID,
			Title:       hit.Title,
			Description: hit.Description,
			Skills:      hit.Skills,
			Location:    hit.Location,
			Remote:      hit.Remote,
			SalaryMin:   hit.SalaryMin,
			SalaryMax:   hit.SalaryMax,
			Status:      hit.Status,
			PublishedAt: &hit.PublishedAt,
		})
	}
	return dtos, nil
}

func (s *JobServiceImpl) CloseJob(ctx context.Context, companyID uint64, id uint64) error {
	job, err := s.jobRepo.GetJobById(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}
	if job.CompanyID != companyID {
		return ErrJobNotOwner
	}
	if _, err = s.jobRepo.UpdateJobStatus(ctx, id, consts.JobStatusClosed, nil); err != nil {
		return err
	}
	// 关闭即从搜索索引摘除
	if err = s.jobES.DeleteJob(ctx, id); err != nil {
		log.WarnContext(ctx, "Remove closed job from index failed", "job_id", id, "err", err)
	}
	return nil
}

func (s *JobServiceImpl) ApplyJob(ctx context.Context, accountID uint64, jobID uint64, applyDTO *dto.ApplyJobDTO, resume io.Reader, size int64, contentType string) error {
	if contentType != consts.MimePdf {
		return ErrFileNotSupported
	}

	job, err := s.jobRepo.GetJobById(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}
	if job.Status != consts.JobStatusOpen {
		return ErrJobNotOpen
	}

	existing, err := s.jobRepo.GetApplication(ctx, jobID, accountID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrApplicationExist
	}

	resumeKey := fmt.Sprintf("resume/%d/%s.pdf", accountID, uuid.NewString())
	if _, err = minio.UploadFile(ctx, minio.DeckBucket, resumeKey, resume, size, contentType); err != nil {
		return err
	}

	app := &model.JobApplication{
		JobID:     jobID,
		AccountID: accountID,
		ResumeKey: resumeKey,
		CoverNote: applyDTO.CoverNote,
	}
	if err = s.jobRepo.CreateApplication(ctx, app); err != nil {
		_ = minio.DeleteFile(ctx, minio.DeckBucket, resumeKey)
		return err
	}

	if err = s.metricRepo.IncrApplyCount(ctx, jobID, util.GetMidnight(time.Now())); err != nil {
		log.WarnContext(ctx, "Incr apply count failed", "job_id", jobID, "err", err)
	}
	return nil
}

func (s *JobServiceImpl) ListJobApplications(ctx context.Context, companyID uint64, jobID uint64, page, pageSize int) ([]*dto.ApplicationDTO, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.CompanyID != companyID {
		return nil, ErrJobNotOwner
	}

	page, pageSize = normalizePage(page, pageSize)
	apps, err := s.jobRepo.GetApplicationsByJob(ctx, jobID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildApplicationDTOs(ctx, apps, true), nil
}

func (s *JobServiceImpl) ListMyApplications(ctx context.Context, accountID uint64, page, pageSize int) ([]*dto.ApplicationDTO, error) {
	page, pageSize = normalizePage(page, pageSize)
	apps, err := s.jobRepo.GetApplicationsByAccount(ctx, accountID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildApplicationDTOs(ctx, apps, false), nil
}

func (s *JobServiceImpl) GetJobMetrics(ctx context.Context, companyID uint64, jobID uint64, days int) ([]*dto.JobMetricDTO, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.CompanyID != companyID {
		return nil, UnauthorizedError
	}

	var metrics []*model.JobMetric
	if days > 7 {
		metrics, err = s.metricRepo.GetJobMetricsBy30Days(ctx, jobID)
	} else {
		metrics, err = s.metricRepo.GetJobMetricsBy7Days(ctx, jobID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.JobMetricDTO, 0, len(metrics))
	for _, m := range metrics {
		dtos = append(dtos, &dto.JobMetricDTO{
			MetricDate: m.MetricDate.Format(time.DateOnly),
			ViewCount:  m.ViewCount,
			ApplyCount: m.ApplyCount,
		})
	}
	return dtos, nil
}

func (s *JobServiceImpl) buildJobDTO(ctx context.Context, job *model.JobPosting, withViews bool) *dto.JobDTO {
	jobDTO := &dto.JobDTO{
		ID:          job.ID,
		CompanyID:   job.CompanyID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Remote:      job.Remote,
		SalaryMin:   job.SalaryMin,
		SalaryMax:   job.SalaryMax,
		Status:      job.Status,
		PublishedAt: job.PublishedAt,
	}
	if job.Skills != nil {
		jobDTO.Skills = util.SplitSkills(*job.Skills)
	}
	if withViews {
		if raw, err := redis.HGet(ctx, consts.JobViewKey, strconv.FormatUint(job.ID, 10)); err == nil && raw != "" {
			jobDTO.ViewCount, _ = strconv.ParseInt(raw, 10, 64)
		}
	}
	return jobDTO
}

func (s *JobServiceImpl) buildApplicationDTOs(ctx context.Context, apps []*model.JobApplication, withResume bool) []*dto.ApplicationDTO {
	dtos := make([]*dto.ApplicationDTO, 0, len(apps))
	for _, app := range apps {
		appDTO := &dto.ApplicationDTO{
			ID:        app.ID,
			JobID:     app.JobID,
			AccountID: app.AccountID,
			CoverNote: app.CoverNote,
			Status:    app.Status,
			CreatedAt: app.CreatedAt,
		}
		if withResume {
			signCtx, cancel := context.WithTimeout(ctx, time.Second*5)
			signed, err := s.presign(signCtx, minio.DeckBucket, app.ResumeKey, time.Hour)
			cancel()
			if err != nil {
				log.WarnContext(ctx, "Presign resume url failed", "application_id", app.ID, "err", err)
			} else {
				appDTO.ResumeURL = signed.String()
			}
		}
		dtos = append(dtos, appDTO)
	}
	return dtos
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	return page, pageSize
}
