package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/util"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobRepo struct {
	jobs         map[uint64]*model.JobPosting
	applications map[uint64]*model.JobApplication // key: jobID

	createdJobs   []*model.JobPosting
	createdApps   []*model.JobApplication
	statusUpdates map[uint64]int
}

func (f *fakeJobRepo) GetJobById(ctx context.Context, id uint64) (*model.JobPosting, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepo) GetJobsByCompany(ctx context.Context, companyID uint64, offset, limit int) ([]*model.JobPosting, error) {
	res := make([]*model.JobPosting, 0)
	for _, job := range f.jobs {
		if job.CompanyID == companyID {
			res = append(res, job)
		}
	}
	return res, nil
}

func (f *fakeJobRepo) CreateJob(ctx context.Context, job *model.JobPosting) error {
	f.createdJobs = append(f.createdJobs, job)
	return nil
}

func (f *fakeJobRepo) UpdateJob(ctx context.Context, job *model.JobPosting) error {
	return nil
}

func (f *fakeJobRepo) UpdateJobStatus(ctx context.Context, id uint64, status int, rejectNote *string) (int64, error) {
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[uint64]int)
	}
	f.statusUpdates[id] = status
	return 1, nil
}

func (f *fakeJobRepo) PublishJob(ctx context.Context, id uint64, at time.Time) error {
	return nil
}

func (f *fakeJobRepo) DeleteJob(ctx context.Context, id uint64) error {
	return nil
}

func (f *fakeJobRepo) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	f.createdApps = append(f.createdApps, app)
	return nil
}

func (f *fakeJobRepo) GetApplication(ctx context.Context, jobID, accountID uint64) (*model.JobApplication, error) {
	return f.applications[jobID], nil
}

func (f *fakeJobRepo) GetApplicationsByJob(ctx context.Context, jobID uint64, offset, limit int) ([]*model.JobApplication, error) {
	return nil, nil
}

func (f *fakeJobRepo) GetApplicationsByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.JobApplication, error) {
	return nil, nil
}

func (f *fakeJobRepo) UpdateApplicationStatus(ctx context.Context, id uint64, status int) error {
	return nil
}

type fakeJobMetricRepo struct {
	applyIncrs []uint64
	metrics    []*model.JobMetric
}

func (f *fakeJobMetricRepo) SaveOrUpdateMetric(ctx context.Context, metric *model.JobMetric) error {
	return nil
}

func (f *fakeJobMetricRepo) IncrApplyCount(ctx context.Context, jobID uint64, date time.Time) error {
	f.applyIncrs = append(f.applyIncrs, jobID)
	return nil
}

func (f *fakeJobMetricRepo) GetJobMetricsBy7Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	return f.metrics, nil
}

func (f *fakeJobMetricRepo) GetJobMetricsBy30Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	return f.metrics, nil
}

type fakeJobESRepo struct {
	latest  []*es.JobES
	hits    []*es.JobES
	deleted []uint64

	searchKeyword string
	latestCalls   int
	searchCalls   int
}

func (f *fakeJobESRepo) IndexJob(ctx context.Context, job *es.JobES, version int64) error {
	return nil
}

func (f *fakeJobESRepo) DeleteJob(ctx context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJobESRepo) SearchJobs(ctx context.Context, keyword string, location string, remoteOnly bool, from, size int) ([]*es.JobES, error) {
	f.searchCalls++
	f.searchKeyword = keyword
	return f.hits, nil
}

func (f *fakeJobESRepo) GetLatestJobs(ctx context.Context, from, size int) ([]*es.JobES, error) {
	f.latestCalls++
	return f.latest, nil
}

func newTestJobService(jobRepo *fakeJobRepo, metricRepo *fakeJobMetricRepo, jobES *fakeJobESRepo) *JobServiceImpl {
	if metricRepo == nil {
		metricRepo = &fakeJobMetricRepo{}
	}
	if jobES == nil {
		jobES = &fakeJobESRepo{}
	}
	return &JobServiceImpl{
		jobRepo:    jobRepo,
		metricRepo: metricRepo,
		jobES:      jobES,
		presign: func(ctx context.Context, bucket, objectName string, expiry time.Duration) (*url.URL, error) {
			return url.Parse("https://minio.test.local/" + bucket + "/" + objectName)
		},
	}
}

func TestCreateJob_InvalidSalaryRange(t *testing.T) {
	svc := newTestJobService(&fakeJobRepo{}, nil, nil)

	_, err := svc.CreateJob(context.Background(), 1, &dto.CreateJobDTO{
		Title:       "Go 工程师",
		Description: "负责后端服务开发",
		SalaryMin:   30000,
		SalaryMax:   20000,
	})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestCreateJob_StartsPendingReview(t *testing.T) {
	repo := &fakeJobRepo{}
	svc := newTestJobService(repo, nil, nil)

	jobDTO, err := svc.CreateJob(context.Background(), 1, &dto.CreateJobDTO{
		Title:       "Go 工程师",
		Description: "负责后端服务开发",
		Skills:      util.PtrStr("Go,Kafka"),
		SalaryMin:   20000,
		SalaryMax:   30000,
	})
	require.NoError(t, err)

	require.Len(t, repo.createdJobs, 1)
	assert.Equal(t, consts.JobStatusPending, repo.createdJobs[0].Status)
	assert.Equal(t, consts.JobStatusPending, jobDTO.Status)
	assert.Equal(t, []string{"Go", "Kafka"}, jobDTO.Skills)
}

func TestGetJob_NotFound(t *testing.T) {
	setupTestRedis(t)
	svc := newTestJobService(&fakeJobRepo{jobs: map[uint64]*model.JobPosting{}}, nil, nil)

	_, err := svc.GetJob(context.Background(), 99)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestGetJob_CountsViews(t *testing.T) {
	mr := setupTestRedis(t)
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2, Title: "Go 工程师", Status: consts.JobStatusOpen},
		},
	}
	svc := newTestJobService(repo, nil, nil)

	jobDTO, err := svc.GetJob(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), jobDTO.ViewCount)

	jobDTO, err = svc.GetJob(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), jobDTO.ViewCount)

	// 浏览过的职位进入脏集合，等待定时任务回刷
	dirty, err := mr.Members(consts.JobViewDirtyKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, dirty)
}

func TestSearchJobs_EmptyQueryListsLatest(t *testing.T) {
	jobES := &fakeJobESRepo{latest: []*es.JobES{{ID: 1, Title: "Go 工程师"}}}
	svc := newTestJobService(&fakeJobRepo{}, nil, jobES)

	dtos, err := svc.SearchJobs(context.Background(), &dto.SearchJobDTO{})
	require.NoError(t, err)
	assert.Len(t, dtos, 1)
	assert.Equal(t, 1, jobES.latestCalls)
	assert.Equal(t, 0, jobES.searchCalls)
}

func TestSearchJobs_WithKeyword(t *testing.T) {
	jobES := &fakeJobESRepo{hits: []*es.JobES{{ID: 2, Title: "后端工程师"}}}
	svc := newTestJobService(&fakeJobRepo{}, nil, jobES)

	dtos, err := svc.SearchJobs(context.Background(), &dto.SearchJobDTO{Keyword: "后端"})
	require.NoError(t, err)
	assert.Len(t, dtos, 1)
	assert.Equal(t, "后端", jobES.searchKeyword)
	assert.Equal(t, 0, jobES.latestCalls)
}

func TestCloseJob_NotOwner(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2, Status: consts.JobStatusOpen},
		},
	}
	svc := newTestJobService(repo, nil, nil)

	err := svc.CloseJob(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrJobNotOwner)
}

func TestCloseJob_RemovesFromIndex(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2, Status: consts.JobStatusOpen},
		},
	}
	jobES := &fakeJobESRepo{}
	svc := newTestJobService(repo, nil, jobES)

	err := svc.CloseJob(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, consts.JobStatusClosed, repo.statusUpdates[1])
	assert.Equal(t, []uint64{1}, jobES.deleted)
}

func TestApplyJob_WrongContentType(t *testing.T) {
	svc := newTestJobService(&fakeJobRepo{}, nil, nil)

	err := svc.ApplyJob(context.Background(), 7, 1, &dto.ApplyJobDTO{}, strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrFileNotSupported)
}

func TestApplyJob_JobNotOpen(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2, Status: consts.JobStatusPending},
		},
	}
	svc := newTestJobService(repo, nil, nil)

	err := svc.ApplyJob(context.Background(), 7, 1, &dto.ApplyJobDTO{}, strings.NewReader("x"), 1, consts.MimePdf)
	assert.ErrorIs(t, err, ErrJobNotOpen)
}

func TestApplyJob_Duplicate(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2, Status: consts.JobStatusOpen},
		},
		applications: map[uint64]*model.JobApplication{
			1: {ID: 5, JobID: 1, AccountID: 7},
		},
	}
	svc := newTestJobService(repo, nil, nil)

	err := svc.ApplyJob(context.Background(), 7, 1, &dto.ApplyJobDTO{}, strings.NewReader("x"), 1, consts.MimePdf)
	assert.ErrorIs(t, err, ErrApplicationExist)
	assert.Empty(t, repo.createdApps)
}

func TestGetJobMetrics_NotOwner(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2},
		},
	}
	svc := newTestJobService(repo, nil, nil)

	_, err := svc.GetJobMetrics(context.Background(), 3, 1, 7)
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestGetJobMetrics(t *testing.T) {
	repo := &fakeJobRepo{
		jobs: map[uint64]*model.JobPosting{
			1: {ID: 1, CompanyID: 2},
		},
	}
	metricRepo := &fakeJobMetricRepo{
		metrics: []*model.JobMetric{
			{JobID: 1, MetricDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), ViewCount: 12, ApplyCount: 3},
		},
	}
	svc := newTestJobService(repo, metricRepo, nil)

	dtos, err := svc.GetJobMetrics(context.Background(), 2, 1, 7)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "2024-05-10", dtos[0].MetricDate)
	assert.Equal(t, 12, dtos[0].ViewCount)
	assert.Equal(t, 3, dtos[0].ApplyCount)
}
