package handler

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/pkg/response"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobSvc service.JobService
}

func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// CreateJob 发布职位，先落库待审核，审核通过后才进入搜索
func (s *JobHandler) CreateJob(c *gin.Context) {
	companyID := c.GetUint64("account_id")
	var createDTO dto.CreateJobDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	jobDTO, err := s.jobSvc.CreateJob(c.Request.Context(), companyID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, jobDTO)
}

func (s *JobHandler) GetJob(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	jobDTO, err := s.jobSvc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, jobDTO)
}

func (s *JobHandler) ListMyJobs(c *gin.Context) {
	companyID := c.GetUint64("account_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, err := s.jobSvc.ListCompanyJobs(c.Request.Context(), companyID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, jobs)
}

func (s *JobHandler) SearchJobs(c *gin.Context) {
	var searchDTO dto.SearchJobDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	jobs, err := s.jobSvc.SearchJobs(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, jobs)
}

func (s *JobHandler) CloseJob(c *gin.Context) {
	companyID := c.GetUint64("account_id")
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.jobSvc.CloseJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ApplyJob 投递职位，附带 PDF 简历
func (s *JobHandler) ApplyJob(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	applyDTO := dto.ApplyJobDTO{}
	if note := c.PostForm("cover_note"); note != "" {
		applyDTO.CoverNote = &note
	}
	if err = util.ValidateDTO(&applyDTO); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("resume")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}

	err = s.jobSvc.ApplyJob(c.Request.Context(), accountID, jobID, &applyDTO, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListJobApplications 查看某职位收到的投递（仅发布方）
func (s *JobHandler) ListJobApplications(c *gin.Context) {
	companyID := c.GetUint64("account_id")
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	apps, err := s.jobSvc.ListJobApplications(c.Request.Context(), companyID, jobID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, apps)
}

func (s *JobHandler) ListMyApplications(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	apps, err := s.jobSvc.ListMyApplications(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, apps)
}

func (s *JobHandler) GetMetrics7Days(c *gin.Context) {
	s.getMetrics(c, 7)
}

func (s *JobHandler) GetMetrics30Days(c *gin.Context) {
	s.getMetrics(c, 30)
}

func (s *JobHandler) getMetrics(c *gin.Context, days int) {
	companyID := c.GetUint64("account_id")
	jobID, err := strconv.ParseUint(c.Param("job_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	metrics, err := s.jobSvc.GetJobMetrics(c.Request.Context(), companyID, jobID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metrics)
}
