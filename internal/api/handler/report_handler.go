package handler

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/pkg/response"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (s *ReportHandler) CreateReport(c *gin.Context) {
	reporterID := c.GetUint64("account_id")
	var reportDTO dto.CreateReportDTO
	if err := c.ShouldBind(&reportDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&reportDTO); err != nil {
		response.Error(c, err)
		return
	}
	err := s.reportSvc.CreateReport(c.Request.Context(), reporterID, &reportDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPendingReports 待处理举报列表（管理端）
func (s *ReportHandler) ListPendingReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reports, err := s.reportSvc.ListPendingReports(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reports)
}

func (s *ReportHandler) HandleReport(c *gin.Context) {
	handlerID := c.GetUint64("account_id")
	reportID, err := strconv.ParseUint(c.Param("report_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var handleDTO dto.HandleReportDTO
	if err = c.ShouldBind(&handleDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&handleDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.reportSvc.HandleReport(c.Request.Context(), handlerID, reportID, &handleDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
