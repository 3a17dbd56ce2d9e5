package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// 同一目标待处理举报达到阈值时自动下架/封禁
const autoActionThreshold = 5

type ReportService interface {
	CreateReport(ctx context.Context, reporterID uint64, reportDTO *dto.CreateReportDTO) error
	ListPendingReports(ctx context.Context, page, pageSize int) ([]*dto.ReportDTO, error)
	HandleReport(ctx context.Context, handlerID uint64, reportID uint64, handleDTO *dto.HandleReportDTO) error
}

type ReportServiceImpl struct {
	reportRepo  repository.ReportRepo
	jobRepo     repository.JobRepo
	accountRepo repository.AccountRepo
}

func NewReportService(reportRepo repository.ReportRepo, jobRepo repository.JobRepo, accountRepo repository.AccountRepo) ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		jobRepo:     jobRepo,
		accountRepo: accountRepo,
	}
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context, reporterID uint64, reportDTO *dto.CreateReportDTO) error {
	switch reportDTO.TargetType {
	case consts.ReportTargetJob:
		job, err := s.jobRepo.GetJobById(ctx, reportDTO.TargetID)
		if err != nil {
			return err
		}
		if job == nil {
			return ErrJobNotFound
		}
	case consts.ReportTargetAccount:
		account, err := s.accountRepo.GetAccountById(ctx, reportDTO.TargetID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
	default:
		return ErrParamInvalid
	}

	// 同一人对同一目标 24h 内只记一次
	lockKey := fmt.Sprintf("%s%d:%d:%d", consts.ReportLock, reporterID, reportDTO.TargetType, reportDTO.TargetID)
	lock, err := redis.TryLock(ctx, lockKey, uuid.NewString(), time.Hour*24, 1)
	if err != nil {
		return err
	}
	if !lock {
		return ErrReportDuplicate
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: reportDTO.TargetType,
		TargetID:   reportDTO.TargetID,
		Reason:     reportDTO.Reason,
		Status:     consts.ReportStatusPending,
	}
	if err = s.reportRepo.CreateReport(ctx, report); err != nil {
		return err
	}

	s.maybeAutoAction(ctx, reportDTO.TargetType, reportDTO.TargetID)
	return nil
}

func (s *ReportServiceImpl) ListPendingReports(ctx context.Context, page, pageSize int) ([]*dto.ReportDTO, error) {
	page, pageSize = normalizePage(page, pageSize)
	reports, err := s.reportRepo.GetPendingReports(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	dtos := make([]*dto.ReportDTO, 0, len(reports))
	for _, r := range reports {
		dtos = append(dtos, &dto.ReportDTO{
			ID:         r.ID,
			ReporterID: r.ReporterID,
			TargetType: r.TargetType,
			TargetID:   r.TargetID,
			Reason:     r.Reason,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *ReportServiceImpl) HandleReport(ctx context.Context, handlerID uint64, reportID uint64, handleDTO *dto.HandleReportDTO) error {
	report, err := s.reportRepo.GetReportById(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}

	rows, err := s.reportRepo.UpdateReportStatus(ctx, reportID, handleDTO.Status, handlerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// 已被其他管理员处理
		return ErrReportNotFound
	}
	return nil
}

// maybeAutoAction 待处理举报过多时先行下架，等待人工复核
func (s *ReportServiceImpl) maybeAutoAction(ctx context.Context, targetType int, targetID uint64) {
	count, err := s.reportRepo.CountPendingByTarget(ctx, targetType, targetID)
	if err != nil || count < autoActionThreshold {
		return
	}

	switch targetType {
	case consts.ReportTargetJob:
		if _, err = s.jobRepo.UpdateJobStatus(ctx, targetID, consts.JobStatusManual, nil); err != nil {
			log.WarnContext(ctx, "Auto suspend reported job failed", "job_id", targetID, "err", err)
		} else {
			log.InfoContext(ctx, "Job suspended by report threshold", "job_id", targetID, "pending_reports", count)
		}
	case consts.ReportTargetAccount:
		if _, err = s.accountRepo.UpdateAccountIsBan(ctx, targetID, true); err != nil {
			log.WarnContext(ctx, "Auto ban reported account failed", "account_id", targetID, "err", err)
		} else {
			log.InfoContext(ctx, "Account banned by report threshold", "account_id", targetID, "pending_reports", count)
		}
	}
}
