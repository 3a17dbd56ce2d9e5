package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type SubscriptionService interface {
	GetSubscription(ctx context.Context, accountID uint64) (*dto.SubscriptionDTO, error)
	UpgradePlan(ctx context.Context, accountID uint64, upgradeDTO *dto.UpgradePlanDTO) (*dto.SubscriptionDTO, error)
	CancelPlan(ctx context.Context, accountID uint64) (*dto.SubscriptionDTO, error)
	// ExpireOverdueSubscriptions 供定时任务调用，过期订阅统一降回 FREE
	ExpireOverdueSubscriptions(ctx context.Context) (int64, error)
}

type SubscriptionServiceImpl struct {
	subRepo repository.SubscriptionRepo
}

func NewSubscriptionService(subRepo repository.SubscriptionRepo) SubscriptionService {
	return &SubscriptionServiceImpl{subRepo: subRepo}
}

func (s *SubscriptionServiceImpl) GetSubscription(ctx context.Context, accountID uint64) (*dto.SubscriptionDTO, error) {
	sub, err := s.subRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.SubscriptionDTO{Plan: consts.PlanFree, IsActive: true}, nil
	}
	// 过期但定时任务还没扫到的，按 FREE 返回
	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		return &dto.SubscriptionDTO{Plan: consts.PlanFree, IsActive: true}, nil
	}
	return &dto.SubscriptionDTO{
		Plan:      sub.Plan,
		IsActive:  sub.IsActive,
		ExpiresAt: sub.ExpiresAt,
	}, nil
}

func (s *SubscriptionServiceImpl) UpgradePlan(ctx context.Context, accountID uint64, upgradeDTO *dto.UpgradePlanDTO) (*dto.SubscriptionDTO, error) {
	if upgradeDTO.Plan != consts.PlanPro && upgradeDTO.Plan != consts.PlanTeam {
		return nil, ErrParamInvalid
	}

	// 续费在现有到期时间上顺延
	base := time.Now()
	existing, err := s.subRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Plan == upgradeDTO.Plan && existing.ExpiresAt != nil && existing.ExpiresAt.After(base) {
		base = *existing.ExpiresAt
	}
	expiresAt := base.AddDate(0, upgradeDTO.Months, 0)

	sub := &model.Subscription{
		AccountID: accountID,
		Plan:      upgradeDTO.Plan,
		IsActive:  true,
		ExpiresAt: &expiresAt,
	}
	if err = s.subRepo.SaveOrUpdate(ctx, sub); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Subscription upgraded", "account_id", accountID, "plan", upgradeDTO.Plan, "expires_at", expiresAt)
	return &dto.SubscriptionDTO{
		Plan:      sub.Plan,
		IsActive:  true,
		ExpiresAt: &expiresAt,
	}, nil
}

// CancelPlan 取消付费订阅，立即降回 FREE，不做按量退款
func (s *SubscriptionServiceImpl) CancelPlan(ctx context.Context, accountID uint64) (*dto.SubscriptionDTO, error) {
	existing, err := s.subRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.Plan == consts.PlanFree {
		return nil, ErrSubscriptionNotFound
	}

	sub := &model.Subscription{
		AccountID: accountID,
		Plan:      consts.PlanFree,
		IsActive:  true,
	}
	if err = s.subRepo.SaveOrUpdate(ctx, sub); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Subscription cancelled", "account_id", accountID, "from_plan", existing.Plan)
	return &dto.SubscriptionDTO{Plan: consts.PlanFree, IsActive: true}, nil
}

func (s *SubscriptionServiceImpl) ExpireOverdueSubscriptions(ctx context.Context) (int64, error) {
	return s.subRepo.ExpireOverdue(ctx, time.Now())
}
