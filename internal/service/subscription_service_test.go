package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriptionRepo struct {
	sub   *model.Subscription
	saved []*model.Subscription
}

func (f *recordingSubscriptionRepo) GetByAccount(ctx context.Context, accountID uint64) (*model.Subscription, error) {
	return f.sub, nil
}

func (f *recordingSubscriptionRepo) SaveOrUpdate(ctx context.Context, sub *model.Subscription) error {
	f.saved = append(f.saved, sub)
	return nil
}

func (f *recordingSubscriptionRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func TestGetSubscription_DefaultsToFree(t *testing.T) {
	svc := NewSubscriptionService(&recordingSubscriptionRepo{})

	sub, err := svc.GetSubscription(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, consts.PlanFree, sub.Plan)
	assert.True(t, sub.IsActive)
}

func TestGetSubscription_ExpiredReportsFree(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := &recordingSubscriptionRepo{
		sub: &model.Subscription{AccountID: 7, Plan: consts.PlanPro, IsActive: true, ExpiresAt: &past},
	}
	svc := NewSubscriptionService(repo)

	sub, err := svc.GetSubscription(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, consts.PlanFree, sub.Plan)
}

func TestUpgradePlan_InvalidPlan(t *testing.T) {
	svc := NewSubscriptionService(&recordingSubscriptionRepo{})

	_, err := svc.UpgradePlan(context.Background(), 7, &dto.UpgradePlanDTO{Plan: "GOLD", Months: 1})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestUpgradePlan_RenewalExtendsExpiry(t *testing.T) {
	current := time.Now().AddDate(0, 2, 0)
	repo := &recordingSubscriptionRepo{
		sub: &model.Subscription{AccountID: 7, Plan: consts.PlanPro, IsActive: true, ExpiresAt: &current},
	}
	svc := NewSubscriptionService(repo)

	sub, err := svc.UpgradePlan(context.Background(), 7, &dto.UpgradePlanDTO{Plan: consts.PlanPro, Months: 1})
	require.NoError(t, err)
	require.NotNil(t, sub.ExpiresAt)
	// 续费在现有到期时间上顺延，而不是从当前时间重算
	assert.WithinDuration(t, current.AddDate(0, 1, 0), *sub.ExpiresAt, time.Minute)
}

func TestCancelPlan(t *testing.T) {
	expires := time.Now().AddDate(0, 3, 0)
	repo := &recordingSubscriptionRepo{
		sub: &model.Subscription{AccountID: 7, Plan: consts.PlanPro, IsActive: true, ExpiresAt: &expires},
	}
	svc := NewSubscriptionService(repo)

	sub, err := svc.CancelPlan(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, consts.PlanFree, sub.Plan)
	assert.True(t, sub.IsActive)
	assert.Nil(t, sub.ExpiresAt)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, consts.PlanFree, repo.saved[0].Plan)
	assert.Nil(t, repo.saved[0].ExpiresAt)
}

func TestCancelPlan_NoPaidSubscription(t *testing.T) {
	svc := NewSubscriptionService(&recordingSubscriptionRepo{})

	_, err := svc.CancelPlan(context.Background(), 7)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	repo := &recordingSubscriptionRepo{
		sub: &model.Subscription{AccountID: 7, Plan: consts.PlanFree, IsActive: true},
	}
	_, err = NewSubscriptionService(repo).CancelPlan(context.Background(), 7)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	assert.Empty(t, repo.saved)
}
