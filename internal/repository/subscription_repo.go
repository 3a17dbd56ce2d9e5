package repository

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepo interface {
	GetByAccount(ctx context.Context, accountID uint64) (*model.Subscription, error)
	SaveOrUpdate(ctx context.Context, sub *model.Subscription) error
	// ExpireOverdue 批量把过期订阅降回 FREE，返回受影响行数
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type SubscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepo {
	return &SubscriptionRepoImpl{db: db}
}

func (s *SubscriptionRepoImpl) GetByAccount(ctx context.Context, accountID uint64) (*model.Subscription, error) {
	sub := &model.Subscription{}
	result := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return sub, nil
}

func (s *SubscriptionRepoImpl) SaveOrUpdate(ctx context.Context, sub *model.Subscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "is_active", "expires_at", "updated_at"}),
	}).Create(sub).Error
}

func (s *SubscriptionRepoImpl) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("is_active = 1 AND plan <> ? AND expires_at IS NOT NULL AND expires_at < ?", consts.PlanFree, now).
		Updates(map[string]interface{}{
			"plan":      consts.PlanFree,
			"is_active": true,
		})
	return result.RowsAffected, result.Error
}
