package repository

import (
	"StartLinker/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type StreakRepo interface {
	GetStreak(ctx context.Context, accountID uint64) (*model.LoginStreak, error)
	CreateStreak(ctx context.Context, streak *model.LoginStreak) error
	// AdvanceStreak 以 last_login_date 为乐观锁条件推进连胜，返回受影响行数。
	// 返回 0 说明有并发请求先行推进，调用方应重读后重试或放弃。
	AdvanceStreak(ctx context.Context, accountID uint64, fromDate, toDate time.Time, newCurrent int) (int64, error)
	// TouchSameDay 同日重复登录只累加总次数，不动连胜字段
	TouchSameDay(ctx context.Context, accountID uint64, onDate time.Time) error
}

type StreakRepoImpl struct {
	db *gorm.DB
}

func NewStreakRepo(db *gorm.DB) StreakRepo {
	return &StreakRepoImpl{db: db}
}

func (s *StreakRepoImpl) GetStreak(ctx context.Context, accountID uint64) (*model.LoginStreak, error) {
	streak := &model.LoginStreak{}
	result := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&streak)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return streak, nil
}

func (s *StreakRepoImpl) CreateStreak(ctx context.Context, streak *model.LoginStreak) error {
	return s.db.WithContext(ctx).Create(streak).Error
}

func (s *StreakRepoImpl) AdvanceStreak(ctx context.Context, accountID uint64, fromDate, toDate time.Time, newCurrent int) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.LoginStreak{}).
		Where("account_id = ? AND last_login_date = ?", accountID, fromDate).
		Updates(map[string]interface{}{
			"current_streak":  newCurrent,
			"longest_streak":  gorm.Expr("GREATEST(longest_streak, ?)", newCurrent),
			"last_login_date": toDate,
			"total_logins":    gorm.Expr("total_logins + 1"),
		})

	return result.RowsAffected, result.Error
}

func (s *StreakRepoImpl) TouchSameDay(ctx context.Context, accountID uint64, onDate time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.LoginStreak{}).
		Where("account_id = ? AND last_login_date = ?", accountID, onDate).
		Update("total_logins", gorm.Expr("total_logins + 1"))

	return result.Error
}
