package service

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const streakAdvanceRetries = 3

type StreakService interface {
	// RecordLogin 在登录成功后推进连续登录统计，按 UTC 日历日判定间隔
	RecordLogin(ctx context.Context, accountID uint64, at time.Time) error
	GetStreak(ctx context.Context, accountID uint64) (*dto.StreakDTO, error)
}

type StreakServiceImpl struct {
	streakRepo repository.StreakRepo
}

func NewStreakService(streakRepo repository.StreakRepo) StreakService {
	return &StreakServiceImpl{streakRepo: streakRepo}
}

func (s *StreakServiceImpl) RecordLogin(ctx context.Context, accountID uint64, at time.Time) error {
	today := toUTCDate(at)

	for attempt := 0; attempt < streakAdvanceRetries; attempt++ {
		streak, err := s.streakRepo.GetStreak(ctx, accountID)
		if err != nil {
			return err
		}

		if streak == nil {
			err = s.streakRepo.CreateStreak(ctx, &model.LoginStreak{
				AccountID:     accountID,
				CurrentStreak: 1,
				LongestStreak: 1,
				LastLoginDate: today,
				TotalLogins:   1,
			})
			if err != nil {
				// 并发首次登录可能撞唯一键，重读后走常规路径
				continue
			}
			s.invalidateCache(ctx, accountID)
			return nil
		}

		lastDate := toUTCDate(streak.LastLoginDate)
		gapDays := int(today.Sub(lastDate).Hours() / 24)

		if gapDays == 0 {
			if err = s.streakRepo.TouchSameDay(ctx, accountID, lastDate); err != nil {
				return err
			}
			s.invalidateCache(ctx, accountID)
			return nil
		}

		if gapDays < 0 {
			// 记录时间早于已存日期，多为时钟回拨。只累计总次数，连胜字段不回退。
			log.WarnContext(ctx, "Login time earlier than recorded streak date",
				"account_id", accountID,
				"last_date", lastDate.Format(time.DateOnly),
				"login_date", today.Format(time.DateOnly))
			if err = s.streakRepo.TouchSameDay(ctx, accountID, lastDate); err != nil {
				return err
			}
			s.invalidateCache(ctx, accountID)
			return nil
		}

		newCurrent := 1
		if gapDays == 1 {
			newCurrent = streak.CurrentStreak + 1
		}

		rows, err := s.streakRepo.AdvanceStreak(ctx, accountID, lastDate, today, newCurrent)
		if err != nil {
			return err
		}
		if rows > 0 {
			s.invalidateCache(ctx, accountID)
			return nil
		}
		// CAS 未命中说明并发请求已先行推进，重读后重新判定
	}

	log.WarnContext(ctx, "Streak advance gave up after retries", "account_id", accountID)
	return nil
}

func (s *StreakServiceImpl) GetStreak(ctx context.Context, accountID uint64) (*dto.StreakDTO, error) {
	key := consts.StreakCacheKey + strconv.FormatUint(accountID, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != "" {
		var streakDTO *dto.StreakDTO
		if err = json.Unmarshal([]byte(value), &streakDTO); err == nil {
			return streakDTO, nil
		}
	}

	streak, err := s.streakRepo.GetStreak(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		// 从未登录过也返回全零统计，方便前端展示
		return &dto.StreakDTO{}, nil
	}

	streakDTO := &dto.StreakDTO{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		LastLoginDate: toUTCDate(streak.LastLoginDate).Format(time.DateOnly),
		TotalLogins:   streak.TotalLogins,
	}
	jsonStr, err := json.Marshal(streakDTO)
	if err != nil {
		return nil, err
	}
	_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Minute*10)
	return streakDTO, nil
}

func (s *StreakServiceImpl) invalidateCache(ctx context.Context, accountID uint64) {
	_ = redis.DeleteKey(ctx, consts.StreakCacheKey+strconv.FormatUint(accountID, 10))
}

// toUTCDate 截断到 UTC 零点
func toUTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
