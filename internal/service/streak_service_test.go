package service

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/redis"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type advanceCall struct {
	fromDate   time.Time
	toDate     time.Time
	newCurrent int
}

type fakeStreakRepo struct {
	// getResults 按调用次序依次返回，耗尽后重复最后一个
	getResults []*model.LoginStreak
	getCalls   int
	getErr     error

	created   []*model.LoginStreak
	createErr error

	advanceCalls []advanceCall
	advanceRows  []int64
	advanceErr   error

	touchCalls []time.Time
	touchErr   error
}

func (f *fakeStreakRepo) GetStreak(ctx context.Context, accountID uint64) (*model.LoginStreak, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	idx := f.getCalls
	f.getCalls++
	if len(f.getResults) == 0 {
		return nil, nil
	}
	if idx >= len(f.getResults) {
		idx = len(f.getResults) - 1
	}
	return f.getResults[idx], nil
}

func (f *fakeStreakRepo) CreateStreak(ctx context.Context, streak *model.LoginStreak) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, streak)
	return nil
}

func (f *fakeStreakRepo) AdvanceStreak(ctx context.Context, accountID uint64, fromDate, toDate time.Time, newCurrent int) (int64, error) {
	if f.advanceErr != nil {
		return 0, f.advanceErr
	}
	idx := len(f.advanceCalls)
	f.advanceCalls = append(f.advanceCalls, advanceCall{fromDate: fromDate, toDate: toDate, newCurrent: newCurrent})
	if idx >= len(f.advanceRows) {
		return 1, nil
	}
	return f.advanceRows[idx], nil
}

func (f *fakeStreakRepo) TouchSameDay(ctx context.Context, accountID uint64, onDate time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchCalls = append(f.touchCalls, onDate)
	return nil
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	old := redis.Rdb
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redis.Rdb = old })
	return mr
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRecordLogin_FirstLogin(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{}
	svc := NewStreakService(repo)

	at := time.Date(2024, 5, 10, 15, 4, 5, 0, time.UTC)
	err := svc.RecordLogin(context.Background(), 7, at)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	streak := repo.created[0]
	assert.Equal(t, uint64(7), streak.AccountID)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.Equal(t, 1, streak.TotalLogins)
	assert.Equal(t, utcDate(2024, 5, 10), streak.LastLoginDate)
}

func TestRecordLogin_FirstLoginTruncatesToUTCDay(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{}
	svc := NewStreakService(repo)

	// UTC+8 的 5 月 11 日凌晨，仍属于 UTC 的 5 月 10 日
	cst := time.FixedZone("CST", 8*3600)
	at := time.Date(2024, 5, 11, 2, 0, 0, 0, cst)
	err := svc.RecordLogin(context.Background(), 7, at)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, utcDate(2024, 5, 10), repo.created[0].LastLoginDate)
}

func TestRecordLogin_SameDay(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 3,
			LongestStreak: 5,
			LastLoginDate: utcDate(2024, 5, 10),
			TotalLogins:   20,
		}},
	}
	svc := NewStreakService(repo)

	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.touchCalls, 1)
	assert.Equal(t, utcDate(2024, 5, 10), repo.touchCalls[0])
	assert.Empty(t, repo.advanceCalls)
	assert.Empty(t, repo.created)
}

func TestRecordLogin_NextDayExtendsStreak(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 3,
			LongestStreak: 5,
			LastLoginDate: utcDate(2024, 5, 9),
			TotalLogins:   20,
		}},
	}
	svc := NewStreakService(repo)

	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 0, 0, 1, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.advanceCalls, 1)
	call := repo.advanceCalls[0]
	assert.Equal(t, utcDate(2024, 5, 9), call.fromDate)
	assert.Equal(t, utcDate(2024, 5, 10), call.toDate)
	assert.Equal(t, 4, call.newCurrent)
	assert.Empty(t, repo.touchCalls)
}

func TestRecordLogin_GapResetsStreak(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 9,
			LongestStreak: 9,
			LastLoginDate: utcDate(2024, 5, 1),
			TotalLogins:   40,
		}},
	}
	svc := NewStreakService(repo)

	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.advanceCalls, 1)
	assert.Equal(t, 1, repo.advanceCalls[0].newCurrent)
	assert.Equal(t, utcDate(2024, 5, 10), repo.advanceCalls[0].toDate)
}

func TestRecordLogin_ClockSkewKeepsStreak(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 3,
			LongestStreak: 5,
			LastLoginDate: utcDate(2024, 5, 12),
			TotalLogins:   20,
		}},
	}
	svc := NewStreakService(repo)

	// 登录时间早于已记录日期，按同日处理，连胜不回退
	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.touchCalls, 1)
	assert.Equal(t, utcDate(2024, 5, 12), repo.touchCalls[0])
	assert.Empty(t, repo.advanceCalls)
}

func TestRecordLogin_RetriesAfterCASMiss(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{
			{AccountID: 7, CurrentStreak: 3, LongestStreak: 5, LastLoginDate: utcDate(2024, 5, 8), TotalLogins: 20},
			{AccountID: 7, CurrentStreak: 4, LongestStreak: 5, LastLoginDate: utcDate(2024, 5, 9), TotalLogins: 21},
		},
		advanceRows: []int64{0, 1},
	}
	svc := NewStreakService(repo)

	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.advanceCalls, 2)
	// 第一次基于旧快照，第二次重读后基于并发请求推进过的状态
	assert.Equal(t, utcDate(2024, 5, 8), repo.advanceCalls[0].fromDate)
	assert.Equal(t, utcDate(2024, 5, 9), repo.advanceCalls[1].fromDate)
	assert.Equal(t, 5, repo.advanceCalls[1].newCurrent)
}

func TestRecordLogin_GivesUpAfterRetries(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{
			{AccountID: 7, CurrentStreak: 3, LongestStreak: 5, LastLoginDate: utcDate(2024, 5, 8), TotalLogins: 20},
		},
		advanceRows: []int64{0, 0, 0},
	}
	svc := NewStreakService(repo)

	// 统计是尽力而为的，重试耗尽也不向调用方返回错误
	err := svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, repo.advanceCalls, streakAdvanceRetries)
}

func TestGetStreak_NeverLoggedIn(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{}
	svc := NewStreakService(repo)

	streakDTO, err := svc.GetStreak(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, streakDTO)
	assert.Equal(t, 0, streakDTO.CurrentStreak)
	assert.Equal(t, 0, streakDTO.LongestStreak)
	assert.Equal(t, 0, streakDTO.TotalLogins)
	assert.Empty(t, streakDTO.LastLoginDate)
}

func TestGetStreak_ReturnsAndCaches(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 4,
			LongestStreak: 9,
			LastLoginDate: utcDate(2024, 5, 10),
			TotalLogins:   33,
		}},
	}
	svc := NewStreakService(repo)

	streakDTO, err := svc.GetStreak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, streakDTO.CurrentStreak)
	assert.Equal(t, 9, streakDTO.LongestStreak)
	assert.Equal(t, 33, streakDTO.TotalLogins)
	assert.Equal(t, "2024-05-10", streakDTO.LastLoginDate)

	// 第二次命中缓存，不再查库
	again, err := svc.GetStreak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, streakDTO, again)
	assert.Equal(t, 1, repo.getCalls)
}

func TestRecordLogin_InvalidatesCachedStreak(t *testing.T) {
	mr := setupTestRedis(t)
	repo := &fakeStreakRepo{
		getResults: []*model.LoginStreak{{
			AccountID:     7,
			CurrentStreak: 4,
			LongestStreak: 9,
			LastLoginDate: utcDate(2024, 5, 10),
			TotalLogins:   33,
		}},
	}
	svc := NewStreakService(repo)

	_, err := svc.GetStreak(context.Background(), 7)
	require.NoError(t, err)

	err = svc.RecordLogin(context.Background(), 7, time.Date(2024, 5, 11, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, mr.Keys())
}
