package job

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/redis"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobMetricRepo struct {
	saved []*model.JobMetric
}

func (f *fakeJobMetricRepo) SaveOrUpdateMetric(ctx context.Context, metric *model.JobMetric) error {
	f.saved = append(f.saved, metric)
	return nil
}

func (f *fakeJobMetricRepo) IncrApplyCount(ctx context.Context, jobID uint64, date time.Time) error {
	return nil
}

func (f *fakeJobMetricRepo) GetJobMetricsBy7Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	return nil, nil
}

func (f *fakeJobMetricRepo) GetJobMetricsBy30Days(ctx context.Context, jobID uint64) ([]*model.JobMetric, error) {
	return nil, nil
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	old := redis.Rdb
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redis.Rdb = old })
	return mr
}

func TestJobMetricsJob_SyncsDirtyViews(t *testing.T) {
	mr := setupTestRedis(t)
	mr.HSet(consts.JobViewKey, "1", "12")
	mr.HSet(consts.JobViewKey, "2", "7")
	_, err := mr.SetAdd(consts.JobViewDirtyKey, "1", "2")
	require.NoError(t, err)

	repo := &fakeJobMetricRepo{}
	NewJobMetricsJob(repo).Run()

	require.Len(t, repo.saved, 2)
	byJob := make(map[uint64]int)
	for _, m := range repo.saved {
		byJob[m.JobID] = m.ViewCount
	}
	assert.Equal(t, 12, byJob[1])
	assert.Equal(t, 7, byJob[2])

	// 脏集合与处理中集合都已清理，累计哈希保留
	assert.False(t, mr.Exists(consts.JobViewDirtyKey))
	assert.False(t, mr.Exists(consts.JobViewDirtyKey+":processing"))
	assert.True(t, mr.Exists(consts.JobViewKey))
}

func TestJobMetricsJob_NothingDirty(t *testing.T) {
	setupTestRedis(t)
	repo := &fakeJobMetricRepo{}

	// 脏集合不存在时 Rename 失败，本轮直接跳过
	NewJobMetricsJob(repo).Run()
	assert.Empty(t, repo.saved)
}

func TestJobMetricsJob_SkipsInvalidEntries(t *testing.T) {
	mr := setupTestRedis(t)
	mr.HSet(consts.JobViewKey, "1", "not-a-number")
	_, err := mr.SetAdd(consts.JobViewDirtyKey, "1", "abc")
	require.NoError(t, err)

	repo := &fakeJobMetricRepo{}
	NewJobMetricsJob(repo).Run()

	assert.Empty(t, repo.saved)
	assert.False(t, mr.Exists(consts.JobViewDirtyKey+":processing"))
}
