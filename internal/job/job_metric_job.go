package job

import (
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/logger"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// JobMetricsJob 定时将 Redis 中累计的职位浏览量落到当日指标表
// 浏览量哈希保持累计值，指标行记录当日快照，日增量由相邻两天相减得到
type JobMetricsJob struct {
	metricRepo repository.JobMetricRepo
}

func NewJobMetricsJob(metricRepo repository.JobMetricRepo) *JobMetricsJob {
	return &JobMetricsJob{metricRepo: metricRepo}
}

func (s *JobMetricsJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.JobViewDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.JobViewDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get job view dirty set error", "err", err)
		return
	}

	jobIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert job set to int slice error", "err", err)
		return
	}

	metricDate := util.GetMidnight(time.Now())
	synced := 0

	for _, jid := range jobIDs {
		raw, err := redis.HGet(ctx, consts.JobViewKey, strconv.FormatUint(jid, 10))
		if err != nil || raw == "" {
			continue
		}
		views, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.WarnContext(ctx, "invalid view count in redis", "job_id", jid, "raw", raw)
			continue
		}

		err = s.metricRepo.SaveOrUpdateMetric(ctx, &model.JobMetric{
			JobID:      jid,
			MetricDate: metricDate,
			ViewCount:  int(views),
		})
		if err != nil {
			log.ErrorContext(ctx, "sync job view metric error", "job_id", jid, "err", err)
			continue
		}
		synced++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete job processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync job metrics success", "dirty_count", len(jobIDs), "synced", synced)
}
