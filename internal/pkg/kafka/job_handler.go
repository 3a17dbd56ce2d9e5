package kafka

import (
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/llm"
	"StartLinker/internal/pkg/redis"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// JobHandler 消费职位表的 CDC 变更
// 待审核职位先走 AI 审核落库，审核结果的状态变更会再次进入本消费者，
// 届时开放中的职位被写入搜索索引，关闭的职位被移除
type JobHandler struct {
	jobDBRepo repository.JobRepo
	jobESRepo es.JobRepo
}

func NewJobHandler(jobDBRepo repository.JobRepo, jobESRepo es.JobRepo) *JobHandler {
	return &JobHandler{
		jobDBRepo: jobDBRepo,
		jobESRepo: jobESRepo,
	}
}

func (s *JobHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("job consumer setup")
	return nil
}

func (s *JobHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("job consumer cleanup")
	return nil
}

func (s *JobHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-job consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-job process batch error", "err", err)
		return err
	}
	log.Info("topic-job consume claim end")
	return nil
}

func (s *JobHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "job_postings")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	jobID := StrToUint64(row["id"])

	if canalMsg.Type == DELETE {
		return s.jobESRepo.DeleteJob(ctx, jobID)
	}

	switch StrToInt(row["status"]) {
	case consts.JobStatusPending:
		return s.reviewJob(ctx, jobID, row)
	case consts.JobStatusOpen:
		return s.jobESRepo.IndexJob(ctx, s.toESModel(row), StrToInt64(row["version"]))
	case consts.JobStatusRejected, consts.JobStatusClosed:
		return s.jobESRepo.DeleteJob(ctx, jobID)
	default:
		return nil
	}
}

// reviewJob AI 审核待发布职位并落库，加锁避免消息重投时重复审核
func (s *JobHandler) reviewJob(ctx context.Context, jobID uint64, row map[string]interface{}) error {
	lockKey := consts.JobReviewLock + strconv.FormatUint(jobID, 10)
	uuidStr := uuid.NewString()
	lock, err := redis.TryLock(ctx, lockKey, uuidStr, 5*time.Minute, 1)
	if err != nil {
		return err
	}
	if !lock {
		return nil
	}
	defer redis.UnLock(ctx, lockKey, uuidStr)

	result, err := llm.JobReview(ctx, &llm.JobContent{
		Title:       StrToString(row["title"]),
		Description: StrToString(row["description"]),
		Location:    StrToString(row["location"]),
		SalaryMin:   StrToInt(row["salary_min"]),
		SalaryMax:   StrToInt(row["salary_max"]),
	})
	if err != nil {
		// AI 不可用时不阻塞消费，转人工复核
		log.WarnContext(ctx, "Job review fell back to manual", "job_id", jobID, "err", err)
		result = llm.ReviewWarn
	}

	switch result {
	case llm.ReviewPass:
		return s.jobDBRepo.PublishJob(ctx, jobID, time.Now())
	case llm.ReviewDeny:
		_, err = s.jobDBRepo.UpdateJobStatus(ctx, jobID, consts.JobStatusRejected, util.PtrStr("内容审核未通过"))
		return err
	default:
		_, err = s.jobDBRepo.UpdateJobStatus(ctx, jobID, consts.JobStatusManual, nil)
		return err
	}
}

func (s *JobHandler) toESModel(row map[string]interface{}) *es.JobES {
	return &es.JobES{
		ID:          StrToUint64(row["id"]),
		CompanyID:   StrToUint64(row["company_id"]),
		Title:       StrToString(row["title"]),
		Description: StrToString(row["description"]),
		Skills:      util.SplitSkills(StrToString(row["skills"])),
		Location:    StrToString(row["location"]),
		Remote:      StrToInt(row["remote"]) == 1,
		SalaryMin:   StrToInt(row["salary_min"]),
		SalaryMax:   StrToInt(row["salary_max"]),
		Status:      StrToInt(row["status"]),
		PublishedAt: StrToDateTime(row["published_at"]),
	}
}
