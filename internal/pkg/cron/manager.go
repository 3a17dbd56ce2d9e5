package cron

import (
	"StartLinker/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine                *cron.Cron
	jobMetricsJob         *job.JobMetricsJob
	subscriptionExpiryJob *job.SubscriptionExpiryJob
}

func NewCronManager(jobMetricsJob *job.JobMetricsJob, subscriptionExpiryJob *job.SubscriptionExpiryJob) *Manager {
	return &Manager{
		engine:                cron.New(cron.WithSeconds()),
		jobMetricsJob:         jobMetricsJob,
		subscriptionExpiryJob: subscriptionExpiryJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 浏览量每十分钟落一次库
	if _, err := s.engine.AddJob("0 */10 * * * *", s.jobMetricsJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.subscriptionExpiryJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
