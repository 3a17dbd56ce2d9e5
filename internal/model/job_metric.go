package model

import "time"

// JobMetric 职位每日指标，由定时任务从 Redis 回刷
type JobMetric struct {
	ID         uint64    `gorm:"primaryKey"`
	JobID      uint64    `gorm:"not null;uniqueIndex:idx_job_date"`
	MetricDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_job_date"`
	ViewCount  int       `gorm:"type:int;not null;default:0"`
	ApplyCount int       `gorm:"type:int;not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (JobMetric) TableName() string {
	return "job_metrics"
}
