package model

import "time"

// Report 举报记录
type Report struct {
	ID         uint64  `gorm:"primaryKey"`
	ReporterID uint64  `gorm:"not null;index"`
	TargetType int     `gorm:"type:tinyint;not null"` // 1-职位, 2-账号
	TargetID   uint64  `gorm:"not null;index:idx_target"`
	Reason     string  `gorm:"type:varchar(500);not null"`
	Status     int     `gorm:"type:tinyint;not null;default:0;index"`
	HandlerID  *uint64 // 处理人
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Report) TableName() string {
	return "reports"
}
