package dto

import "time"

// CreateReportDTO 举报请求体
type CreateReportDTO struct {
	TargetType int    `json:"target_type" binding:"required" validate:"oneof=1 2"`
	TargetID   uint64 `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required" validate:"min=5,max=500"`
}

// ReportDTO 举报记录响应
type ReportDTO struct {
	ID         uint64    `json:"id"`
	ReporterID uint64    `json:"reporter_id"`
	TargetType int       `json:"target_type"`
	TargetID   uint64    `json:"target_id"`
	Reason     string    `json:"reason"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandleReportDTO 处理举报请求
type HandleReportDTO struct {
	Status int `json:"status" binding:"required" validate:"oneof=1 2"`
}
