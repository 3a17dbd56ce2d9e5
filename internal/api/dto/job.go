package dto

import "time"

// CreateJobDTO 发布职位请求体
type CreateJobDTO struct {
	Title       string  `json:"title" binding:"required" validate:"min=2,max=100"`
	Description string  `json:"description" binding:"required" validate:"min=10"`
	Skills      *string `json:"skills"`
	Location    string  `json:"location"`
	Remote      bool    `json:"remote"`
	SalaryMin   int     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax   int     `json:"salary_max" validate:"omitempty,min=0"`
}

// JobDTO 职位响应
type JobDTO struct {
	ID          uint64     `json:"id"`
	CompanyID   uint64     `json:"company_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Skills      []string   `json:"skills,omitempty"`
	Location    string     `json:"location"`
	Remote      bool       `json:"remote"`
	SalaryMin   int        `json:"salary_min"`
	SalaryMax   int        `json:"salary_max"`
	Status      int        `json:"status"`
	ViewCount   int64      `json:"view_count"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SearchJobDTO 职位搜索请求
type SearchJobDTO struct {
	Keyword    string `form:"keyword"`
	Location   string `form:"location"`
	RemoteOnly bool   `form:"remote_only"`
	Page       int    `form:"page"`
	Size       int    `form:"size"`
}

// ApplyJobDTO 投递请求体
type ApplyJobDTO struct {
	CoverNote *string `json:"cover_note" validate:"omitempty,max=500"`
}

// ApplicationDTO 投递记录响应
type ApplicationDTO struct {
	ID        uint64    `json:"id"`
	JobID     uint64    `json:"job_id"`
	AccountID uint64    `json:"account_id"`
	ResumeURL string    `json:"resume_url,omitempty"`
	CoverNote *string   `json:"cover_note,omitempty"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// JobMetricDTO 职位指标响应
type JobMetricDTO struct {
	MetricDate string `json:"metric_date"`
	ViewCount  int    `json:"view_count"`
	ApplyCount int    `json:"apply_count"`
}
