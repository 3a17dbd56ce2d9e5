package dto

import "time"

// CreateDeckDTO 上传路演稿的元数据
type CreateDeckDTO struct {
	Title      string  `json:"title" binding:"required" validate:"min=1,max=100"`
	WebsiteURL *string `json:"website_url" validate:"omitempty,url"`
}

// DeckDTO 路演稿响应
type DeckDTO struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	DownloadURL     string    `json:"download_url,omitempty"` // 限时签名地址
	WebsiteURL      *string   `json:"website_url,omitempty"`
	Status          int       `json:"status"`
	AnalysisSummary *string   `json:"analysis_summary,omitempty"`
	Score           *int      `json:"score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
