package model

import "time"

// PitchDeck 路演稿及其 AI 分析结果
type PitchDeck struct {
	ID              uint64  `gorm:"primaryKey"`
	AccountID       uint64  `gorm:"not null;index"`
	Title           string  `gorm:"type:varchar(100);not null"`
	ObjectKey       string  `gorm:"type:varchar(512);not null"` // 私有桶中的对象 Key
	FileSize        int64   `gorm:"not null;default:0"`
	WebsiteURL      *string `gorm:"type:varchar(255)"` // 项目官网，分析时抓取补充上下文
	Status          int     `gorm:"type:tinyint;not null;default:0;index"`
	AnalysisSummary *string `gorm:"type:text"`
	Score           *int    `gorm:"type:int"` // 0-100
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PitchDeck) TableName() string {
	return "pitch_decks"
}
