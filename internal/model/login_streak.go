package model

import "time"

// LoginStreak 连续登录统计，按 UTC 日历日计算
type LoginStreak struct {
	AccountID     uint64    `gorm:"primaryKey"`
	CurrentStreak int       `gorm:"type:int;not null;default:0"`
	LongestStreak int       `gorm:"type:int;not null;default:0"`
	LastLoginDate time.Time `gorm:"type:date;not null"`
	TotalLogins   int       `gorm:"type:int;not null;default:0"`
	UpdatedAt     time.Time
}

func (LoginStreak) TableName() string {
	return "login_streaks"
}
