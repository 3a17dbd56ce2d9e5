package model

import "time"

// Subscription 账号订阅计划
type Subscription struct {
	ID        uint64     `gorm:"primaryKey"`
	AccountID uint64     `gorm:"uniqueIndex:idx_sub_account;not null"`
	Plan      string     `gorm:"type:varchar(20);not null;default:'FREE'"`
	IsActive  bool       `gorm:"type:tinyint(1);default:1;index"`
	ExpiresAt *time.Time `gorm:"index"` // FREE 计划无过期时间
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}
