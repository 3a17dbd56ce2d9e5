package dto

import "time"

// UpgradePlanDTO 升级订阅请求
type UpgradePlanDTO struct {
	Plan   string `json:"plan" binding:"required" validate:"oneof=PRO TEAM"`
	Months int    `json:"months" binding:"required" validate:"min=1,max=36"`
}

// SubscriptionDTO 订阅响应
type SubscriptionDTO struct {
	Plan      string     `json:"plan"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
