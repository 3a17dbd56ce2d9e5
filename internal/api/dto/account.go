package dto

import "time"

// AccountDTO 账号信息
type AccountDTO struct {
	AccountID *uint64    `json:"account_id,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Headline  *string    `json:"headline,omitempty" validate:"omitempty,max=100"`
	Bio       *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	Skills    []string   `json:"skills,omitempty"`
	Region    *string    `json:"region,omitempty"`
	Website   *string    `json:"website,omitempty" validate:"omitempty,url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// RegisterDTO 注册
type RegisterDTO struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`

	Nickname string  `json:"nickname" validate:"required,min=1,max=15"`
	Headline *string `json:"headline"`
	Bio      *string `json:"bio"`
	Region   *string `json:"region"`
}

// CredentialDTO 登录凭证，identifier 可以是用户名或邮箱
type CredentialDTO struct {
	Identifier *string `json:"identifier,omitempty"`
	Password   *string `json:"password,omitempty"`
}

// ChangeUsernameDTO 修改用户名
type ChangeUsernameDTO struct {
	Username *string `json:"username" binding:"required" validate:"min=3,max=20"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword *string `json:"old_password" binding:"required" validate:"min=6,max=20"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// StreakDTO 连续登录信息
type StreakDTO struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastLoginDate string `json:"last_login_date"`
	TotalLogins   int    `json:"total_logins"`
}

// TalentDTO 人才搜索结果
type TalentDTO struct {
	AccountID uint64   `json:"account_id"`
	Nickname  string   `json:"nickname"`
	Headline  *string  `json:"headline,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	AvatarURL string   `json:"avatar_url"`
	Region    string   `json:"region,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// BanAccountDTO 封禁/解封请求
type BanAccountDTO struct {
	AccountID uint64 `json:"account_id" binding:"required"`
}
