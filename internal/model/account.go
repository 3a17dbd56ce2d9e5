package model

import (
	"time"
)

type Account struct {
	ID          uint64     `gorm:"primaryKey"`
	Username    *string    `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	Email       *string    `gorm:"type:varchar(255);uniqueIndex:idx_email"`
	Password    *string    `gorm:"type:varchar(255)"`
	IsBan       bool       `gorm:"type:tinyint(1);default:0"`
	IsDelete    bool       `gorm:"type:tinyint(1);default:0"`
	LastLoginAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	AccountDetail AccountDetail `gorm:"foreignKey:AccountID;references:ID"`
	AccountRoles  []AccountRole `gorm:"foreignKey:AccountID;references:ID"`
}

func (Account) TableName() string {
	return "accounts"
}
