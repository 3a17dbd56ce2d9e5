package model

type AccountDetail struct {
	AccountID uint64  `gorm:"primaryKey"`
	Nickname  string  `gorm:"type:varchar(50);not null"`
	AvatarURL string  `gorm:"type:varchar(512);column:avatar_url;default:'default_avatar.png'"`
	Headline  *string `gorm:"type:varchar(100);default:''"`
	Bio       *string `gorm:"type:varchar(255);default:''"`
	Skills    *string `gorm:"type:varchar(512)"` // 逗号分隔
	Region    *string `gorm:"type:varchar(255)"`
	Website   *string `gorm:"type:varchar(255)"`
}

func (AccountDetail) TableName() string {
	return "account_detail"
}
