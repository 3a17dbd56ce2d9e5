package model

type AccountRole struct {
	AccountID uint64 `gorm:"primaryKey" json:"account_id"`
	RoleID    uint64 `gorm:"primaryKey;index:idx_role_id" json:"role_id"`
}

func (AccountRole) TableName() string {
	return "account_roles"
}
