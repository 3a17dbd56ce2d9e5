package model

import "time"

// JobPosting 职位信息
type JobPosting struct {
	ID          uint64     `gorm:"primaryKey"`
	CompanyID   uint64     `gorm:"not null;index"` // 发布者账号ID
	Title       string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text;not null"`
	Skills      *string    `gorm:"type:varchar(512)"` // 逗号分隔
	Location    string     `gorm:"type:varchar(100)"`
	Remote      bool       `gorm:"type:tinyint(1);default:0"`
	SalaryMin   int        `gorm:"type:int;default:0"`
	SalaryMax   int        `gorm:"type:int;default:0"`
	Status      int        `gorm:"type:tinyint;not null;default:0;index"`
	RejectNote  *string    `gorm:"type:varchar(255)"` // 审核不通过原因
	PublishedAt *time.Time `gorm:"index"`
	Version     int64      `gorm:"not null;default:0"` // ES 外部版本号
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// JobApplication 投递记录
type JobApplication struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	JobID     uint64  `gorm:"uniqueIndex:idx_job_applicant;not null"`
	AccountID uint64  `gorm:"uniqueIndex:idx_job_applicant;index;not null"`
	ResumeKey string  `gorm:"type:varchar(512);not null"` // 对象存储中的简历 Key
	CoverNote *string `gorm:"type:varchar(500)"`
	Status    int     `gorm:"type:tinyint;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (JobApplication) TableName() string {
	return "job_applications"
}
