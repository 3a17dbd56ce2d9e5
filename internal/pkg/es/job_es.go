package es

import "time"

// JobES 对应 job_index 的文档结构
type JobES struct {
	ID          uint64    `json:"id"`
	CompanyID   uint64    `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills,omitempty"`
	Location    string    `json:"location"`
	Remote      bool      `json:"remote"`
	SalaryMin   int       `json:"salary_min"`
	SalaryMax   int       `json:"salary_max"`
	Status      int       `json:"status"`
	PublishedAt time.Time `json:"published_at"`
}
