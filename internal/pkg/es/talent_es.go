package es

// TalentES 对应 talent_index 的文档结构
type TalentES struct {
	ID             uint64   `json:"id"`
	Nickname       string   `json:"nickname"`
	Headline       *string  `json:"headline,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	AvatarURL      string   `json:"avatar_url"`
	Region         string   `json:"region"`
	Skills         []string `json:"skills,omitempty"`
	FollowersCount int      `json:"followers_count"`
}
