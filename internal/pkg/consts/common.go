package consts

const (
	MimePrefixImage = "image"
	MimePdf         = "application/pdf"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// 角色名
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// 职位状态
const (
	JobStatusPending  = 0 // 审核中
	JobStatusOpen     = 1 // 招聘中
	JobStatusRejected = 2 // 审核拒绝
	JobStatusManual   = 3 // 待人工复核
	JobStatusClosed   = 4 // 已关闭
)

// 路演稿（Pitch Deck）分析状态
const (
	DeckStatusUploaded  = 0
	DeckStatusAnalyzing = 1
	DeckStatusDone      = 2
	DeckStatusFailed    = 3
)

// 订阅计划
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
	PlanTeam = "TEAM"
)

// 举报状态
const (
	ReportStatusPending  = 0
	ReportStatusResolved = 1
	ReportStatusIgnored  = 2
)

// 举报目标类型
const (
	ReportTargetJob     = 1
	ReportTargetAccount = 2
)
