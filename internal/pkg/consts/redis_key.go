package consts

const (
	AccountHomeInfoKey   = "account:home:info:"
	AccountSimpleInfoKey = "account:simple:info:"
	JobViewKey           = "job:view:"
	JobViewDirtyKey      = "job:view:dirty"
	IMAccountKey         = "im:account:"
	StreakCacheKey       = "streak:record:"
)

const (
	AccountDetailLock = "account:detail:lock:"
	ReportLock        = "report:lock:"
	DeckAnalyzeLock   = "deck:analyze:lock:"
	JobReviewLock     = "job:review:lock:"
)
