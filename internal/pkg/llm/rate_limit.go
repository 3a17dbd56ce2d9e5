package llm

import (
	"golang.org/x/sync/semaphore"
)

var (
	TextWeight  = int64(5)
	TextSem     = semaphore.NewWeighted(TextWeight)
	FetchWeight = int64(3)
	FetchSem    = semaphore.NewWeighted(FetchWeight)
)
