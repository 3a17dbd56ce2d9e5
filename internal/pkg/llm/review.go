package llm

import (
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

const (
	ReviewPass = iota + 1
	ReviewWarn
	ReviewDeny

	ReviewPassStr = "1"
	ReviewWarnStr = "2"
	ReviewDenyStr = "3"
)

var mapReview = map[string]int{
	ReviewPassStr: ReviewPass,
	ReviewWarnStr: ReviewWarn,
	ReviewDenyStr: ReviewDeny,
}

// JobContent 送审的职位内容
type JobContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	SalaryMin   int    `json:"salary_min"`
	SalaryMax   int    `json:"salary_max"`
}

// JobReview 审核职位内容是否合规（虚假招聘、歧视性条款、违法信息等）
func JobReview(ctx context.Context, content *JobContent) (int, error) {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		log.Error("AI大模型请求数据序列化失败", "err", err)
		return ReviewWarn, err
	}

	resp, err := fetchModel(ctx, jobReviewPrompt, string(contentJSON), 0.1)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return ReviewWarn, err
	}

	if len(resp.Choices) > 0 {
		result := mapReview[resp.Choices[0].Content]
		// AI 没有成功返回，默认进入人工审核
		if result == 0 {
			return ReviewWarn, nil
		}
		return result, nil
	}

	return ReviewWarn, nil
}
