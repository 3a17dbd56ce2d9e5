package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/goccy/go-json"
)

// DeckReport 路演稿分析结果
type DeckReport struct {
	Summary string `json:"summary"`
	Score   int    `json:"score"` // 0-100
}

// AnalyzeDeck 分析路演稿文本，siteContext 为官网抓取结果，可为空
func AnalyzeDeck(ctx context.Context, deckText string, siteContext string) (*DeckReport, error) {
	userPrompt := deckText
	if siteContext != "" {
		userPrompt = fmt.Sprintf("【路演稿内容】\n%s\n\n【项目官网信息】\n%s", deckText, siteContext)
	}

	resp, err := fetchModel(ctx, deckAnalyzePrompt, userPrompt, 0.3)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("AI大模型未返回结果")
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	report := &DeckReport{}
	if err = json.Unmarshal([]byte(cleaned), report); err != nil {
		log.Error("AI大模型返回数据解析失败", "err", err)
		return nil, err
	}

	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 100 {
		report.Score = 100
	}
	return report, nil
}
