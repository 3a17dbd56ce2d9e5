package llm

import (
	"StartLinker/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

var jobReviewPrompt string
var deckAnalyzePrompt string

func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	jobReviewPrompt = readPrompt("./prompts/job-review.txt")
	deckAnalyzePrompt = readPrompt("./prompts/deck-analyze.txt")

	return nil
}
