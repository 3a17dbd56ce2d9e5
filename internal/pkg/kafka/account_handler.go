package kafka

import (
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/util"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// AccountHandler 消费账号相关表的 CDC 变更，同步人才搜索索引
// 同一个 topic 上会同时出现 accounts 与 account_detail 两张表的变更
type AccountHandler struct {
	talentESRepo es.TalentRepo
}

func NewAccountHandler(talentESRepo es.TalentRepo) *AccountHandler {
	return &AccountHandler{
		talentESRepo: talentESRepo,
	}
}

func (s *AccountHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("account consumer setup")
	return nil
}

func (s *AccountHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("account consumer cleanup")
	return nil
}

func (s *AccountHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-account consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-account process batch error", "err", err)
		return err
	}
	log.Info("topic-account consume claim end")
	return nil
}

func (s *AccountHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "err", err)
		return err
	}
	if len(canalMsg.Data) == 0 {
		return errors.New("canal message data is empty")
	}

	switch canalMsg.Table {
	case "accounts":
		return s.handleAccountRow(ctx, &canalMsg)
	case "account_detail":
		return s.handleDetailRow(ctx, &canalMsg)
	default:
		return nil
	}
}

func (s *AccountHandler) handleAccountRow(ctx context.Context, canalMsg *CanalMessage) error {
	row := canalMsg.Data[0]
	if StrToInt(row["is_delete"]) == 1 {
		return s.talentESRepo.DeleteTalent(ctx, StrToUint64(row["id"]))
	}
	return nil
}

func (s *AccountHandler) handleDetailRow(ctx context.Context, canalMsg *CanalMessage) error {
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	row := canalMsg.Data[0]
	talent := &es.TalentES{
		ID:        StrToUint64(row["account_id"]),
		Nickname:  StrToString(row["nickname"]),
		AvatarURL: StrToString(row["avatar_url"]),
		Region:    StrToString(row["region"]),
		Skills:    util.SplitSkills(StrToString(row["skills"])),
	}
	if headline := StrToString(row["headline"]); headline != "" {
		talent.Headline = &headline
	}
	if bio := StrToString(row["bio"]); bio != "" {
		talent.Bio = &bio
	}

	return s.talentESRepo.IndexTalent(ctx, talent, canalMsg.TS)
}
