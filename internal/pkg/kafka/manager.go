package kafka

import (
	"StartLinker/internal/api/config"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	accountConsumer sarama.ConsumerGroup
	accountHandler  sarama.ConsumerGroupHandler

	jobConsumer sarama.ConsumerGroup
	jobHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	talentESRepo es.TalentRepo,
	jobESRepo es.JobRepo,
	jobDBRepo repository.JobRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	accountConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaAccountConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	accountHandler := NewAccountHandler(talentESRepo)

	jobConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaJobConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	jobHandler := NewJobHandler(jobDBRepo, jobESRepo)

	return &ConsumerManager{
		accountConsumer: accountConsumer,
		accountHandler:  accountHandler,
		jobConsumer:     jobConsumer,
		jobHandler:      jobHandler,
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Account Consumer
	go func() {
		topic := cfg.KafkaAccountConsumer.Topic
		log.Info("Account consumer started", "topic", topic)
		for {
			if err := m.accountConsumer.Consume(ctx, []string{topic}, m.accountHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Job Consumer
	go func() {
		topic := cfg.KafkaJobConsumer.Topic
		log.Info("Job consumer started", "topic", topic)
		for {
			if err := m.jobConsumer.Consume(ctx, []string{topic}, m.jobHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.accountConsumer.Close(); err != nil {
		log.Error("Failed to close account consumer", "err", err)
	}
	if err := m.jobConsumer.Close(); err != nil {
		log.Error("Failed to close job consumer", "err", err)
	}

	return nil
}
