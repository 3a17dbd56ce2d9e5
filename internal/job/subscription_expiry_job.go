package job

import (
	"StartLinker/internal/pkg/logger"
	"StartLinker/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// SubscriptionExpiryJob 定时将到期的付费订阅降回免费计划
type SubscriptionExpiryJob struct {
	subscriptionSvc service.SubscriptionService
}

func NewSubscriptionExpiryJob(subscriptionSvc service.SubscriptionService) *SubscriptionExpiryJob {
	return &SubscriptionExpiryJob{subscriptionSvc: subscriptionSvc}
}

func (s *SubscriptionExpiryJob) Run() {
	traceID := "job-subscription-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	expired, err := s.subscriptionSvc.ExpireOverdueSubscriptions(ctx)
	if err != nil {
		log.ErrorContext(ctx, "expire overdue subscriptions error", "err", err)
		return
	}

	if expired > 0 {
		log.InfoContext(ctx, "expired overdue subscriptions", "count", expired)
	}
}
