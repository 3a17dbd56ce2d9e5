package handler

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/pkg/response"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

func (s *SubscriptionHandler) GetSubscription(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	sub, err := s.subscriptionSvc.GetSubscription(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sub)
}

func (s *SubscriptionHandler) CancelPlan(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	sub, err := s.subscriptionSvc.CancelPlan(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sub)
}

func (s *SubscriptionHandler) UpgradePlan(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	var upgradeDTO dto.UpgradePlanDTO
	if err := c.ShouldBind(&upgradeDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&upgradeDTO); err != nil {
		response.Error(c, err)
		return
	}
	sub, err := s.subscriptionSvc.UpgradePlan(c.Request.Context(), accountID, &upgradeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sub)
}
