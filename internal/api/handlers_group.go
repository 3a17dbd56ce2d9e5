package api

import "StartLinker/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AccountHandler      *handler.AccountHandler
	JobHandler          *handler.JobHandler
	IMHandler           *handler.IMHandler
	WSHandler           *handler.WsHandler
	DeckHandler         *handler.DeckHandler
	SubscriptionHandler *handler.SubscriptionHandler
	ReportHandler       *handler.ReportHandler
}
