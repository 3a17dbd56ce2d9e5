package api

import (
	"StartLinker/internal/api/middleware"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		accountGroup := apiGroup.Group("/account")
		{
			// 无需登录即可访问的接口
			accountGroup.POST("/login", group.AccountHandler.Login)
			accountGroup.POST("/register", group.AccountHandler.Register)
			accountGroup.GET("/:account_id/home", group.AccountHandler.GetHomeInfo)
			accountGroup.GET("/batch/simple", group.AccountHandler.GetSimpleInfoByIds)
			accountGroup.GET("/search", group.AccountHandler.SearchTalents)

			authGroup := accountGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.AccountHandler.Logout)
				authGroup.GET("/info", group.AccountHandler.GetAccountInfo)
				authGroup.PUT("/info", group.AccountHandler.UpdateAccountInfo)
				authGroup.PUT("/password", group.AccountHandler.ChangePassword)
				authGroup.PUT("/username", group.AccountHandler.ChangeUsername)
				authGroup.POST("/avatar", group.AccountHandler.UploadAvatar)
				authGroup.GET("/streak", group.AccountHandler.GetStreak)
				authGroup.POST("/cancel", group.AccountHandler.CancelAccount)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/ban", group.AccountHandler.BanAccount)
				adminGroup.POST("/unban", group.AccountHandler.UnbanAccount)
				adminGroup.GET("/roles", group.AccountHandler.GetAllRoles)
				adminGroup.POST("/role", group.AccountHandler.AddAccountRole)
				adminGroup.DELETE("/role", group.AccountHandler.DeleteAccountRole)
			}
		}

		jobGroup := apiGroup.Group("/jobs")
		{
			jobGroup.GET("/search", group.JobHandler.SearchJobs)

			authOptGroup := jobGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/detail/:job_id", group.JobHandler.GetJob)
			}

			authGroup := jobGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.JobHandler.CreateJob)
				authGroup.GET("/self", group.JobHandler.ListMyJobs)
				authGroup.POST("/:job_id/close", group.JobHandler.CloseJob)
				authGroup.POST("/:job_id/apply", group.JobHandler.ApplyJob)
				authGroup.GET("/:job_id/applications", group.JobHandler.ListJobApplications)
				authGroup.GET("/applications/self", group.JobHandler.ListMyApplications)
				authGroup.GET("/:job_id/metrics/7d", group.JobHandler.GetMetrics7Days)
				authGroup.GET("/:job_id/metrics/30d", group.JobHandler.GetMetrics30Days)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.GET("", group.WSHandler.Connect)
			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send", group.IMHandler.SendMessage)
				authGroup.GET("/history", group.IMHandler.GetChatHistory)
				authGroup.GET("/sync", group.IMHandler.SyncMessages)
				authGroup.GET("/list", group.IMHandler.GetConversationList)
				authGroup.POST("/read", group.IMHandler.MarkAsRead)
			}
		}

		deckGroup := apiGroup.Group("/decks")
		deckGroup.Use(middleware.AuthMiddleware())
		{
			deckGroup.POST("", group.DeckHandler.CreateDeck)
			deckGroup.GET("/list", group.DeckHandler.ListDecks)
			deckGroup.GET("/:deck_id", group.DeckHandler.GetDeck)
			deckGroup.DELETE("/:deck_id", group.DeckHandler.DeleteDeck)
			deckGroup.POST("/:deck_id/analyze", group.DeckHandler.AnalyzeDeck)
		}

		subscriptionGroup := apiGroup.Group("/subscription")
		subscriptionGroup.Use(middleware.AuthMiddleware())
		{
			subscriptionGroup.GET("", group.SubscriptionHandler.GetSubscription)
			subscriptionGroup.POST("/upgrade", group.SubscriptionHandler.UpgradePlan)
			subscriptionGroup.POST("/cancel", group.SubscriptionHandler.CancelPlan)
		}

		reportGroup := apiGroup.Group("/reports")
		reportGroup.Use(middleware.AuthMiddleware())
		{
			reportGroup.POST("", group.ReportHandler.CreateReport)

			adminGroup := reportGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.GET("/pending", group.ReportHandler.ListPendingReports)
				adminGroup.PUT("/:report_id", group.ReportHandler.HandleReport)
			}
		}
	}

	return r
}
