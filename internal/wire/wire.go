package wire

import (
	"StartLinker/internal/api"
	"StartLinker/internal/api/config"
	"StartLinker/internal/api/handler"
	"StartLinker/internal/job"
	"StartLinker/internal/pkg/cron"
	"StartLinker/internal/pkg/es"
	"StartLinker/internal/pkg/kafka"
	"StartLinker/internal/pkg/llm"
	"StartLinker/internal/pkg/mongo"
	"StartLinker/internal/repository"
	"StartLinker/internal/service"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	IMService    service.IMService
	WebFetcher   *llm.WebFetcher
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	accountRepo := repository.NewAccountRepo(db)
	accountRolesRepo := repository.NewAccountRolesRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	streakRepo := repository.NewStreakRepo(db)
	jobRepo := repository.NewJobRepo(db)
	jobMetricRepo := repository.NewJobMetricRepository(db)
	convRepo := repository.NewConversationRepo(db)
	deckRepo := repository.NewDeckRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoDB)

	talentESRepo := es.NewTalentRepo()
	jobESRepo := es.NewJobRepo()

	webFetcher := llm.NewWebFetcher()

	streakService := service.NewStreakService(streakRepo)
	accountService := service.NewAccountService(accountRepo, roleRepo, talentESRepo, streakService)
	accountRolesService := service.NewAccountRolesService(accountRolesRepo)
	jobService := service.NewJobService(jobRepo, jobMetricRepo, jobESRepo)
	imService := service.NewIMService(convRepo, messageRepo)
	deckService := service.NewDeckService(deckRepo, subscriptionRepo, webFetcher)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)
	reportService := service.NewReportService(reportRepo, jobRepo, accountRepo)

	handlers := &api.HandlersGroup{
		AccountHandler:      handler.NewAccountHandler(accountService, accountRolesService, streakService),
		JobHandler:          handler.NewJobHandler(jobService),
		IMHandler:           handler.NewIMHandler(imService),
		WSHandler:           handler.NewWsHandler(imService),
		DeckHandler:         handler.NewDeckHandler(deckService),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService),
		ReportHandler:       handler.NewReportHandler(reportService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, talentESRepo, jobESRepo, jobRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewJobMetricsJob(jobMetricRepo),
		job.NewSubscriptionExpiryJob(subscriptionService),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		IMService:    imService,
		WebFetcher:   webFetcher,
	}, nil
}
