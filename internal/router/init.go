package router

import (
	"github.com/expertlink/api/internal/application"
	"github.com/expertlink/api/internal/container"
	pginfra "github.com/expertlink/api/internal/infrastructure/postgres"
	handlers "github.com/expertlink/api/internal/interface/http"
	"github.com/expertlink/api/internal/router/modules"
)

func buildAccountService() *application.AccountService {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	return application.NewAccountService(
		pginfra.NewAccountRepository(pool),
		pginfra.NewTransferLogRepository(pool),
		container.GetAuditPub(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESAccountsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		cfg.LeaderboardTTL,
	)
}

func buildChatService() *application.ChatService {
	return application.NewChatService(
		pginfra.NewMessageRepository(container.GetPGPool()),
		container.GetHub(),
		container.GetLogger(),
	)
}

// InitModules initializes all application modules and registers them
// with the router registry. Called once during startup.
func InitModules(r *Registry) {
	accounts := buildAccountService()
	chat := buildChatService()

	userHandler := handlers.NewUserHandler(accounts, container.GetLogger())
	coinHandler := handlers.NewCoinHandler(accounts, container.GetLogger())
	chatHandler := handlers.NewChatHandler(chat, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewCoinModule(coinHandler))
	r.Add(modules.NewChatModule(chatHandler))
	r.Add(modules.NewDebugModule())
}
