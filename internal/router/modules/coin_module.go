package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expertlink/api/internal/container"
	handlers "github.com/expertlink/api/internal/interface/http"
	"github.com/expertlink/api/internal/interface/middleware"
)

// CoinModule wires the coin transfer route.
type CoinModule struct {
	Handler *handlers.CoinHandler
}

func NewCoinModule(h *handlers.CoinHandler) *CoinModule {
	return &CoinModule{Handler: h}
}

func (m *CoinModule) Register(rg *gin.RouterGroup) {
	sendLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIP(), nil) // 30 transfers/min per IP

	rg.POST("/send-coins", sendLimiter, m.Handler.SendCoins)
}
