package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expertlink/api/internal/container"
	handlers "github.com/expertlink/api/internal/interface/http"
	"github.com/expertlink/api/internal/interface/middleware"
)

// ChatModule wires message send and history. The live websocket
// endpoint is mounted at the engine root by main, mirroring the
// original socket mount point.
type ChatModule struct {
	Handler *handlers.ChatHandler
}

func NewChatModule(h *handlers.ChatHandler) *ChatModule {
	return &ChatModule{Handler: h}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	sendLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil) // 60 msgs/min per IP

	rg.POST("/chat", sendLimiter, m.Handler.Send)
	rg.GET("/chat/:user1/:user2", m.Handler.History)
}
