package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expertlink/api/internal/container"
	handlers "github.com/expertlink/api/internal/interface/http"
	"github.com/expertlink/api/internal/interface/middleware"
)

// UserModule wires the profile directory routes.
// The by-id and by-email lookups both exist because the original
// frontend uses both.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.GET("/users", m.Handler.List)
	rg.GET("/users/search", m.Handler.Search)
	rg.GET("/users/:email", m.Handler.GetByEmail)
	rg.PUT("/users/:email", m.Handler.Update)
	rg.POST("/users/:email/avatar", uploadLimiter, m.Handler.UploadPicture)
	rg.GET("/user/:id", m.Handler.GetByID)
	rg.GET("/leaderboard", m.Handler.Leaderboard)
}
