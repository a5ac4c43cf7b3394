package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/common"
	"github.com/drayac/Martin/internal/config"
	"github.com/drayac/Martin/internal/httpapi/handlers"
	"github.com/drayac/Martin/internal/httpapi/middleware"
	"github.com/drayac/Martin/internal/store/redisstore"
)

func NewRouter(cfg config.Config, logger *zap.Logger, store account.Store, cache *redisstore.Cache) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(cfg, logger, store, cache)

	r.GET("/ping", h.Ping)
	r.GET("/healthz", h.Healthz)

	// everything below runs with a resolved session (guest minted on
	// first visit)
	api := r.Group("/api")
	api.Use(middleware.Session(h.Sessions, h.Accounts, cfg.SessionSecret, cfg.SessionTTL, logger))
	api.GET("/session", h.GetSession)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.POST("/chat", h.SendChatMessage)
	api.POST("/chat/wrapup", h.WrapUpChat)
	api.GET("/history", h.GetHistory)
	api.POST("/language", h.SetLanguage)
	api.GET("/models", h.GetModels)

	return r
}
