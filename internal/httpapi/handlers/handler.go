package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/ai"
	"github.com/drayac/Martin/internal/chat"
	"github.com/drayac/Martin/internal/config"
	"github.com/drayac/Martin/internal/httpapi/middleware"
	"github.com/drayac/Martin/internal/session"
	"github.com/drayac/Martin/internal/store/redisstore"
)

type Handler struct {
	Cfg      config.Config
	Log      *zap.Logger
	Sessions *session.Manager
	Accounts *account.Manager
	ChatSvc  *chat.Service
	History  *chat.Log
	Catalog  *ai.Catalog
}

func NewHandler(cfg config.Config, logger *zap.Logger, store account.Store, cache *redisstore.Cache) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := ai.NewRegistry(cfg.AIProvider)
	reg.Register("groq", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.Model
		}
		return ai.NewGroqProvider(cfg.GroqBaseURL, cfg.GroqAPIKey, m, cfg.Temperature), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m, cfg.Temperature), nil
	})

	history := chat.NewLog(store, logger)

	return &Handler{
		Cfg:      cfg,
		Log:      logger,
		Sessions: session.NewManager(cfg.SessionTTL),
		Accounts: account.NewManager(store, logger, cfg.GuestCleanupInterval),
		ChatSvc:  chat.NewService(reg, history, logger, cfg.Model),
		History:  history,
		Catalog:  ai.NewCatalog(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.ModelCacheTTL, cache, logger),
	}
}

func sessionFromContext(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(middleware.SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
