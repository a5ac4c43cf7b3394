package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/config"
	"github.com/drayac/Martin/internal/httpapi"
	"github.com/drayac/Martin/internal/store/gormstore"
	"github.com/drayac/Martin/internal/store/redisstore"
	"github.com/drayac/Martin/internal/store/userfile"
)

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	var store account.Store
	switch cfg.StoreBackend {
	case "", "file":
		store = userfile.New(cfg.UsersFile, cfg.UserCacheTTL, logger)
	case "db":
		gdb, err := gormstore.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		store, err = gormstore.New(gdb, logger)
		if err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
	default:
		logger.Fatal("unsupported store backend", zap.String("backend", cfg.StoreBackend))
	}

	cache := redisstore.New(redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), logger)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpapi.NewRouter(cfg, logger, store, cache)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("store", cfg.StoreBackend),
			zap.String("provider", cfg.AIProvider),
			zap.String("model", cfg.Model))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
