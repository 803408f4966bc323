package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/api"
	"visitor-kiosk/internal/app"
	"visitor-kiosk/internal/db"
	"visitor-kiosk/internal/notification"
	"visitor-kiosk/internal/store"
)

func main() {
	env := app.Environment()
	logger := app.NewLogger(env)
	defer logger.Sync()

	configPath := app.ConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.String("path", configPath), zap.Error(err))
	}
	logger.Info("configuration loaded", zap.String("path", configPath), zap.String("env", env))

	room := config.LoadRoom(cfg.Room, logger)

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var notifier api.Notifier
	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
		pool.Start(ctx)
		notifier = pool
	} else {
		logger.Warn("VAPID keys not configured, sponsor notifications disabled")
	}

	handler := api.NewHandler(appStore, room, cfg.Media.Dir, notifier, cfg.Push.PublicKey, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimit:  rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:   cfg.Server.CacheTTL,
		UploadsDir: cfg.Server.UploadsDir,
		MediaDir:   cfg.Media.Dir,
		StaticDir:  cfg.Server.StaticDir,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("gateway listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("gateway ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping gateway")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("gateway shutdown", zap.Error(err))
	}
	logger.Info("gateway stopped")
}
