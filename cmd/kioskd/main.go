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

	"go.uber.org/zap"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/app"
	"visitor-kiosk/internal/badge"
	"visitor-kiosk/internal/gateway"
	"visitor-kiosk/internal/kiosk"
	"visitor-kiosk/internal/kioskapi"
	"visitor-kiosk/internal/poller"
	"visitor-kiosk/internal/printing"
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
	kcfg := cfg.Kiosk
	logger.Info("configuration loaded",
		zap.String("path", configPath),
		zap.String("env", env),
		zap.String("gateway", kcfg.GatewayURL))

	renderer, err := badge.NewRenderer(kcfg.Printer.DPI, kcfg.Printer.LogoPath)
	if err != nil {
		logger.Fatal("failed to initialize badge renderer", zap.Error(err))
	}
	printer, err := printing.NewPrinter(kcfg.Printer)
	if err != nil {
		logger.Fatal("failed to initialize printer", zap.Error(err))
	}
	sequencer := printing.NewSequencer(renderer, printer, kcfg.PrintDelay, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := gateway.NewClient(kcfg.GatewayURL, kcfg.HTTPProxy, kcfg.RequestTimeout, logger)
	readModels := poller.New(client, kcfg.PollInterval, kcfg.MediaRefresh, logger)

	controller := kiosk.New(client, readModels, sequencer, kiosk.OptionsFrom(kcfg), logger)
	readModels.OnUpdate(controller.ModelsUpdated)
	controller.Start(ctx)

	hub := kioskapi.NewHub(logger)
	handler := kioskapi.NewHandler(controller, sequencer, hub, logger)
	go hub.Run(ctx)
	go handler.Publish(ctx, time.Second)
	go readModels.Run(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", kcfg.Port),
		Handler: kioskapi.NewRouter(handler, kcfg.StaticDir, logger),
	}

	go func() {
		logger.Info("kiosk listening", zap.Int("port", kcfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("kiosk ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping kiosk")

	cancel()
	controller.Stop()
	sequencer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("kiosk shutdown", zap.Error(err))
	}
	logger.Info("kiosk stopped")
}
