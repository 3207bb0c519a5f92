package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	apiserver "github.com/vmassess/bomgen/internal/api_server"
	"github.com/vmassess/bomgen/internal/config"
	"github.com/vmassess/bomgen/internal/pricing"
	"github.com/vmassess/bomgen/internal/service"
	"github.com/vmassess/bomgen/internal/store"
	"github.com/vmassess/bomgen/pkg/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		println("reading configuration:", err.Error())
		os.Exit(1)
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	zap.S().Info("Starting API service")
	defer zap.S().Info("API service stopped")

	card := pricing.LoadRateCard(cfg.Service.RateCardPath)
	sessionStore := store.NewInMemory()
	runner := service.NewSessionRunner(service.NewProcessingService(card), sessionStore)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	listener, err := net.Listen("tcp", cfg.Service.Address)
	if err != nil {
		zap.S().Fatalf("creating listener: %s", err)
	}

	server := apiserver.New(cfg, sessionStore, runner, listener)
	if err := server.Run(ctx); err != nil {
		zap.S().Fatalf("Error running server: %s", err)
	}
}
