package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"platform-hunt/internal/api"
	"platform-hunt/internal/config"
	"platform-hunt/internal/game"
	"platform-hunt/internal/logging"
	"platform-hunt/internal/protocol"
	"platform-hunt/internal/world"
)

func main() {
	// Load .env from the parent directory, then the current one
	envErr := godotenv.Load("../.env")
	if envErr != nil {
		envErr = godotenv.Load(".env")
	}

	// Load centralized configuration (SSOT - Single Source of Truth)
	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer logging.Sync(logger)

	if envErr != nil {
		logger.Info("no .env file found, using environment variables only")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		logging.Sync(logger)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, logger *zap.Logger) error {
	table := world.Default()
	if cfg.RoomsFile != "" {
		t, err := world.LoadFile(cfg.RoomsFile)
		if err != nil {
			return err
		}
		table = t
	}
	logger.Info("rooms loaded", zap.Int("rooms", table.Len()), zap.String("file", cfg.RoomsFile))

	eventLog := game.NewEventLog(logger)
	if err := eventLog.Start(cfg.EventLog.Path); err != nil {
		logger.Warn("event log disabled", zap.Error(err))
		eventLog.StartWriter(io.Discard)
	}
	defer eventLog.Stop()

	engine := game.NewEngine(game.EngineConfig{
		Table:        table,
		TickInterval: cfg.Sim.TickInterval,
		QueueSize:    cfg.Sim.InputQueue,
		Seed:         cfg.Sim.Seed,
		Logger:       logger,
		Renderer:     protocol.EncodeRoom,
		EventLog:     eventLog,
	})

	debugSrv := api.StartDebugServer(api.ObservabilityConfig{
		Enabled:    cfg.Debug.Enabled,
		ListenAddr: cfg.Debug.Addr,
	}, logger)

	server := api.NewServer(api.ServerConfig{
		Engine:     engine,
		EventLog:   eventLog,
		Logger:     logger,
		SinkBuffer: cfg.Server.SinkBuffer,
		MaxWSPerIP: cfg.Server.MaxWSPerIP,
		MaxWSTotal: cfg.Server.MaxWSTotal,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineErr := make(chan error, 1)
	go func() { engineErr <- engine.Run(ctx) }()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start(":" + strconv.Itoa(cfg.Server.Port)) }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-engineErr:
		engineErr <- runErr
	case runErr = <-serverErr:
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api shutdown", zap.Error(err))
	}
	if debugSrv != nil {
		debugSrv.Shutdown(shutdownCtx)
	}

	// Run returns nil on cancellation; a simulation fault is already in runErr.
	if err := <-engineErr; err != nil && !errors.Is(err, context.Canceled) && runErr == nil {
		runErr = err
	}

	logger.Info("goodbye", zap.Uint64("ticks", engine.Stats().Tick))
	return runErr
}
