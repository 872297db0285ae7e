package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"SpectraSync/internal/bus"
	"SpectraSync/internal/config"
	"SpectraSync/internal/engine/manager"
	"SpectraSync/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("starting ss-backend", zap.String("config", *configPath))

	// 2. Connect to the callback bus
	conn, err := bus.Dial(cfg.NATS.URL, logger)
	if err != nil {
		logger.Fatal("failed to connect to the bus", zap.Error(err))
	}
	defer conn.Close()

	// 3. Build and start every component
	m, err := manager.NewManager(cfg, conn, logger)
	if err != nil {
		logger.Fatal("failed to create manager", zap.Error(err))
	}
	if err := m.Start(); err != nil {
		logger.Fatal("failed to start manager", zap.Error(err))
	}

	// 4. Wait for a shutdown signal or a remote quit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", zap.Stringer("signal", sig))
	case <-m.Done():
		logger.Info("all units quit")
	}

	if err := m.Stop(); err != nil {
		logger.Error("shutdown finished with errors", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
