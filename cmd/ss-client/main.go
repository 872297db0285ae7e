package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"SpectraSync/internal/bus"
	"SpectraSync/internal/client"
	"SpectraSync/internal/config"
	"SpectraSync/internal/logging"
	"SpectraSync/internal/model"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:50004", "Address of the backend gRPC API.")
	natsURL := flag.String("nats", "nats://127.0.0.1:4222", "NATS URL the backend publishes callbacks on.")
	accums := flag.Int("accums", 120, "Number of spectra to record per unit.")
	integration := flag.Duration("integration", 10*time.Second, "Integration time of one spectrum.")
	quit := flag.Bool("quit", false, "Ask the backend to quit once the scan is finished.")
	verbose := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(config.LogConfig{Level: level, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	conn, err := bus.Dial(*natsURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to the bus", zap.Error(err))
	}
	defer conn.Close()

	c, err := client.Dial(*addr, conn, client.Options{OnEvent: printEvent}, logger)
	if err != nil {
		logger.Fatal("failed to connect to backend", zap.Error(err))
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := c.StartRecording(ctx, *accums, *integration); err != nil {
		logger.Fatal("failed to start recording", zap.Error(err))
	}
	if err := c.WaitScan(ctx); err != nil {
		logger.Warn("recording interrupted", zap.Error(err))
	} else {
		logger.Info("scan finished")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := c.StopRecording(stopCtx); err != nil {
		logger.Warn("failed to unsubscribe", zap.Error(err))
	}
	if *quit {
		if err := c.Quit(stopCtx); err != nil {
			logger.Warn("failed to quit backend", zap.Error(err))
		}
	}
}

func printEvent(ev *model.Event) {
	switch {
	case ev.Composite != nil:
		fmt.Printf("composite scan=%d record=%d time=%s units=%d\n",
			ev.Composite.Scan, ev.Composite.Record, ev.Composite.Timestamp.Format(time.RFC3339Nano), len(ev.Composite.Contributions))
	case ev.Status != nil:
		fmt.Printf("status unit=%s finished scan=%d\n", ev.Status.UnitID, ev.Status.Scan)
	case ev.Discarded != nil:
		fmt.Printf("discarded scan=%d record=%d missing=%v\n", ev.Discarded.Scan, ev.Discarded.Record, ev.Discarded.Missing)
	}
}
