package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := bootstrap(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("minutesd shutting down")
}
