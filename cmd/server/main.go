package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldex/fieldex/internal/config"
	"github.com/fieldex/fieldex/internal/logging"
	"github.com/fieldex/fieldex/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Config file path (.toml, .yaml)")
	port := flag.String("port", "", "Override server port")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
