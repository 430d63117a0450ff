package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/MdSadiqMd/udp-sender/internal/server"
	"github.com/MdSadiqMd/udp-sender/pkg/config"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON or YAML config file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logging.LogError("[Main] %v", err)
		os.Exit(1)
	}
	logging.SetColor(!cfg.NoColor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		logging.LogError("[Main] %v", err)
		os.Exit(1)
	}
}
