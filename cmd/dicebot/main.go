// Package main starts the Telegram dice bot.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dicebotcmd "github.com/louisbranch/dicebot/internal/cmd/dicebot"
	"github.com/louisbranch/dicebot/internal/platform/config"
)

func main() {
	cfg, err := dicebotcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[DICEBOT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HealthCheck {
		if err := dicebotcmd.HealthCheck(ctx, cfg); err != nil {
			stop()
			config.Exitf("health check: %v", err)
		}
		return
	}

	if err := dicebotcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
