package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/dicebot/internal/platform/grpc"
	"github.com/louisbranch/dicebot/internal/random"
)

// HealthService is the gRPC health service name reported by the bot.
const HealthService = "dicebot.Bot"

// RuntimeConfig controls bot startup.
type RuntimeConfig struct {
	Token      string
	Prefix     string
	Locale     string
	TrueRandom bool
	// TrueRandomURL overrides random.DefaultTrueRandomURL.
	TrueRandomURL string
	// HealthAddr enables the gRPC health server when set.
	HealthAddr string
}

// Run connects to Telegram and serves the bot until ctx ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("telegram token is required")
	}
	transport, err := NewTelegram(TelegramConfig{Token: cfg.Token})
	if err != nil {
		return err
	}
	log.Printf("authorized as @%s", transport.Username())
	return Serve(ctx, cfg, transport)
}

// Serve seeds the shared generator, starts the optional health server, and
// runs the bot on transport until ctx ends or the update stream closes.
func Serve(ctx context.Context, cfg RuntimeConfig, transport Transport) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shared, source, err := random.NewShared(ctx, random.Options{
		TrueRandom: cfg.TrueRandom,
		URL:        cfg.TrueRandomURL,
	})
	if err != nil {
		return fmt.Errorf("seed random source: %w", err)
	}
	log.Printf("random source seeded from %s", source)

	bot, err := NewBot(BotConfig{
		Transport: transport,
		Random:    shared,
		Prefix:    cfg.Prefix,
		Locale:    cfg.Locale,
	})
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.HealthAddr) == "" {
		return bot.Run(ctx, nil)
	}

	health, err := platformgrpc.NewHealthServer(cfg.HealthAddr, HealthService)
	if err != nil {
		return err
	}
	healthCtx, stopHealth := context.WithCancel(context.Background())
	healthErr := make(chan error, 1)
	go func() {
		healthErr <- health.Serve(healthCtx)
	}()

	runErr := bot.Run(ctx, func() { health.SetServing(true) })
	health.SetServing(false)
	stopHealth()
	if err := <-healthErr; err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
