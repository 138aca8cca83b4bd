// Package mcp parses MCP command flags and serves the dice tools on stdio.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/dicebot/internal/platform/cmd"
	mcpapp "github.com/louisbranch/dicebot/internal/services/mcp/app"
)

// Config holds MCP command configuration.
type Config struct {
	Locale     string `env:"DICEBOT_MCP_LOCALE" envDefault:"en-US"`
	TrueRandom bool   `env:"DICEBOT_TRUE_RANDOM"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Default reply locale (en-US or zh-CN)")
	fs.BoolVar(&cfg.TrueRandom, "true-random", cfg.TrueRandom, "Seed the generator from random.org")
	if _, err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpapp.Run(ctx, mcpapp.RuntimeConfig{
			Locale:     cfg.Locale,
			TrueRandom: cfg.TrueRandom,
		})
	})
}
