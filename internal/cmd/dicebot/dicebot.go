// Package dicebot parses dice bot configuration and launches the Telegram
// runtime.
package dicebot

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	entrypoint "github.com/louisbranch/dicebot/internal/platform/cmd"
	"github.com/louisbranch/dicebot/internal/platform/config"
	platformgrpc "github.com/louisbranch/dicebot/internal/platform/grpc"
	"github.com/louisbranch/dicebot/internal/platform/timeouts"
	botapp "github.com/louisbranch/dicebot/internal/services/dicebot/app"
)

const (
	envConfigPath     = "DICEBOT_CONFIG"
	defaultConfigPath = "config.yml"
	defaultLocale     = "zh-CN"
)

// Config holds dice bot command configuration.
//
// Values resolve in order: defaults, the YAML file, DICEBOT_* environment
// variables, then flags.
type Config struct {
	ConfigPath  string `yaml:"-" env:"DICEBOT_CONFIG"`
	Token       string `yaml:"token" env:"DICEBOT_TOKEN"`
	Prefix      string `yaml:"prefix" env:"DICEBOT_PREFIX"`
	Locale      string `yaml:"locale" env:"DICEBOT_LOCALE"`
	TrueRandom  bool   `yaml:"real_random" env:"DICEBOT_TRUE_RANDOM"`
	HealthAddr  string `yaml:"health_addr" env:"DICEBOT_HEALTH_ADDR"`
	HealthCheck bool   `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		ConfigPath: defaultConfigPath,
		Locale:     defaultLocale,
	}
}

// ParseConfig parses the config file, environment, and flags into a Config.
//
// The default config.yml may be absent; a path named by -config or
// DICEBOT_CONFIG must exist.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	flagged := cfg
	fs.StringVar(&flagged.ConfigPath, "config", flagged.ConfigPath, "YAML config file path")
	fs.StringVar(&flagged.Token, "token", flagged.Token, "Telegram bot token")
	fs.StringVar(&flagged.Prefix, "prefix", flagged.Prefix, "Prefix required before dice notation")
	fs.StringVar(&flagged.Locale, "locale", flagged.Locale, "Reply locale (zh-CN or en-US)")
	fs.BoolVar(&flagged.TrueRandom, "true-random", flagged.TrueRandom, "Seed the generator from random.org")
	fs.StringVar(&flagged.HealthAddr, "health-addr", flagged.HealthAddr, "gRPC health server address; empty disables it")
	fs.BoolVar(&flagged.HealthCheck, "healthcheck", false, "Probe the health server and exit")
	set, err := entrypoint.ParseArgs(fs, args)
	if err != nil {
		return Config{}, err
	}

	file := config.File{Path: cfg.ConfigPath}
	if path, ok := os.LookupEnv(envConfigPath); ok {
		file = config.File{Path: path, Required: true}
	}
	if set["config"] {
		file = config.File{Path: flagged.ConfigPath, Required: true}
	}
	if err := config.Load(&cfg, file); err != nil {
		return Config{}, err
	}

	for name := range set {
		switch name {
		case "config":
			cfg.ConfigPath = flagged.ConfigPath
		case "token":
			cfg.Token = flagged.Token
		case "prefix":
			cfg.Prefix = flagged.Prefix
		case "locale":
			cfg.Locale = flagged.Locale
		case "true-random":
			cfg.TrueRandom = flagged.TrueRandom
		case "health-addr":
			cfg.HealthAddr = flagged.HealthAddr
		case "healthcheck":
			cfg.HealthCheck = flagged.HealthCheck
		}
	}
	return cfg, nil
}

// Run starts the dice bot.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("telegram token is required: set token in the config file, DICEBOT_TOKEN, or -token")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDiceBot, func(ctx context.Context) error {
		return botapp.Run(ctx, botapp.RuntimeConfig{
			Token:      cfg.Token,
			Prefix:     cfg.Prefix,
			Locale:     cfg.Locale,
			TrueRandom: cfg.TrueRandom,
			HealthAddr: cfg.HealthAddr,
		})
	})
}

// HealthCheck waits up to timeouts.GRPCDial for a running bot's health
// server to report SERVING.
func HealthCheck(ctx context.Context, cfg Config) error {
	addr := strings.TrimSpace(cfg.HealthAddr)
	if addr == "" {
		return errors.New("health address is required")
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.GRPCDial)
	defer cancel()
	return platformgrpc.WaitForHealth(ctx, addr, botapp.HealthService, nil)
}
