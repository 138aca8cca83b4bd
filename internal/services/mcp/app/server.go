// Package app exposes the dice roller as an MCP tool server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/dicebot/internal/core/dice"
	"github.com/louisbranch/dicebot/internal/random"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "dicebot"
	serverVersion = "0.1.0"
)

// RuntimeConfig controls MCP server startup.
type RuntimeConfig struct {
	Locale     string
	TrueRandom bool
	// TrueRandomURL overrides random.DefaultTrueRandomURL.
	TrueRandomURL string
}

// Server hosts the dice tools over an MCP transport.
type Server struct {
	mcpServer *mcp.Server
}

// NewServer registers the dice tools, drawing from src.
func NewServer(src dice.Locker, locale string) (*Server, error) {
	if src == nil {
		return nil, errors.New("random source is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, RollDiceTool(), RollDiceHandler(src, locale))
	return &Server{mcpServer: mcpServer}, nil
}

// Run seeds the shared generator and serves MCP on stdio until ctx ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
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

	server, err := NewServer(shared, cfg.Locale)
	if err != nil {
		return err
	}
	return server.Serve(ctx, &mcp.StdioTransport{})
}

// Serve blocks until the transport closes or ctx ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
