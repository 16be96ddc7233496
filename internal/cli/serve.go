package cli

import (
	"context"

	"github.com/MrSnakeDoc/timemark/internal/app"
	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/mcpserver"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(_ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.ListenPort = c.Listen
	}
	log := c.env.logger(cfg, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Execute implements the go-flags Commander interface for MCPCommand.
func (c *MCPCommand) Execute(_ []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := c.env.dial(ctx, c.env, true)
	if err != nil {
		return err
	}
	defer s.close()

	return mcpserver.Run(ctx, s.client, s.logger)
}
