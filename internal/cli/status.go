package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/ui"
)

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(_ []string) error {
	ctx := context.Background()
	s, err := c.env.dial(ctx, c.env, true)
	if err != nil {
		return err
	}
	defer s.close()

	co := coordinator.New(s.client, coordinator.Options{}, s.logger)
	if err := co.Refresh(ctx); err != nil {
		return err
	}
	v := co.View()

	if c.env.globals.JSON {
		return c.env.printJSON(struct {
			Status coordinator.Status    `json:"status"`
			Media  *domain.MediaSnapshot `json:"media"`
		}{v.Status, v.Media})
	}
	return ui.RenderStatus(c.env.out, v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
