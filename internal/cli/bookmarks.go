package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/ui"
)

// Execute implements the go-flags Commander interface for SaveCommand.
func (c *SaveCommand) Execute(_ []string) error {
	ctx := context.Background()
	s, err := c.env.dial(ctx, c.env, true)
	if err != nil {
		return err
	}
	defer s.close()

	media, err := s.client.CurrentMedia(ctx, c.Tab)
	if err != nil {
		return fmt.Errorf("%s: %w", coordinator.MsgUnreachable, err)
	}
	if !media.Valid() {
		return errors.New(coordinator.MsgNoMedia)
	}

	candidate := domain.NewCandidate(media, c.Note)
	id, err := s.client.SaveBookmark(ctx, candidate)
	if err != nil {
		return fmt.Errorf("%s: %w", coordinator.MsgSaveFailed, err)
	}

	if c.env.globals.JSON {
		return c.env.printJSON(struct {
			ID       string           `json:"id"`
			Bookmark domain.Candidate `json:"bookmark"`
		}{id, candidate})
	}
	printf(c.env.out, "%s %s at %s  %s\n", coordinator.MsgSaved, media.Platform.Icon(), candidate.TimestampDisplay, media.Title)
	printf(c.env.out, "id: %s\n", id)
	return nil
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(_ []string) error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", c.Limit)
	}

	ctx := context.Background()
	s, err := c.env.dial(ctx, c.env, false)
	if err != nil {
		return err
	}
	defer s.close()

	all, err := s.client.Bookmarks(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", coordinator.MsgLoadFailed, err)
	}
	shown := all
	if c.Limit > 0 && c.Limit < len(all) {
		shown = all[:c.Limit]
	}

	if c.env.globals.JSON {
		if shown == nil {
			shown = []domain.Bookmark{}
		}
		return c.env.printJSON(shown)
	}
	ui.RenderList(c.env.out, shown, len(all))
	for i, b := range shown {
		printf(c.env.out, "  [%d] %s\n", i+1, b.ID)
	}
	return nil
}

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(_ []string) error {
	if c.ID == "" {
		return errors.New("--id is required for delete command")
	}

	ctx := context.Background()
	s, err := c.env.dial(ctx, c.env, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.client.DeleteBookmark(ctx, c.ID); err != nil {
		return fmt.Errorf("%s: %w", coordinator.MsgDeleteFailed, err)
	}
	printf(c.env.out, "deleted %s\n", c.ID)
	return nil
}

// Execute implements the go-flags Commander interface for OpenCommand.
func (c *OpenCommand) Execute(_ []string) error {
	if c.ID == "" {
		return errors.New("--id is required for open command")
	}

	ctx := context.Background()
	s, err := c.env.dial(ctx, c.env, true)
	if err != nil {
		return err
	}
	defer s.close()

	tab, err := s.client.OpenBookmark(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(tab)
	}
	printf(c.env.out, "opened %s\n", tab.URL)
	return nil
}
