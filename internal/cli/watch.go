package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/ui"
)

const (
	clearScreen = "\033[H\033[2J"
	watchKeys   = "keys: b bookmark · o N open · d N delete · r refresh · q quit"
)

// Execute implements the go-flags Commander interface for WatchCommand.
func (c *WatchCommand) Execute(_ []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := c.env.dial(ctx, c.env, true)
	if err != nil {
		return err
	}
	defer s.close()

	poll := c.Poll
	if poll <= 0 {
		poll = s.cfg.PollInterval
	}

	scr := &screen{out: c.env.out, clear: !c.Plain}
	co := coordinator.New(s.client, coordinator.Options{
		PollInterval: poll,
		RecentLimit:  c.Limit,
		OnChange:     scr.render,
	}, s.logger)
	if err := co.Open(ctx); err != nil {
		return err
	}
	defer co.Close()

	return watch(ctx, co, c.env.in, scr)
}

// screen serialises renders coming from the poll loop and the input loop.
type screen struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

func (s *screen) render(v coordinator.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clear {
		_, _ = io.WriteString(s.out, clearScreen)
	}
	_ = ui.Render(s.out, v)
	if v.State == coordinator.Idle {
		printf(s.out, "\n%s\n", watchKeys)
	}
}

func (s *screen) say(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	printf(s.out, format+"\n", args...)
}

// watch reads commands line by line until q, EOF or ctx ends.
func watch(ctx context.Context, co *coordinator.Coordinator, in io.Reader, scr *screen) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleLine(ctx, co, scr, line); quit {
				return nil
			}
		}
	}
}

func handleLine(ctx context.Context, co *coordinator.Coordinator, scr *screen, line string) bool {
	v := co.View()

	if v.State == coordinator.Capturing {
		if strings.TrimSpace(line) == "c" {
			co.Cancel()
			return false
		}
		// The failure is rendered by the coordinator; stay in capture.
		_, _ = co.Save(ctx, line)
		return false
	}

	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "":
	case "q", "quit":
		return true
	case "r":
		_ = co.Refresh(ctx)
		co.LoadBookmarks(ctx)
	case "b":
		if err := co.StartCapture(); errors.Is(err, coordinator.ErrNoMedia) {
			scr.say("%s", v.Status.Text)
		}
	case "d", "o":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 1 || n > len(v.Bookmarks) {
			scr.say("pick a bookmark between 1 and %d", len(v.Bookmarks))
			return false
		}
		id := v.Bookmarks[n-1].ID
		if cmd == "d" {
			_ = co.Delete(ctx, id)
		} else if err := co.OpenBookmark(ctx, id); err != nil {
			scr.say("could not open bookmark: %v", err)
		}
	default:
		scr.say("%s", watchKeys)
	}
	return false
}
