package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/MrSnakeDoc/timemark/internal/app"
	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
)

// env is what commands share: parsed globals, the terminal and the way to
// reach the page and store sides.
type env struct {
	globals GlobalFlags

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// dial is swapped in tests.
	dial func(ctx context.Context, e *env, browser bool) (*session, error)
}

func newEnv(in io.Reader, out, errOut io.Writer) *env {
	return &env{in: in, out: out, errOut: errOut, dial: dialDefault}
}

// session is an open connection to the message contract.
type session struct {
	client *messaging.Client
	cfg    *config.Config
	logger logger.Logger
	close  func()
}

// dialDefault talks to --server over HTTP, or wires the runtime in-process.
// browser is false for commands that only touch bookmarks.
func dialDefault(ctx context.Context, e *env, browser bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := e.logger(cfg, "warn")

	if e.globals.Server != "" {
		log.Debug("using remote server", logger.String("server", e.globals.Server))
		return &session{
			client: messaging.NewClient(messaging.NewHTTP(e.globals.Server, e.globals.Timeout)),
			cfg:    cfg,
			logger: log,
			close:  func() { _ = log.Sync() },
		}, nil
	}

	rt, err := app.Open(ctx, cfg, log, app.Options{Browser: browser})
	if err != nil {
		return nil, err
	}
	return &session{
		client: messaging.NewClient(messaging.NewLocal(rt.Dispatcher)),
		cfg:    cfg,
		logger: log,
		close: func() {
			rt.Close()
			_ = log.Sync()
		},
	}, nil
}

// logger builds the process logger. One-shot commands stay quiet unless
// --log-level asks otherwise.
func (e *env) logger(cfg *config.Config, fallback string) logger.Logger {
	level := fallback
	if e.globals.LogLevel != "" {
		level = e.globals.LogLevel
	}
	return logger.New(level, cfg.PrettyLog)
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
