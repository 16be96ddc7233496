package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/httpserver"
	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/version"
)

// App is the long-running "serve" process: the runtime behind the HTTP API.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	rt     *Runtime
	server *httpserver.Server
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	rt, err := Open(ctx, cfg, log, Options{Browser: true})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:    cfg,
		logger: log,
		rt:     rt,
		server: httpserver.New(cfg.ListenPort, rt.Deps()),
	}, nil
}

// Deps builds the HTTP dependencies from the runtime.
func (rt *Runtime) Deps() deps.Deps {
	d := deps.Deps{
		Logger:         rt.Logger,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   rt.Config.AllowedHosts,
		AllowedCIDRS:   rt.Config.AllowedCIDRS,
		AllowedOrigins: rt.Config.AllowedOrigins,
		TrustProxy:     rt.Config.TrustProxy,
		Dispatcher:     rt.Dispatcher,
		Media:          rt.Hub,
		Bookmarks:      rt.Store,
		StoreKind:      string(rt.Config.Store),
	}
	if rt.Browser != nil {
		d.Browser = rt.Browser
	}
	return d
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting timemark %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("timemark %s", version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.rt.Hub.Start(ctx)
	a.logger.Info("probes started", logger.Duration("interval", a.cfg.ProbeInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.rt.Close()
	if runErr == nil {
		a.logger.Info("✅ timemark stopped cleanly")
	}
	return runErr
}
