package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/timemark/internal/browser"
	"github.com/MrSnakeDoc/timemark/internal/config"
	"github.com/MrSnakeDoc/timemark/internal/kv"
	"github.com/MrSnakeDoc/timemark/internal/kv/memory"
	"github.com/MrSnakeDoc/timemark/internal/kv/postgres"
	kvredis "github.com/MrSnakeDoc/timemark/internal/kv/redis"
	"github.com/MrSnakeDoc/timemark/internal/kv/sqlite"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
	"github.com/MrSnakeDoc/timemark/internal/probe"
	"github.com/MrSnakeDoc/timemark/internal/redis"
	"github.com/MrSnakeDoc/timemark/internal/store"
	"github.com/MrSnakeDoc/timemark/internal/utils"
)

// Runtime is the page side of timemark wired together: bookmark store,
// browser connection, probes and the message dispatcher.
type Runtime struct {
	Config     *config.Config
	Logger     logger.Logger
	KV         kv.Store
	Store      *store.Store
	Browser    *browser.Manager // nil when opened without a browser
	Hub        *probe.Hub
	Dispatcher *messaging.Dispatcher
}

// Options selects which parts of the runtime a command needs.
type Options struct {
	// Browser attaches to Chrome. Commands that only touch bookmarks skip it.
	Browser bool
	// KV replaces the configured backend.
	KV kv.Store
}

// Open wires a Runtime from cfg. A browser that cannot be reached is logged
// and left disconnected; media queries then fail as channel errors.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Runtime, error) {
	backend := opts.KV
	if backend == nil {
		var err error
		backend, err = OpenKV(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	rt := &Runtime{
		Config: cfg,
		Logger: log,
		KV:     backend,
		Store:  store.New(backend, log),
	}

	strategies, err := probe.LoadStrategies(cfg.SelectorsFile)
	if err != nil {
		utils.CloseLogged(backend, "kv", log)
		return nil, err
	}

	var pages probe.Pages = detachedPages{}
	var opener messaging.Opener
	if opts.Browser {
		rt.Browser = browser.NewManager(browser.Config{
			RemoteURL:   cfg.BrowserURL,
			Headless:    cfg.BrowserHeadless,
			EvalTimeout: cfg.EvalTimeout,
		}, log)
		if err := rt.Browser.Start(ctx); err != nil {
			log.Warn("browser unavailable, media capture disabled", logger.Error(err))
		}
		pages = rt.Browser
		opener = rt.Browser
	}

	rt.Hub = probe.NewHub(pages, strategies, cfg.ProbeInterval, log)
	rt.Dispatcher = messaging.NewDispatcher(rt.Hub, rt.Store, opener, log)
	return rt, nil
}

// OpenKV opens the backend named by cfg.Store.
func OpenKV(ctx context.Context, cfg *config.Config, log logger.Logger) (kv.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		log.Debug("opening sqlite store", logger.String("path", cfg.SQLitePath))
		return sqlite.Open(cfg.SQLitePath)
	case config.StorePostgres:
		return postgres.Open(ctx, cfg.PostgresDSN)
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return kvredis.NewStore(client, cfg.RedisNamespace), nil
	case config.StoreMemory:
		log.Warn("using in-memory store, bookmarks are lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Close stops the probes and releases the browser and the backend.
func (rt *Runtime) Close() {
	rt.Hub.Stop()
	if rt.Browser != nil {
		utils.CloseLogged(rt.Browser, "browser", rt.Logger)
	}
	utils.CloseLogged(rt.KV, "kv", rt.Logger)
}

// detachedPages stands in for the browser in bookmark-only commands.
type detachedPages struct{}

func (detachedPages) Active(context.Context) (probe.Tab, error) { return probe.Tab{}, probe.ErrNoPage }

func (detachedPages) List(context.Context) ([]probe.Tab, error) { return nil, nil }

func (detachedPages) Attach(context.Context, string) (probe.DOM, error) { return nil, probe.ErrNoPage }
