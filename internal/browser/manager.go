// Package browser attaches to the user's Chrome over the DevTools protocol
// and exposes its tabs to the probes.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/MrSnakeDoc/timemark/internal/logger"
)

// ErrNotStarted is returned by every call made before Start or after Close.
var ErrNotStarted = errors.New("browser: not started")

type Config struct {
	// RemoteURL is the DevTools websocket of a running Chrome.
	// Empty launches a local one.
	RemoteURL string
	Headless  bool
	// EvalTimeout bounds each DOM query made by a probe. Default 2s.
	EvalTimeout time.Duration
}

// Manager owns the rod connection.
type Manager struct {
	cfg    Config
	logger logger.Logger

	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func NewManager(cfg Config, log logger.Logger) *Manager {
	if cfg.EvalTimeout <= 0 {
		cfg.EvalTimeout = 2 * time.Second
	}
	return &Manager{cfg: cfg, logger: log}
}

// Start connects to RemoteURL or launches Chrome. Calling it twice is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return nil
	}

	wsURL := m.cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Context(ctx).Headless(m.cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.logger.Info("launched local chrome",
			logger.String("url", wsURL),
			logger.Bool("headless", m.cfg.Headless))
	} else {
		m.logger.Info("connecting to chrome", logger.String("url", wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		m.cleanupLocked()
		return fmt.Errorf("browser: connect: %w", err)
	}
	m.browser = b
	return nil
}

// Browser returns the live handle or nil.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Ping asks the browser for its version.
func (m *Manager) Ping(ctx context.Context) error {
	b := m.Browser()
	if b == nil {
		return ErrNotStarted
	}
	if _, err := (proto.BrowserGetVersion{}).Call(b.Context(ctx)); err != nil {
		return fmt.Errorf("browser: version: %w", err)
	}
	return nil
}

// Close disconnects, and kills Chrome if this process launched it.
// A remote browser is left running.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupLocked()
}

func (m *Manager) cleanupLocked() error {
	var err error
	if m.browser != nil {
		if m.lnch != nil {
			err = m.browser.Close()
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}
