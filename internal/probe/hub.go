package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/scheduler"
)

var (
	// ErrNoPage means the browser has no page the user could be looking at.
	ErrNoPage = errors.New("no active page")
	// ErrUnsupportedPage means the active page belongs to no known platform.
	ErrUnsupportedPage = errors.New("unsupported page")
)

// Tab is the host's view of one browser page.
type Tab struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Pages is the tab-query capability of the host browser.
type Pages interface {
	// Active returns the page the user is looking at, or ErrNoPage.
	Active(ctx context.Context) (Tab, error)
	List(ctx context.Context) ([]Tab, error)
	Attach(ctx context.Context, tabID string) (DOM, error)
}

const pruneInterval = 30 * time.Second

// Hub keeps one Probe per supported tab, created on first query.
type Hub struct {
	pages      Pages
	strategies Strategies
	interval   time.Duration
	logger     logger.Logger

	mu     sync.Mutex
	probes map[string]*Probe
	runCtx context.Context

	prune *scheduler.Loop
}

func NewHub(pages Pages, strategies Strategies, interval time.Duration, log logger.Logger) *Hub {
	h := &Hub{
		pages:      pages,
		strategies: strategies,
		interval:   interval,
		logger:     log,
		probes:     make(map[string]*Probe),
	}
	h.prune = scheduler.NewLoop("probe-prune", pruneInterval, h.Prune, log)
	return h
}

// Start makes new probes refresh in the background and prunes closed tabs.
// Without Start, probes only sample when queried.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	h.runCtx = ctx
	h.mu.Unlock()
	h.prune.Start(ctx)
}

func (h *Hub) Stop() {
	h.prune.Stop()

	h.mu.Lock()
	probes := h.probes
	h.probes = make(map[string]*Probe)
	h.runCtx = nil
	h.mu.Unlock()

	for _, p := range probes {
		p.Stop()
	}
}

func (h *Hub) ActiveTab(ctx context.Context) (Tab, error) {
	return h.pages.Active(ctx)
}

// CurrentMedia answers getCurrentMedia for a tab. A nil snapshot with a nil
// error means the page is supported but nothing is playing.
func (h *Hub) CurrentMedia(ctx context.Context, tab Tab) (*domain.MediaSnapshot, error) {
	platform, ok := domain.PlatformForURL(tab.URL)
	if !ok {
		return nil, ErrUnsupportedPage
	}

	p, err := h.probeFor(ctx, tab.ID, platform)
	if err != nil {
		return nil, err
	}
	return p.Current(ctx), nil
}

// ActiveMedia resolves the active tab and queries its probe.
func (h *Hub) ActiveMedia(ctx context.Context) (*domain.MediaSnapshot, Tab, error) {
	tab, err := h.ActiveTab(ctx)
	if err != nil {
		return nil, Tab{}, err
	}
	snap, err := h.CurrentMedia(ctx, tab)
	return snap, tab, err
}

// TabMedia queries the probe of a tab identified only by id.
func (h *Hub) TabMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error) {
	tabs, err := h.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	for _, t := range tabs {
		if t.ID == tabID {
			return h.CurrentMedia(ctx, t)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoPage, tabID)
}

// Prune drops probes whose tabs were closed or navigated off their platform.
func (h *Hub) Prune(ctx context.Context) error {
	tabs, err := h.pages.List(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	alive := make(map[string]domain.Platform, len(tabs))
	for _, t := range tabs {
		if p, ok := domain.PlatformForURL(t.URL); ok {
			alive[t.ID] = p
		}
	}

	var stale []*Probe
	h.mu.Lock()
	for id, p := range h.probes {
		if platform, ok := alive[id]; !ok || platform != p.Platform() {
			stale = append(stale, p)
			delete(h.probes, id)
		}
	}
	h.mu.Unlock()

	for _, p := range stale {
		p.Stop()
	}
	if len(stale) > 0 {
		h.logger.Debug("probes pruned", logger.Int("count", len(stale)))
	}
	return nil
}

// Len returns the number of attached probes.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.probes)
}

func (h *Hub) probeFor(ctx context.Context, tabID string, platform domain.Platform) (*Probe, error) {
	h.mu.Lock()
	existing, ok := h.probes[tabID]
	h.mu.Unlock()
	if ok && existing.Platform() == platform {
		return existing, nil
	}
	if ok {
		existing.Stop()
	}

	dom, err := h.pages.Attach(ctx, tabID)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", tabID, err)
	}
	sampler, _ := NewSampler(platform, h.strategies)
	p := New(sampler, dom, h.interval, h.logger)

	h.mu.Lock()
	if cur, raced := h.probes[tabID]; raced && cur != existing && cur.Platform() == platform {
		h.mu.Unlock()
		return cur, nil
	}
	h.probes[tabID] = p
	runCtx := h.runCtx
	h.mu.Unlock()

	if runCtx != nil {
		p.Start(runCtx)
	}
	h.logger.Debug("probe attached",
		logger.String("tab", tabID),
		logger.String("platform", string(platform)))
	return p, nil
}
