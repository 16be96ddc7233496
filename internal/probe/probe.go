package probe

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/scheduler"
)

// DefaultInterval is how often a started Probe re-samples its page.
const DefaultInterval = time.Second

// Probe owns the latest snapshot of one page. Readers always get a copy.
type Probe struct {
	sampler Sampler
	dom     DOM
	logger  logger.Logger

	mu        sync.RWMutex
	current   *domain.MediaSnapshot
	sampledAt time.Time

	loop *scheduler.Loop
}

func New(sampler Sampler, dom DOM, interval time.Duration, log logger.Logger) *Probe {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Probe{sampler: sampler, dom: dom, logger: log}
	p.loop = scheduler.NewLoop("probe:"+string(sampler.Platform()), interval, func(context.Context) error {
		p.Refresh()
		return nil
	}, log)
	return p
}

func (p *Probe) Platform() domain.Platform { return p.sampler.Platform() }

// Start samples immediately and then on every interval until Stop or ctx ends.
func (p *Probe) Start(ctx context.Context) { p.loop.Start(ctx) }

func (p *Probe) Stop() { p.loop.Stop() }

// Refresh samples the page once and stores the result.
// A stored snapshot is replaced only when the moment changed;
// a nil sample clears it.
func (p *Probe) Refresh() *domain.MediaSnapshot {
	next := p.sampler.Sample(p.dom)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sampledAt = time.Now()
	switch {
	case next == nil:
		if p.current != nil {
			p.logger.Debug("media lost", logger.String("platform", string(p.Platform())))
		}
		p.current = nil
	case !next.SameMoment(p.current):
		p.current = next
	default:
		p.current.IsPlaying = next.IsPlaying
		p.current.Duration = next.Duration
	}
	return copySnapshot(p.current)
}

// Current answers getCurrentMedia: it re-samples, then returns the latest snapshot.
func (p *Probe) Current(ctx context.Context) *domain.MediaSnapshot {
	if ctx.Err() != nil {
		return p.Latest()
	}
	return p.Refresh()
}

// Latest returns the stored snapshot without touching the page.
func (p *Probe) Latest() *domain.MediaSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return copySnapshot(p.current)
}

// SampledAt reports when the page was last inspected.
func (p *Probe) SampledAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sampledAt
}

func copySnapshot(s *domain.MediaSnapshot) *domain.MediaSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
