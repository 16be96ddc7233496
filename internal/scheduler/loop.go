package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/logger"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Loop runs a Job once on Start and then on every tick, or whenever the
// optional trigger channel fires, until Stop or context cancellation.
type Loop struct {
	name     string
	interval time.Duration
	job      Job
	logger   logger.Logger
	trigger  <-chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewLoop creates a loop. interval must be > 0.
func NewLoop(name string, interval time.Duration, job Job, log logger.Logger) *Loop {
	return &Loop{
		name:     name,
		interval: interval,
		job:      job,
		logger:   log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// WithTrigger runs the job immediately each time ch receives.
func (l *Loop) WithTrigger(ch <-chan struct{}) *Loop {
	l.trigger = ch
	return l
}

// Start runs the job once synchronously, then schedules it in a goroutine.
func (l *Loop) Start(ctx context.Context) {
	l.started.Store(true)
	l.run(ctx, "initial")

	ticker := time.NewTicker(l.interval)
	go func() {
		defer close(l.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.run(ctx, "tick")
			case <-l.trigger:
				l.logger.Debug("manual run triggered", logger.String("loop", l.name))
				l.run(ctx, "trigger")
			case <-l.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight run to finish.
// It is safe to call more than once, and before Start.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	if l.started.Load() {
		<-l.done
	}
}

func (l *Loop) run(ctx context.Context, cause string) {
	if ctx.Err() != nil {
		return
	}
	if err := l.job(ctx); err != nil {
		l.logger.Warn("scheduled job failed",
			logger.String("loop", l.name),
			logger.String("cause", cause),
			logger.Error(err))
	}
}
