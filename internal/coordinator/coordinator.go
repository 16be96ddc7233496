// Package coordinator is the popup: it polls the active page, freezes a
// snapshot when the user starts a bookmark, and relays store requests.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/probe"
	"github.com/MrSnakeDoc/timemark/internal/scheduler"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultSavedRevert  = 2 * time.Second
	DefaultRecentLimit  = 5
)

var (
	ErrNoMedia        = errors.New("no media to bookmark")
	ErrNotCapturing   = errors.New("not capturing")
	ErrAlreadyRunning = errors.New("coordinator already open")
)

// Backend is the message channel to the page and store sides.
// messaging.Client implements it.
type Backend interface {
	ActiveTab(ctx context.Context) (probe.Tab, error)
	CurrentMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error)
	SaveBookmark(ctx context.Context, b domain.Candidate) (string, error)
	Bookmarks(ctx context.Context) ([]domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
	OpenBookmark(ctx context.Context, id string) (probe.Tab, error)
}

type Options struct {
	PollInterval time.Duration
	SavedRevert  time.Duration
	RecentLimit  int
	// OnChange is called after every state change, outside the lock.
	OnChange func(View)
}

type Coordinator struct {
	backend Backend
	opts    Options
	logger  logger.Logger

	mu        sync.Mutex
	state     State
	media     *domain.MediaSnapshot
	frozen    *domain.MediaSnapshot
	status    Status
	saveErr   string
	bookmarks []domain.Bookmark
	listErr   string

	generation uint64
	savedSeq   uint64
	revert     *time.Timer

	loop *scheduler.Loop
}

func New(backend Backend, opts Options, log logger.Logger) *Coordinator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.SavedRevert <= 0 {
		opts.SavedRevert = DefaultSavedRevert
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Coordinator{
		backend: backend,
		opts:    opts,
		logger:  log,
		status:  Status{Kind: StatusDisconnected, Text: MsgNoMedia},
	}
}

// Open shows the popup: it loads bookmarks and polls the page until Close
// or ctx ends.
func (c *Coordinator) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.loop != nil {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.loop = scheduler.NewLoop("popup-poll", c.opts.PollInterval, c.Refresh, c.logger)
	loop := c.loop
	c.mu.Unlock()

	c.LoadBookmarks(ctx)
	loop.Start(ctx)
	return nil
}

// Close stops polling. In-flight refreshes are discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	loop := c.loop
	c.loop = nil
	c.generation++
	if c.revert != nil {
		c.revert.Stop()
	}
	c.mu.Unlock()

	if loop != nil {
		loop.Stop()
	}
}

// Refresh queries the active page once. Results of a refresh that was
// overtaken by a newer one are dropped. Page-side failures become status
// text, never errors.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	media, status := c.query(ctx)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.media = media
	if c.status.Kind != StatusSaved {
		c.status = status
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Coordinator) query(ctx context.Context) (*domain.MediaSnapshot, Status) {
	tab, err := c.backend.ActiveTab(ctx)
	if errors.Is(err, probe.ErrNoPage) {
		return nil, Status{Kind: StatusDisconnected, Text: MsgUnsupported}
	}
	if err != nil {
		c.logger.Warn("active tab query failed", logger.Error(err))
		return nil, Status{Kind: StatusDisconnected, Text: MsgUnreachable}
	}
	if _, ok := domain.PlatformForURL(tab.URL); !ok {
		return nil, Status{Kind: StatusDisconnected, Text: MsgUnsupported}
	}

	media, err := c.backend.CurrentMedia(ctx, tab.ID)
	if err != nil {
		c.logger.Warn("media query failed", logger.String("tab", tab.ID), logger.Error(err))
		return nil, Status{Kind: StatusDisconnected, Text: MsgUnreachable}
	}
	if !media.Valid() {
		return nil, Status{Kind: StatusDisconnected, Text: MsgNoMedia}
	}
	return media, connected(media.Platform)
}

func connected(p domain.Platform) Status {
	return Status{Kind: StatusConnected, Text: fmt.Sprintf(msgConnectedTmpl, p.Label())}
}

// StartCapture freezes the current snapshot and enters Capturing.
func (c *Coordinator) StartCapture() error {
	c.mu.Lock()
	if !c.media.Valid() {
		c.mu.Unlock()
		return ErrNoMedia
	}
	frozen := *c.media
	c.frozen = &frozen
	c.state = Capturing
	c.saveErr = ""
	c.mu.Unlock()

	c.notify()
	return nil
}

// Cancel leaves Capturing without saving.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	c.state = Idle
	c.frozen = nil
	c.saveErr = ""
	c.mu.Unlock()

	c.notify()
}

// Save stores the frozen snapshot with note. On failure the coordinator
// stays in Capturing so the user can retry.
func (c *Coordinator) Save(ctx context.Context, note string) (string, error) {
	c.mu.Lock()
	if c.state != Capturing || c.frozen == nil {
		c.mu.Unlock()
		return "", ErrNotCapturing
	}
	candidate := domain.NewCandidate(c.frozen, note)
	c.mu.Unlock()

	id, err := c.backend.SaveBookmark(ctx, candidate)
	if err != nil {
		c.logger.Error("save bookmark failed", logger.Error(err))
		c.mu.Lock()
		c.saveErr = MsgSaveFailed
		c.mu.Unlock()
		c.notify()
		return "", fmt.Errorf("save bookmark: %w", err)
	}

	c.mu.Lock()
	c.state = Idle
	c.frozen = nil
	c.saveErr = ""
	c.status = Status{Kind: StatusSaved, Text: MsgSaved}
	c.savedSeq++
	seq := c.savedSeq
	if c.revert != nil {
		c.revert.Stop()
	}
	c.revert = time.AfterFunc(c.opts.SavedRevert, func() { c.revertSaved(seq) })
	c.mu.Unlock()

	c.LoadBookmarks(ctx)
	return id, nil
}

func (c *Coordinator) revertSaved(seq uint64) {
	c.mu.Lock()
	if seq != c.savedSeq || c.status.Kind != StatusSaved {
		c.mu.Unlock()
		return
	}
	if c.media.Valid() {
		c.status = connected(c.media.Platform)
	} else {
		c.status = Status{Kind: StatusDisconnected, Text: MsgNoMedia}
	}
	c.mu.Unlock()

	c.notify()
}

// LoadBookmarks refreshes the recent list. Failures are shown inline.
func (c *Coordinator) LoadBookmarks(ctx context.Context) {
	list, err := c.backend.Bookmarks(ctx)

	c.mu.Lock()
	if err != nil {
		c.logger.Error("load bookmarks failed", logger.Error(err))
		c.listErr = MsgLoadFailed
	} else {
		c.bookmarks = list
		c.listErr = ""
	}
	c.mu.Unlock()

	c.notify()
}

// Delete removes a bookmark and reloads the list.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteBookmark(ctx, id); err != nil {
		c.logger.Error("delete bookmark failed", logger.String("bookmark_id", id), logger.Error(err))
		c.mu.Lock()
		c.listErr = MsgDeleteFailed
		c.mu.Unlock()
		c.notify()
		return fmt.Errorf("delete bookmark: %w", err)
	}
	c.LoadBookmarks(ctx)
	return nil
}

// OpenBookmark replays a bookmark in a new tab.
func (c *Coordinator) OpenBookmark(ctx context.Context, id string) error {
	if _, err := c.backend.OpenBookmark(ctx, id); err != nil {
		return fmt.Errorf("open bookmark: %w", err)
	}
	return nil
}

// View returns a snapshot of the popup state.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:      c.state,
		Status:     c.status,
		CanCapture: c.state == Idle && c.media.Valid(),
		SaveError:  c.saveErr,
		Total:      len(c.bookmarks),
		ListError:  c.listErr,
	}

	shown := c.media
	if c.state == Capturing {
		shown = c.frozen
	}
	if shown != nil {
		m := *shown
		v.Media = &m
	}

	n := min(len(c.bookmarks), c.opts.RecentLimit)
	v.Bookmarks = make([]domain.Bookmark, n)
	copy(v.Bookmarks, c.bookmarks)
	return v
}

func (c *Coordinator) notify() {
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.View())
	}
}
