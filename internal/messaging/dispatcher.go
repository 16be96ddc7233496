package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/probe"
)

// ErrUnknownAction is reported for actions the dispatcher does not route.
var ErrUnknownAction = errors.New("unknown action")

// MediaSource is the page side: one probe per tab.
type MediaSource interface {
	ActiveTab(ctx context.Context) (probe.Tab, error)
	ActiveMedia(ctx context.Context) (*domain.MediaSnapshot, probe.Tab, error)
	TabMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error)
}

// BookmarkStore is the persistence side.
type BookmarkStore interface {
	Save(ctx context.Context, c domain.Candidate) (string, error)
	List(ctx context.Context) ([]domain.Bookmark, error)
	Get(ctx context.Context, id string) (*domain.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

// Opener loads a page in a new browser tab.
type Opener interface {
	Open(ctx context.Context, pageURL string) (probe.Tab, error)
}

type Dispatcher struct {
	media     MediaSource
	bookmarks BookmarkStore
	opener    Opener
	logger    logger.Logger
}

// NewDispatcher wires the handlers. opener may be nil, in which case
// openBookmark fails with an error envelope.
func NewDispatcher(media MediaSource, bookmarks BookmarkStore, opener Opener, log logger.Logger) *Dispatcher {
	return &Dispatcher{media: media, bookmarks: bookmarks, opener: opener, logger: log}
}

// Handle routes one request. For getCurrentMedia the value is a
// *domain.MediaSnapshot (nil when nothing is playing or the page is not
// supported); every other action yields a Response. A non-nil error means
// the page side could not be reached at all.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (any, error) {
	switch req.Action {
	case ActionGetCurrentMedia:
		return d.currentMedia(ctx, req.TabID)
	case ActionSaveBookmark:
		return d.save(ctx, req.Bookmark), nil
	case ActionGetBookmarks:
		return d.list(ctx), nil
	case ActionDeleteBookmark:
		return d.delete(ctx, req.ID), nil
	case ActionGetActiveTab:
		return d.activeTab(ctx), nil
	case ActionOpenBookmark:
		return d.open(ctx, req.ID), nil
	default:
		return failure(fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)), nil
	}
}

func (d *Dispatcher) currentMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error) {
	var (
		snap *domain.MediaSnapshot
		err  error
	)
	if tabID == "" {
		snap, _, err = d.media.ActiveMedia(ctx)
	} else {
		snap, err = d.media.TabMedia(ctx, tabID)
	}

	switch {
	case err == nil:
		return snap, nil
	case errors.Is(err, probe.ErrUnsupportedPage), errors.Is(err, probe.ErrNoPage):
		return nil, nil
	default:
		d.logger.Warn("media query failed", logger.String("tab", tabID), logger.Error(err))
		return nil, err
	}
}

func (d *Dispatcher) save(ctx context.Context, c *domain.Candidate) Response {
	if c == nil {
		return failure(fmt.Errorf("%w: missing bookmark", domain.ErrInvalidCandidate))
	}
	id, err := d.bookmarks.Save(ctx, *c)
	if err != nil {
		d.logger.Error("save bookmark failed", logger.Error(err))
		return failure(err)
	}
	resp := ok()
	resp.Result = id
	return resp
}

func (d *Dispatcher) list(ctx context.Context) Response {
	list, err := d.bookmarks.List(ctx)
	if err != nil {
		d.logger.Error("list bookmarks failed", logger.Error(err))
		return failure(err)
	}
	if list == nil {
		list = []domain.Bookmark{}
	}
	resp := ok()
	resp.Bookmarks = list
	return resp
}

func (d *Dispatcher) delete(ctx context.Context, id string) Response {
	if err := d.bookmarks.Delete(ctx, id); err != nil {
		d.logger.Error("delete bookmark failed", logger.String("bookmark_id", id), logger.Error(err))
		return failure(err)
	}
	return ok()
}

func (d *Dispatcher) activeTab(ctx context.Context) Response {
	tab, err := d.media.ActiveTab(ctx)
	if err != nil {
		return failure(err)
	}
	resp := ok()
	resp.Tab = &tab
	return resp
}

func (d *Dispatcher) open(ctx context.Context, id string) Response {
	if d.opener == nil {
		return failure(errors.New("opening tabs is not available"))
	}
	b, err := d.bookmarks.Get(ctx, id)
	if err != nil {
		return failure(err)
	}
	tab, err := d.opener.Open(ctx, b.PlaybackURL())
	if err != nil {
		d.logger.Warn("open bookmark failed", logger.String("bookmark_id", id), logger.Error(err))
		return failure(err)
	}
	resp := ok()
	resp.Tab = &tab
	return resp
}
