package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
)

// Pinger reports whether a backing component is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Bookmarks is the store as the REST routes and health checks see it.
type Bookmarks interface {
	messaging.BookmarkStore
	Pinger
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts   []string // Host headers accepted by the API
	AllowedCIDRS   []string // client networks accepted by the API
	AllowedOrigins []string // CORS origins
	TrustProxy     bool

	Dispatcher *messaging.Dispatcher
	Media      messaging.MediaSource
	Bookmarks  Bookmarks
	StoreKind  string
	// Browser is nil when no browser is attached.
	Browser Pinger
}
