package coordinator

import "github.com/MrSnakeDoc/timemark/internal/domain"

// State is the popup's capture mode.
type State int

const (
	Idle State = iota
	// Capturing holds a frozen snapshot while the user types a note.
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// StatusKind classifies the status line.
type StatusKind string

const (
	StatusConnected    StatusKind = "connected"
	StatusDisconnected StatusKind = "disconnected"
	StatusSaved        StatusKind = "saved"
	StatusError        StatusKind = "error"
)

// Status line texts.
const (
	MsgUnsupported   = "Open YouTube or Spotify to start bookmarking"
	MsgNoMedia       = "No media detected. Make sure something is playing."
	MsgUnreachable   = "Unable to connect to media. Try refreshing the page."
	MsgSaved         = "✅ Bookmark saved!"
	MsgSaveFailed    = "Failed to save bookmark"
	MsgLoadFailed    = "Failed to load bookmarks"
	MsgDeleteFailed  = "Failed to delete bookmark"
	msgConnectedTmpl = "Connected to %s"
)

type Status struct {
	Kind StatusKind `json:"kind"`
	Text string     `json:"text"`
}

// View is everything a renderer needs. It is a copy; mutating it has no
// effect on the coordinator.
type View struct {
	State  State  `json:"-"`
	Status Status `json:"status"`

	// Media is the live snapshot, or the frozen one while capturing.
	Media      *domain.MediaSnapshot `json:"media"`
	CanCapture bool                  `json:"canCapture"`

	// SaveError is set when the last save attempt failed.
	SaveError string `json:"saveError,omitempty"`

	Bookmarks []domain.Bookmark `json:"bookmarks"`
	// Total counts all bookmarks; Bookmarks holds at most the display limit.
	Total     int    `json:"total"`
	ListError string `json:"listError,omitempty"`
}
