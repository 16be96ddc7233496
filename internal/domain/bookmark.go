package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IDPrefix namespaces bookmark keys inside the shared key-value store.
const IDPrefix = "bookmark_"

// Bookmark is a saved position in a piece of media.
// Bookmarks are immutable once written; the only mutation is deletion.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is generated by the store at save time and always starts with IDPrefix.
	ID string `json:"id"`

	// ─────────────────────────────
	// Captured media
	// ─────────────────────────────

	Platform Platform `json:"platform"`
	Title    string   `json:"title"`

	// URL is the canonical page address, without any timestamp parameter.
	URL string `json:"url"`

	// TimestampDisplay is rendered once at capture time and never recomputed.
	// Example: "1:02:05"
	TimestampDisplay string `json:"timestampDisplay"`
	TimestampSeconds int    `json:"timestampSeconds"`

	// ─────────────────────────────
	// Annotation & metadata
	// ─────────────────────────────

	// Note is free text entered by the user. May be empty.
	Note string `json:"note"`

	// CreatedAt orders the bookmark list (newest first).
	CreatedAt time.Time `json:"createdAt"`
}

// Candidate is a bookmark before the store assigns its identity.
type Candidate struct {
	Platform         Platform `json:"platform"`
	Title            string   `json:"title"`
	URL              string   `json:"url"`
	TimestampDisplay string   `json:"timestampDisplay"`
	TimestampSeconds int      `json:"timestampSeconds"`
	Note             string   `json:"note"`
}

var ErrInvalidCandidate = errors.New("invalid bookmark")

// NewCandidate freezes a snapshot into a bookmark candidate.
func NewCandidate(media *MediaSnapshot, note string) Candidate {
	return Candidate{
		Platform:         media.Platform,
		Title:            media.Title,
		URL:              media.URL,
		TimestampDisplay: FormatTime(media.CurrentTime),
		TimestampSeconds: media.CurrentTime,
		Note:             strings.TrimSpace(note),
	}
}

// Validate checks the candidate and fills in the display timestamp when the
// caller left it empty.
func (c *Candidate) Validate() error {
	if !c.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidCandidate, c.Platform)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidCandidate)
	}
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidCandidate)
	}
	if c.TimestampSeconds < 0 {
		return fmt.Errorf("%w: negative timestamp", ErrInvalidCandidate)
	}
	if c.TimestampDisplay == "" {
		c.TimestampDisplay = FormatTime(c.TimestampSeconds)
	}
	return nil
}

// PlaybackURL returns the address that resumes playback at the bookmark.
// Only the video platform honours a start offset in the URL.
func (b *Bookmark) PlaybackURL() string {
	if b.Platform != PlatformVideo {
		return b.URL
	}
	sep := "&"
	if !strings.Contains(b.URL, "?") {
		sep = "?"
	}
	return fmt.Sprintf("%s%st=%ds", b.URL, sep, b.TimestampSeconds)
}
