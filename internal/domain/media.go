package domain

import (
	"net/url"
	"strings"
)

// MediaSnapshot is the normalized view of what a page is playing.
// It is recomputed on every probe sample and never persisted.
type MediaSnapshot struct {
	Platform    Platform `json:"platform"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	CurrentTime int      `json:"currentTime"`
	Duration    int      `json:"duration"`
	IsPlaying   bool     `json:"isPlaying"`
}

// Valid reports whether the snapshot can be shown and bookmarked.
// A snapshot without a title counts as "no media detected".
func (m *MediaSnapshot) Valid() bool {
	return m != nil && strings.TrimSpace(m.Title) != ""
}

// SameMoment reports whether two snapshots describe the same media at the
// same position.
func (m *MediaSnapshot) SameMoment(o *MediaSnapshot) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.CurrentTime == o.CurrentTime && m.URL == o.URL && m.Title == o.Title
}

// StripTimestamp removes a pre-existing "t" query parameter from a page
// address so bookmarks always store the canonical URL. Other parameters keep
// their order and encoding.
func StripTimestamp(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		if i := strings.Index(pageURL, "&t="); i >= 0 {
			return pageURL[:i]
		}
		return pageURL
	}
	if u.RawQuery == "" {
		return pageURL
	}

	pairs := strings.Split(u.RawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if key != "t" {
			kept = append(kept, pair)
		}
	}
	if len(kept) == len(pairs) {
		return pageURL
	}
	u.RawQuery = strings.Join(kept, "&")
	u.ForceQuery = false
	return u.String()
}
