package domain

import "strings"

// Platform identifies which media site a snapshot or bookmark came from.
type Platform string

const (
	PlatformVideo Platform = "video" // YouTube
	PlatformAudio Platform = "audio" // Spotify
)

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	return p == PlatformVideo || p == PlatformAudio
}

// Label returns the human-facing site name.
func (p Platform) Label() string {
	switch p {
	case PlatformVideo:
		return "YouTube"
	case PlatformAudio:
		return "Spotify"
	default:
		return "unknown"
	}
}

// Icon returns the glyph shown next to titles in list views.
func (p Platform) Icon() string {
	if p == PlatformVideo {
		return "📺"
	}
	return "🎵"
}

// PlatformForURL maps a page address to the platform whose probe handles it.
// The second return value is false for unsupported pages.
func PlatformForURL(pageURL string) (Platform, bool) {
	u := strings.ToLower(pageURL)
	switch {
	case strings.Contains(u, "youtube.com"):
		return PlatformVideo, true
	case strings.Contains(u, "spotify.com"):
		return PlatformAudio, true
	default:
		return "", false
	}
}
