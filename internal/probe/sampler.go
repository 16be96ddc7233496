package probe

import (
	"math"

	"github.com/MrSnakeDoc/timemark/internal/domain"
)

// Sampler turns the current state of a page into a snapshot.
// Sample returns nil when the page shows no playable media.
type Sampler interface {
	Platform() domain.Platform
	Sample(dom DOM) *domain.MediaSnapshot
}

// NewSampler returns the sampler for a platform.
func NewSampler(p domain.Platform, s Strategies) (Sampler, bool) {
	switch p {
	case domain.PlatformVideo:
		return NewVideoSampler(s.Video), true
	case domain.PlatformAudio:
		return NewAudioSampler(s.Audio), true
	default:
		return nil, false
	}
}

// wholeSeconds floors a media time. NaN, infinite and negative values read as 0.
func wholeSeconds(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return int(math.Floor(f))
}
