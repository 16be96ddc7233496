package probe

import (
	"strings"

	"github.com/MrSnakeDoc/timemark/internal/domain"
)

// VideoSampler reads the page's <video> element directly.
type VideoSampler struct {
	strategy VideoStrategy
}

func NewVideoSampler(s VideoStrategy) *VideoSampler {
	return &VideoSampler{strategy: s}
}

func (v *VideoSampler) Platform() domain.Platform { return domain.PlatformVideo }

func (v *VideoSampler) Sample(dom DOM) *domain.MediaSnapshot {
	media, ok := v.media(dom)
	if !ok {
		return nil
	}

	title := v.strategy.FallbackTitle
	if txt, ok := firstText(dom, v.strategy.Title); ok {
		title = txt
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	return &domain.MediaSnapshot{
		Platform:    domain.PlatformVideo,
		Title:       title,
		URL:         domain.StripTimestamp(dom.Location()),
		CurrentTime: wholeSeconds(media.CurrentTime),
		Duration:    wholeSeconds(media.Duration),
		IsPlaying:   !media.Paused,
	}
}

func (v *VideoSampler) media(dom DOM) (MediaElement, bool) {
	for _, sel := range v.strategy.Media {
		if m, ok := dom.Media(sel); ok {
			return m, true
		}
	}
	return MediaElement{}, false
}
