package probe

import (
	"math"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/timemark/internal/domain"
)

// defaultProgressMax is assumed when a progress bar exposes no usable aria-valuemax.
const defaultProgressMax = 100.0

// AudioSampler reads the player bar, which exposes times only as text.
type AudioSampler struct {
	strategy AudioStrategy
}

func NewAudioSampler(s AudioStrategy) *AudioSampler {
	return &AudioSampler{strategy: s}
}

func (a *AudioSampler) Platform() domain.Platform { return domain.PlatformAudio }

func (a *AudioSampler) Sample(dom DOM) *domain.MediaSnapshot {
	raw, ok := firstText(dom, a.strategy.Title)
	if !ok {
		return nil
	}
	title := strings.TrimSpace(raw)
	if title == "" {
		return nil
	}
	if artist, ok := firstText(dom, a.strategy.Artist); ok {
		if artist = strings.TrimSpace(artist); artist != "" {
			title = artist + " - " + title
		}
	}

	position, duration := a.times(dom)
	if position == 0 {
		position = a.positionFromProgress(dom, duration)
	}

	return &domain.MediaSnapshot{
		Platform:    domain.PlatformAudio,
		Title:       title,
		URL:         domain.StripTimestamp(dom.Location()),
		CurrentTime: position,
		Duration:    duration,
		IsPlaying:   anyExists(dom, a.strategy.Playing),
	}
}

// times returns position and duration from the first time strategy that
// finds its elements.
func (a *AudioSampler) times(dom DOM) (position, duration int) {
	for _, ts := range a.strategy.Times {
		if ts.Pair != "" {
			texts := dom.Texts(ts.Pair)
			if len(texts) >= 2 {
				return domain.ParseTimeString(texts[0]), domain.ParseTimeString(texts[1])
			}
			continue
		}

		pos, okPos := dom.Text(ts.Position)
		dur, okDur := dom.Text(ts.Duration)
		if okPos && okDur {
			return domain.ParseTimeString(pos), domain.ParseTimeString(dur)
		}
	}
	return 0, 0
}

// positionFromProgress approximates the position as valuenow/valuemax of the
// progress bar times the known duration. Without a duration there is nothing
// to scale, so it returns 0 rather than guessing.
func (a *AudioSampler) positionFromProgress(dom DOM, duration int) int {
	if duration <= 0 {
		return 0
	}

	for _, sel := range a.strategy.Progress {
		rawNow, ok := dom.Attr(sel, "aria-valuenow")
		if !ok {
			continue
		}
		now := parseFloat(rawNow)
		maxVal := parseFloat(rawMax(dom, sel))
		if maxVal <= 0 {
			maxVal = defaultProgressMax
		}

		ratio := math.Min(math.Max(now/maxVal, 0), 1)
		return int(math.Floor(ratio * float64(duration)))
	}
	return 0
}

func rawMax(dom DOM, sel string) string {
	v, _ := dom.Attr(sel, "aria-valuemax")
	return v
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
