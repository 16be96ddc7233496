package probe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed selectors.yaml
var defaultSelectors []byte

// Strategies holds the selector lists for both platforms.
type Strategies struct {
	Video VideoStrategy `yaml:"video"`
	Audio AudioStrategy `yaml:"audio"`
}

// VideoStrategy locates the media element and title on the video platform.
type VideoStrategy struct {
	Media         []string `yaml:"media"`
	Title         []string `yaml:"title"`
	FallbackTitle string   `yaml:"fallback_title"`
}

// AudioStrategy locates track info and progress on the audio platform.
type AudioStrategy struct {
	Title    []string       `yaml:"title"`
	Artist   []string       `yaml:"artist"`
	Times    []TimeSelector `yaml:"times"`
	Progress []string       `yaml:"progress"`
	Playing  []string       `yaml:"playing"`
}

// TimeSelector reads position and duration text. Either Pair names one
// selector whose first two matches are position and duration, or Position
// and Duration name them separately.
type TimeSelector struct {
	Pair     string `yaml:"pair,omitempty"`
	Position string `yaml:"position,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// DefaultStrategies returns the built-in selector lists.
func DefaultStrategies() Strategies {
	s, err := parseStrategies(defaultSelectors)
	if err != nil {
		panic(fmt.Sprintf("probe: embedded selectors.yaml is invalid: %v", err))
	}
	return s
}

// LoadStrategies reads an override file. Platforms or lists missing from the
// file keep their built-in values.
func LoadStrategies(path string) (Strategies, error) {
	base := DefaultStrategies()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Strategies{}, fmt.Errorf("failed to read selectors file: %w", err)
	}

	override, err := parseStrategies(data)
	if err != nil {
		return Strategies{}, err
	}

	return base.merge(override), nil
}

func parseStrategies(data []byte) (Strategies, error) {
	var s Strategies
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Strategies{}, fmt.Errorf("failed to parse selectors yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return Strategies{}, err
	}
	return s, nil
}

func (s Strategies) validate() error {
	for i, t := range s.Audio.Times {
		if t.Pair == "" && (t.Position == "" || t.Duration == "") {
			return fmt.Errorf("audio.times[%d]: need pair, or both position and duration", i)
		}
		if t.Pair != "" && (t.Position != "" || t.Duration != "") {
			return errors.New("audio.times: pair cannot be combined with position/duration")
		}
	}
	return nil
}

func (s Strategies) merge(o Strategies) Strategies {
	pick := func(base, over []string) []string {
		if len(over) > 0 {
			return over
		}
		return base
	}

	s.Video.Media = pick(s.Video.Media, o.Video.Media)
	s.Video.Title = pick(s.Video.Title, o.Video.Title)
	if o.Video.FallbackTitle != "" {
		s.Video.FallbackTitle = o.Video.FallbackTitle
	}

	s.Audio.Title = pick(s.Audio.Title, o.Audio.Title)
	s.Audio.Artist = pick(s.Audio.Artist, o.Audio.Artist)
	s.Audio.Progress = pick(s.Audio.Progress, o.Audio.Progress)
	s.Audio.Playing = pick(s.Audio.Playing, o.Audio.Playing)
	if len(o.Audio.Times) > 0 {
		s.Audio.Times = o.Audio.Times
	}
	return s
}
