// Package settings loads the application settings file.
//
// Settings are a read-only input to the reminder components: the store and
// the engine never write them back. They live in a YAML file next to the
// notes root so the whole application state stays on the filesystem.
package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hvkeyn/AlertCalendar/pkg/core"
)

// Duration is a time.Duration that decodes from YAML strings like "1s" or
// "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Sound configures the alert sound per importance level. A value is either
// a system sound alias (e.g. "SystemAsterisk"), a WAV file path, or empty
// for silence.
type Sound struct {
	Enabled   bool   `yaml:"enabled"`
	Normal    string `yaml:"normal"`
	Important string `yaml:"important"`
	Urgent    string `yaml:"urgent"`
}

// Settings is the application configuration. Unknown keys in the file are
// ignored; missing keys keep their defaults.
type Settings struct {
	MinimizeToTray bool `yaml:"minimize_to_tray"`
	UIZoomPercent  int  `yaml:"ui_zoom_percent"`
	// 0 = premium, 1 = minimal
	UIThemeStyle int  `yaml:"ui_theme_style"`
	Autostart    bool `yaml:"autostart"`

	Sound Sound `yaml:"sound"`

	SnoozeMinutes int      `yaml:"snooze_minutes"`
	PollInterval  Duration `yaml:"poll_interval"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		MinimizeToTray: true,
		UIZoomPercent:  100,
		Sound: Sound{
			Enabled: true,
			Normal:  "SystemAsterisk",
			// Urgent reminders deserve a harsher cue.
			Important: "SystemExclamation",
			Urgent:    "SystemHand",
		},
		SnoozeMinutes: 5,
		PollInterval:  Duration(time.Second),
	}
}

// Load reads settings from path. A missing file yields the defaults; a
// present but invalid file is an error, not a silent fallback.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) normalize() {
	if s.UIZoomPercent <= 0 {
		s.UIZoomPercent = 100
	}
	if s.SnoozeMinutes <= 0 {
		s.SnoozeMinutes = 5
	}
	if s.PollInterval <= 0 {
		s.PollInterval = Duration(time.Second)
	}
}

// SoundFor returns the sound alias for a note importance, or "" when sound
// is disabled.
func (s Settings) SoundFor(importance int) string {
	if !s.Sound.Enabled {
		return ""
	}
	switch importance {
	case core.ImportanceUrgent:
		return s.Sound.Urgent
	case core.ImportanceImportant:
		return s.Sound.Important
	default:
		return s.Sound.Normal
	}
}
