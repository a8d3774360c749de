// Package prefs stores display preferences in a JSON file beside the
// database.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/models"
)

type Store struct {
	path string

	mu    sync.Mutex
	prefs models.Preferences
}

// Open reads the preferences file in dir. A missing or unreadable file
// yields the defaults.
func Open(dir string) *Store {
	s := &Store{
		path:  filepath.Join(dir, constants.PrefsFileName),
		prefs: models.DefaultPreferences(),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read preferences, using defaults", "path", s.path, "error", err)
		}
		return s
	}

	var p models.Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		logger.Warn("Preferences file is corrupt, using defaults", "path", s.path, "error", err)
		return s
	}
	if ValidateTheme(p.Theme) == nil {
		s.prefs.Theme = p.Theme
	}
	if norm, err := NormalizeAccent(p.Accent); err == nil {
		s.prefs.Accent = norm
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Store) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if err := ValidateTheme(theme); err != nil {
		return err
	}
	return s.update(func(p *models.Preferences) { p.Theme = theme })
}

func (s *Store) SetAccent(accent string) error {
	norm, err := NormalizeAccent(accent)
	if err != nil {
		return err
	}
	return s.update(func(p *models.Preferences) { p.Accent = norm })
}

// Set assigns a preference by key
func (s *Store) Set(key, value string) error {
	switch key {
	case constants.SettingTheme:
		return s.SetTheme(value)
	case constants.SettingAccent:
		return s.SetAccent(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}

func (s *Store) update(fn func(*models.Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	fn(&next)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	s.prefs = next
	return nil
}

func ValidateTheme(theme string) error {
	switch theme {
	case constants.ThemeDark, constants.ThemeLight:
		return nil
	default:
		return fmt.Errorf("invalid theme %q (want %s or %s)", theme, constants.ThemeDark, constants.ThemeLight)
	}
}

// NormalizeAccent parses a hex color ("#abc" or "#aabbcc", leading # optional)
// and returns it as lower-case "#rrggbb".
func NormalizeAccent(accent string) (string, error) {
	accent = strings.TrimSpace(accent)
	if accent != "" && !strings.HasPrefix(accent, "#") {
		accent = "#" + accent
	}
	c, err := colorful.Hex(accent)
	if err != nil || (len(accent) != 4 && len(accent) != 7) {
		return "", fmt.Errorf("invalid accent color %q: use a hex value like #0d6efd", accent)
	}
	return c.Hex(), nil
}

// Contrast returns black or white, whichever reads better on the accent
func Contrast(accent string) string {
	c, err := colorful.Hex(accent)
	if err != nil {
		return "#ffffff"
	}
	black, _ := colorful.Hex("#000000")
	white, _ := colorful.Hex("#ffffff")
	if c.DistanceLab(black) > c.DistanceLab(white) {
		return "#000000"
	}
	return "#ffffff"
}
