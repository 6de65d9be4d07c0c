package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	prefsFile = "prefs.json"
)

var ErrInvalidTheme = errors.New("invalid theme")

type preferences struct {
	Theme string `json:"theme"`
}

// Service persists viewer preferences. Today that is just the theme; the
// file survives restarts so the choice sticks.
type Service struct {
	mu    sync.RWMutex
	fs    afero.Fs
	path  string
	prefs preferences
}

// NewService loads preferences from dataDir, falling back to the dark
// theme when the file is missing or unreadable.
func NewService(fs afero.Fs, dataDir string) *Service {
	s := &Service{
		fs:    fs,
		path:  filepath.Join(dataDir, prefsFile),
		prefs: preferences{Theme: ThemeDark},
	}

	data, err := afero.ReadFile(fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[prefs] failed to read %s: %v", s.path, err)
		}
		return s
	}

	var loaded preferences
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("[prefs] corrupt preferences file, using defaults: %v", err)
		return s
	}
	if loaded.Theme == ThemeLight || loaded.Theme == ThemeDark {
		s.prefs = loaded
	}
	return s
}

// Theme returns the current theme.
func (s *Service) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Theme
}

// SetTheme validates and persists the theme.
func (s *Service) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Theme = theme
	return s.save()
}

// save writes to a temp file and renames so a crash mid-write never
// leaves a truncated preferences file behind.
func (s *Service) save() error {
	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}
