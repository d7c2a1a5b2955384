// Package prefs persists the storefront's single display preference.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Prefs is the persisted document. DarkMode is stored under the key
// "darkMode".
type Prefs struct {
	DarkMode bool `yaml:"darkMode"`
}

// Store keeps Prefs in a YAML file. A missing file means defaults.
type Store struct {
	path string

	mu    sync.Mutex
	prefs Prefs
}

func NewStore(path string) *Store { return &Store{path: path} }

// Load reads the file, if any, and returns the preferences to apply at
// startup.
func (s *Store) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.prefs = Prefs{}
		return s.prefs, nil
	}
	if err != nil {
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Prefs{}, fmt.Errorf("decode prefs %s: %w", s.path, err)
	}
	s.prefs = p
	return p, nil
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.DarkMode
}

// SetDarkMode updates and persists the preference.
func (s *Store) SetDarkMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	next.DarkMode = on
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.prefs = next
	return nil
}

// Toggle flips dark mode and returns the new value.
func (s *Store) Toggle() (bool, error) {
	on := !s.DarkMode()
	if err := s.SetDarkMode(on); err != nil {
		return !on, err
	}
	return on, nil
}

func (s *Store) writeLocked(p Prefs) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
