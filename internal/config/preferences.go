package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/whovibhor/PersonalOS/internal/views"
)

// Preferences is the persisted filter state, kept as a small key-value
// file in the workspace data directory. Load and save happen only at
// the command boundary; the view partitioner takes the struct by value.
type Preferences struct {
	Status   string   `yaml:"status"`
	Category string   `yaml:"category"`
	Priority int      `yaml:"priority"`
	Labels   []string `yaml:"labels"`
}

func (p Preferences) Filters() views.Filters {
	return views.Filters{
		Status:   p.Status,
		Category: p.Category,
		Priority: p.Priority,
		Labels:   p.Labels,
	}
}

func preferencesPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".personalos", "preferences.yml")
}

// LoadPreferences returns the zero value when no file exists.
func LoadPreferences(workspace string) (Preferences, error) {
	var p Preferences
	data, err := os.ReadFile(preferencesPath(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("invalid preferences yaml: %w", err)
	}
	return p, nil
}

func SavePreferences(workspace string, p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	path := preferencesPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ClearPreferences resets the persisted filter state.
func ClearPreferences(workspace string) error {
	err := os.Remove(preferencesPath(workspace))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
