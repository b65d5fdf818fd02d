// Package prefs persists the theme chosen in the UI. An empty path means
// ~/.config/snapback/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/snapback/internal/config"
)

const (
	defaultPath  = "~/.config/snapback/prefs.toml"
	defaultTheme = "Dusk"
)

// Prefs is the on-disk preference file.
type Prefs struct {
	Theme string `toml:"theme"`
}

// Load returns the saved preferences. Anything unreadable counts as unset.
func Load(path string) Prefs {
	p := Prefs{Theme: defaultTheme}
	if data, err := readFile(path); err == nil && toml.Unmarshal(data, &p) != nil {
		p = Prefs{}
	}
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	return p
}

// Save writes p to path, creating its directory.
func Save(path string, p Prefs) error {
	resolved, err := config.ExpandPath(orDefault(path))
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	return os.WriteFile(resolved, data, 0o644)
}

func readFile(path string) ([]byte, error) {
	resolved, err := config.ExpandPath(orDefault(path))
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resolved)
}

func orDefault(path string) string {
	if strings.TrimSpace(path) == "" {
		return defaultPath
	}
	return path
}
