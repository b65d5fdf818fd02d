package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if p := Load(""); p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "snapback")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte("theme = \"Paper\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(""); p.Theme != "Paper" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Paper")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Paper"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if loaded := Load(prefsFile); loaded.Theme != "Paper" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Paper")
	}
}

func TestLoad_EmptyOrInvalidFallsBackToDefault(t *testing.T) {
	for name, body := range map[string]string{
		"empty theme":  "theme = \"\"\n",
		"invalid toml": "not valid toml {{{\n",
	} {
		prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
		if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if p := Load(prefsFile); p.Theme != defaultTheme {
			t.Fatalf("%s: Theme = %q, want %q", name, p.Theme, defaultTheme)
		}
	}
}

func TestSave_EmptyPathWritesDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := Save("", Prefs{Theme: "Kanagawa"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "snapback", "prefs.toml")); err != nil {
		t.Fatalf("prefs file not written: %v", err)
	}
	if p := Load(""); p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", p.Theme)
	}
}
