package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	// Round trip through the written file
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading default config: %v", err)
	}
	if !reflect.DeepEqual(again, cfg) {
		t.Errorf("reloaded config differs: %+v", again)
	}
}

func TestLoadConfigFillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
input_directory = "in"
master_directory = "master"

[merge]
highlight_color = "#FFCC00"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Paths.InputDirectory != "in" || cfg.Paths.MasterDirectory != "master" {
		t.Errorf("paths not loaded: %+v", cfg.Paths)
	}
	if cfg.Merge.HighlightColor != "#FFCC00" {
		t.Errorf("expected explicit color, got %q", cfg.Merge.HighlightColor)
	}
	if cfg.Merge.QualifiedColumn != 8 || cfg.Merge.NotesColumn != 9 {
		t.Errorf("expected default columns 8/9, got %d/%d", cfg.Merge.QualifiedColumn, cfg.Merge.NotesColumn)
	}
	if !reflect.DeepEqual(cfg.Merge.ProcessedMarkers, []string{"_added", "_nothing"}) {
		t.Errorf("unexpected markers %v", cfg.Merge.ProcessedMarkers)
	}
	if cfg.Log.File == "" || cfg.Log.Level != "info" {
		t.Errorf("log defaults not applied: %+v", cfg.Log)
	}
}

func TestLoadConfigKeepsExplicitColumnA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
input_directory = "in"
master_directory = "master"

[merge]
qualified_column = 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Merge.QualifiedColumn != 0 {
		t.Errorf("explicit column 0 rewritten to %d", cfg.Merge.QualifiedColumn)
	}
	if cfg.Merge.NotesColumn != 9 {
		t.Errorf("expected default notes column 9, got %d", cfg.Merge.NotesColumn)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
input_directory = "in"
master_directory = "master"

[merge]
qualified_column = 4
notes_column = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for identical designated columns")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input dir", func(c *Config) { c.Paths.InputDirectory = "" }},
		{"empty master dir", func(c *Config) { c.Paths.MasterDirectory = " " }},
		{"extension without dot", func(c *Config) { c.Merge.Extension = "xlsx" }},
		{"negative column", func(c *Config) { c.Merge.NotesColumn = -1 }},
		{"bad pattern", func(c *Config) { c.Merge.SheetPattern = "(" }},
		{"bad color", func(c *Config) { c.Merge.HighlightColor = "green" }},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
