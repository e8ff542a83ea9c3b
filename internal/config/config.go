package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mastermerge/internal/logger"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "configs/config.toml"

type Config struct {
	Paths PathsConfig `toml:"paths"`
	Merge MergeConfig `toml:"merge"`
	Log   LogConfig   `toml:"log"`
	UI    UIConfig    `toml:"ui"`
}

type PathsConfig struct {
	InputDirectory  string `toml:"input_directory"`
	MasterDirectory string `toml:"master_directory"`
}

type MergeConfig struct {
	Extension        string   `toml:"extension"`
	ProcessedMarkers []string `toml:"processed_markers"`
	MasterPattern    string   `toml:"master_pattern"`
	SheetPattern     string   `toml:"sheet_pattern"`
	QualifiedColumn  int      `toml:"qualified_column"`
	NotesColumn      int      `toml:"notes_column"`
	QualifiedHeader  string   `toml:"qualified_header"`
	NotesHeader      string   `toml:"notes_header"`
	HighlightColor   string   `toml:"highlight_color"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type UIConfig struct {
	Progress bool `toml:"progress"`
}

// Default returns the configuration written when no config file exists.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDirectory:  "data/input",
			MasterDirectory: "data/master",
		},
		Merge: MergeConfig{
			Extension:        ".xlsx",
			ProcessedMarkers: []string{"_added", "_nothing"},
			MasterPattern:    "master",
			SheetPattern:     "unreviewed",
			QualifiedColumn:  8,
			NotesColumn:      9,
			QualifiedHeader:  "Qualified?",
			NotesHeader:      "Notes",
			HighlightColor:   "91bf4d",
		},
		Log: LogConfig{
			File:  filepath.Join("logs", "mastermerge.log"),
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	md, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.applyDefaults(md)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// Set defaults if missing
func (c *Config) applyDefaults(md toml.MetaData) {
	def := Default()

	if c.Merge.Extension == "" {
		c.Merge.Extension = def.Merge.Extension
	}
	if len(c.Merge.ProcessedMarkers) == 0 {
		c.Merge.ProcessedMarkers = def.Merge.ProcessedMarkers
	}
	if c.Merge.MasterPattern == "" {
		c.Merge.MasterPattern = def.Merge.MasterPattern
	}
	if c.Merge.SheetPattern == "" {
		c.Merge.SheetPattern = def.Merge.SheetPattern
	}
	// Zero is column A, so only a missing key falls back to the default
	if !md.IsDefined("merge", "qualified_column") {
		c.Merge.QualifiedColumn = def.Merge.QualifiedColumn
	}
	if !md.IsDefined("merge", "notes_column") {
		c.Merge.NotesColumn = def.Merge.NotesColumn
	}
	if c.Merge.QualifiedHeader == "" {
		c.Merge.QualifiedHeader = def.Merge.QualifiedHeader
	}
	if c.Merge.NotesHeader == "" {
		c.Merge.NotesHeader = def.Merge.NotesHeader
	}
	if c.Merge.HighlightColor == "" {
		c.Merge.HighlightColor = def.Merge.HighlightColor
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Validate reports the first setting that cannot drive a merge run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputDirectory) == "" {
		return fmt.Errorf("paths.input_directory is empty")
	}
	if strings.TrimSpace(c.Paths.MasterDirectory) == "" {
		return fmt.Errorf("paths.master_directory is empty")
	}
	if !strings.HasPrefix(c.Merge.Extension, ".") {
		return fmt.Errorf("merge.extension %q must start with a dot", c.Merge.Extension)
	}
	if c.Merge.QualifiedColumn < 0 || c.Merge.NotesColumn < 0 {
		return fmt.Errorf("merge columns must be zero-based non-negative offsets")
	}
	if c.Merge.QualifiedColumn == c.Merge.NotesColumn {
		return fmt.Errorf("merge.qualified_column and merge.notes_column are both %d", c.Merge.NotesColumn)
	}
	for _, p := range []string{c.Merge.MasterPattern, c.Merge.SheetPattern} {
		if _, err := regexp.Compile("(?i)" + p); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}
	if !hexColor.MatchString(c.Merge.HighlightColor) {
		return fmt.Errorf("merge.highlight_color %q is not a hex RGB color", c.Merge.HighlightColor)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
