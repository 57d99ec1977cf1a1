// Package config loads and saves assembler tuning settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the assembler's tunable settings. Most of these have a
// fixed normative value; they are still exposed here so a user can override
// them (e.g. to assemble against a different memory layout) without a
// rebuild.
type Config struct {
	// Assembler settings
	Assembler struct {
		MemoryStart      int  `toml:"memory_start"`
		MaxLabelLength   int  `toml:"max_label_length"`
		MaxMacros        int  `toml:"max_macros"`
		MaxMacroBodyLine int  `toml:"max_macro_body_lines"`
		StrictCommas     bool `toml:"strict_commas"` // not read: operands are always split strictly on commas
		DiagnoseDupLabel bool `toml:"diagnose_duplicate_labels"`
	} `toml:"assembler"`

	// Listing settings hold display preferences for the -view
	// listing/symbol-table viewer. The listview package does not read them,
	// so changing them has no effect on the viewer.
	Listing struct {
		ColorOutput   bool   `toml:"color_output"`
		WordsPerLine  int    `toml:"words_per_line"`
		SourceContext int    `toml:"source_context"`
		NumberFormat  string `toml:"number_format"` // octal, decimal
	} `toml:"listing"`

	// Output settings hold output file extensions. They are not read when
	// writing output: encode.WriteOutputFiles always uses .ob, .ent and .ext.
	Output struct {
		ObjectExt string `toml:"object_ext"`
		EntryExt  string `toml:"entry_ext"`
		ExternExt string `toml:"extern_ext"`
	} `toml:"output"`
}

// DefaultConfig returns a configuration with the normative default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.MemoryStart = 100
	cfg.Assembler.MaxLabelLength = 30
	cfg.Assembler.MaxMacros = 100
	cfg.Assembler.MaxMacroBodyLine = 50
	cfg.Assembler.StrictCommas = true
	cfg.Assembler.DiagnoseDupLabel = true

	cfg.Listing.ColorOutput = true
	cfg.Listing.WordsPerLine = 8
	cfg.Listing.SourceContext = 5
	cfg.Listing.NumberFormat = "octal"

	cfg.Output.ObjectExt = ".ob"
	cfg.Output.EntryExt = ".ent"
	cfg.Output.ExternExt = ".ext"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "mini15asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "mini15asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
