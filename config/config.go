package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds settings shared by cmd/psc, cmd/psrepl and cmd/psview.
type Config struct {
	// Execution holds execution settings. The commands read only
	// EnableTrace (it turns on the VM's per-operator trace); the limit
	// fields are loaded and saved but not applied to the VM.
	Execution struct {
		MaxOperations  uint64 `toml:"max_operations"`
		OperandStack   int    `toml:"operand_stack_size"`
		DictStackDepth int    `toml:"dict_stack_depth"`
		EnableTrace    bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// REPL controls the interactive tview-based front end.
	REPL struct {
		HistorySize int  `toml:"history_size"`
		ShowStack   bool `toml:"show_stack"`
		ShowDictTop bool `toml:"show_dict_top"`
		ColorOutput bool `toml:"color_output"`
	} `toml:"repl"`

	// Page controls default output-page geometry for psc/psview.
	Page struct {
		WidthPoints  float64 `toml:"width_points"`
		HeightPoints float64 `toml:"height_points"`
		Flatness     float64 `toml:"flatness"`
	} `toml:"page"`

	// Fonts lists directories searched (in order) for PostScript font
	// resources beyond the built-in set, consumed by internal/gfont.
	Fonts struct {
		SearchPaths []string `toml:"search_paths"`
	} `toml:"fonts"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxOperations = 50_000_000
	cfg.Execution.OperandStack = 500
	cfg.Execution.DictStackDepth = 20
	cfg.Execution.EnableTrace = false

	cfg.REPL.HistorySize = 1000
	cfg.REPL.ShowStack = true
	cfg.REPL.ShowDictTop = true
	cfg.REPL.ColorOutput = true

	cfg.Page.WidthPoints = 612 // US Letter
	cfg.Page.HeightPoints = 792
	cfg.Page.Flatness = 0.3

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
		configDir = filepath.Join(configDir, "pslang")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "pslang")

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

// LoadFrom loads configuration from the specified file, falling back to
// defaults if the file does not exist.
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

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to the specified file.
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
