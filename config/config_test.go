package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxOperations != 50_000_000 {
		t.Errorf("Expected MaxOperations=50000000, got %d", cfg.Execution.MaxOperations)
	}
	if cfg.Execution.OperandStack != 500 {
		t.Errorf("Expected OperandStack=500, got %d", cfg.Execution.OperandStack)
	}

	if cfg.REPL.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.REPL.HistorySize)
	}
	if !cfg.REPL.ShowStack {
		t.Error("Expected ShowStack=true")
	}

	if cfg.Page.WidthPoints != 612 {
		t.Errorf("Expected WidthPoints=612, got %v", cfg.Page.WidthPoints)
	}
	if cfg.Page.HeightPoints != 792 {
		t.Errorf("Expected HeightPoints=792, got %v", cfg.Page.HeightPoints)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "pslang" && path != "config.toml" {
			t.Errorf("Expected path in pslang directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxOperations = 5_000_000
	cfg.Execution.EnableTrace = true
	cfg.REPL.HistorySize = 500
	cfg.REPL.ColorOutput = false
	cfg.Fonts.SearchPaths = []string{"/usr/share/fonts", "/opt/fonts"}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Execution.MaxOperations != 5_000_000 {
		t.Errorf("Expected MaxOperations=5000000, got %d", loaded.Execution.MaxOperations)
	}
	if !loaded.Execution.EnableTrace {
		t.Error("Expected EnableTrace=true")
	}
	if loaded.REPL.HistorySize != 500 {
		t.Errorf("Expected HistorySize=500, got %d", loaded.REPL.HistorySize)
	}
	if loaded.REPL.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if len(loaded.Fonts.SearchPaths) != 2 || loaded.Fonts.SearchPaths[0] != "/usr/share/fonts" {
		t.Errorf("Expected 2 font search paths round-tripped, got %v", loaded.Fonts.SearchPaths)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Execution.MaxOperations != 50_000_000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_operations = "not a number"  # Invalid: should be uint64
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
