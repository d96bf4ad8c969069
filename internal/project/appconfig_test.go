package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultTabSize = 25
	cfg.DefaultSeed = 1234
	cfg.DefaultGCodeProfile = "Mach3"
	cfg.RecentImages = []string{"/tmp/cat.png", "/tmp/dog.jpg"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultTabSize != 25 {
		t.Errorf("expected DefaultTabSize=25, got %f", loaded.DefaultTabSize)
	}
	if loaded.DefaultSeed != 1234 {
		t.Errorf("expected DefaultSeed=1234, got %d", loaded.DefaultSeed)
	}
	if loaded.DefaultGCodeProfile != "Mach3" {
		t.Errorf("expected profile Mach3, got %s", loaded.DefaultGCodeProfile)
	}
	if len(loaded.RecentImages) != 2 {
		t.Errorf("expected 2 recent images, got %d", len(loaded.RecentImages))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultJitter != defaults.DefaultJitter {
		t.Errorf("expected default jitter %f, got %f", defaults.DefaultJitter, cfg.DefaultJitter)
	}
	if cfg.DefaultPieceCount != defaults.DefaultPieceCount {
		t.Errorf("expected default piece count %d, got %d", defaults.DefaultPieceCount, cfg.DefaultPieceCount)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_jitter": 9}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultJitter != 9 {
		t.Errorf("expected jitter 9, got %f", cfg.DefaultJitter)
	}
	if cfg.DefaultTabSize != model.DefaultTabSize {
		t.Errorf("expected default tab size %f, got %f", model.DefaultTabSize, cfg.DefaultTabSize)
	}
	if cfg.MaxWidth != model.DefaultMaxWidth {
		t.Errorf("expected default max width %d, got %d", model.DefaultMaxWidth, cfg.MaxWidth)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_tab_size":20,"recent_images":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentImages == nil {
		t.Error("RecentImages should not be nil after loading")
	}
}

func TestDefaultPathsShareDirectory(t *testing.T) {
	dir := DefaultConfigDir()
	for _, p := range []string{DefaultConfigPath(), DefaultPresetPath(), DefaultProfilesPath()} {
		if filepath.Dir(p) != dir {
			t.Errorf("%s is not inside %s", p, dir)
		}
	}
}
