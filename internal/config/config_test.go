package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.RootPath != "/root" {
		t.Errorf("RootPath = %q, want %q", cfg.Export.RootPath, "/root")
	}
	if !cfg.Export.Binary {
		t.Error("Binary = false, want true")
	}
	if len(cfg.Export.Frames) != 0 {
		t.Errorf("Frames = %v, want empty", cfg.Export.Frames)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.RootPath != "/root" {
		t.Errorf("RootPath = %q, want default", cfg.Export.RootPath)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "usdexport.yaml")
	data := `
export:
  root_path: /scene
  binary: false
  frames: [1, 2, 3]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Export.RootPath != "/scene" {
		t.Errorf("RootPath = %q, want %q", cfg.Export.RootPath, "/scene")
	}
	if cfg.Export.Binary {
		t.Error("Binary = true, want false")
	}
	if len(cfg.Export.Frames) != 3 || cfg.Export.Frames[2] != 3 {
		t.Errorf("Frames = %v, want [1 2 3]", cfg.Export.Frames)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("export: ["), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
