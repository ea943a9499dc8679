package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		AssetsDir:  "assets",
		ZoomFactor: 0.005,
		PlaneCount: 16,
		UndoLimit:  100,
		LogLevel:   "info",
		Watch:      true,
		Window:     Window{Width: 1280, Height: 720},
	}
	if *cfg != want {
		t.Fatalf("expected %+v, got %+v", want, *cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	data := []byte("assets_dir: art\nplane_count: 8\nwindow:\n  width: 640\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TILEFORGE_UNDO_LIMIT", "5")
	t.Setenv("TILEFORGE_WINDOW_HEIGHT", "480")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AssetsDir != "art" || cfg.PlaneCount != 8 || cfg.Window.Width != 640 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.UndoLimit != 5 || cfg.Window.Height != 480 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  string
		val  string
	}{
		{"zoom_factor", "TILEFORGE_ZOOM_FACTOR", "0"},
		{"plane_count", "TILEFORGE_PLANE_COUNT", "2"},
		{"undo_limit", "TILEFORGE_UNDO_LIMIT", "0"},
		{"window", "TILEFORGE_WINDOW_WIDTH", "-1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(c.env, c.val)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%s", c.env, c.val)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for a missing config file")
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&Config{LogLevel: "debug"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", log.GetLevel())
	}
	if _, err := NewLogger(&Config{LogLevel: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
