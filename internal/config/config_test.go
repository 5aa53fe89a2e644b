package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	v := cfg.Canvas(VariantViewer)
	if v.MinScale != 0.5 || v.MaxScale != 2.0 {
		t.Errorf("viewer bounds = %+v", v)
	}
	m := cfg.Canvas(VariantMap)
	if m.MinScale != 0.3 || m.MaxScale != 2.0 {
		t.Errorf("map bounds = %+v", m)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	l := NewLoaderWithPath(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if l.Exists() {
		t.Fatal("config reported as existing")
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WheelGain != DefaultConfig().WheelGain {
		t.Errorf("wheel gain = %v", cfg.WheelGain)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	l := NewLoaderWithPath(filepath.Join(t.TempDir(), "sub", ConfigFileName))
	cfg := DefaultConfig()
	cfg.Map.MinScale = 0.25
	cfg.DarkMode = true
	cfg.LastDir = "/srv/maps"

	if err := l.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Map.MinScale != 0.25 || !got.DarkMode || got.LastDir != "/srv/maps" {
		t.Errorf("loaded = %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := "viewer:\n  min_scale: 0.1\n  max_scale: 8\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoaderWithPath(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Viewer.MinScale != 0.1 || cfg.Viewer.MaxScale != 8 {
		t.Errorf("viewer = %+v", cfg.Viewer)
	}
	if cfg.Map != DefaultConfig().Map {
		t.Errorf("map = %+v, want defaults", cfg.Map)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("OTV_TEST_DIR", "/data/scans")
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("last_dir: ${OTV_TEST_DIR}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoaderWithPath(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LastDir != "/data/scans" {
		t.Errorf("last dir = %q", cfg.LastDir)
	}
}

func TestValidateRejectsBadBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted viewer", func(c *Config) { c.Viewer = ZoomBounds{MinScale: 3, MaxScale: 1} }},
		{"zero map min", func(c *Config) { c.Map.MinScale = 0 }},
		{"negative max", func(c *Config) { c.Viewer.MaxScale = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidBounds) {
				t.Fatalf("error = %v, want ErrInvalidBounds", err)
			}
		})
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant("map"); err != nil || v != VariantMap {
		t.Errorf("map = %v, %v", v, err)
	}
	if _, err := ParseVariant("gallery"); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestSaveLastDirKeepsReferencesAndComments(t *testing.T) {
	t.Setenv("OTV_TEST_HOME", "/home/alice")
	t.Setenv("OTV_TEST_MIN", "0.25")
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := "# viewer settings\n" +
		"viewer:\n  min_scale: ${OTV_TEST_MIN}\n  max_scale: 4\n" +
		"last_dir: ${OTV_TEST_HOME}/scans\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoaderWithPath(path)
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LastDir != "/home/alice/scans" || cfg.Viewer.MinScale != 0.25 {
		t.Fatalf("expanded = %+v", cfg)
	}

	if err := l.SaveLastDir("/srv/boards"); err != nil {
		t.Fatalf("save last dir: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, want := range []string{"# viewer settings", "${OTV_TEST_MIN}", "last_dir: /srv/boards"} {
		if !strings.Contains(text, want) {
			t.Errorf("saved file missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "/home/alice") {
		t.Errorf("saved file contains expanded values:\n%s", text)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.LastDir != "/srv/boards" || got.Viewer.MinScale != 0.25 || got.Viewer.MaxScale != 4 {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestSaveLastDirAppendsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("wheel_gain: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoaderWithPath(path)
	if err := l.SaveLastDir("/data"); err != nil {
		t.Fatal(err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LastDir != "/data" || cfg.WheelGain != 5 {
		t.Errorf("loaded = %+v", cfg)
	}
}

func TestSaveLastDirDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otv", ConfigFileName)
	l := NewLoaderWithPath(path)
	if err := l.SaveLastDir("/data"); err != nil {
		t.Fatal(err)
	}
	if l.Exists() {
		t.Error("config file created without config init")
	}
}

func TestSetLastDir(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.SetLastDir("/a") {
		t.Error("first directory not reported as a change")
	}
	if cfg.SetLastDir("/a") {
		t.Error("same directory reported as a change")
	}
}

func TestValidateWheelGain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WheelGain = -10
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWheelGain) {
		t.Fatalf("error = %v, want ErrInvalidWheelGain", err)
	}

	cfg = DefaultConfig()
	cfg.WheelGain = 0
	if err := cfg.Validate(); err != nil || cfg.WheelGain != DefaultConfig().WheelGain {
		t.Errorf("zero gain = %v, %v; want default", cfg.WheelGain, err)
	}
}
