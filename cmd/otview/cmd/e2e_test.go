package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "board.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with fresh flag state
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	infoContainer = ""
	infoMap = false
	configForce = false
	configPath = ""
	verbose = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestInfoE2E(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, 1000, 500)
	cfgFile := filepath.Join(dir, "config.yaml")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "header only",
			args:        []string{"info", img},
			wantContain: []string{"Format: png", "Size: 1000 x 500 px"},
		},
		{
			name: "fit into square container",
			args: []string{"info", img, "--container", "500x500", "--config", cfgFile},
			wantContain: []string{
				"Fit in 500x500 (viewer bounds 0.50 - 2.00)",
				"Scale: 0.5000",
				"Rect: (0.0, 125.0) - (500.0, 375.0)",
			},
		},
		{
			name: "fit below map bounds",
			args: []string{"info", img, "--container", "200x200", "--map", "--config", cfgFile},
			wantContain: []string{
				"map bounds 0.30 - 2.00",
				"Scale: 0.2000",
				"first scroll clamps",
			},
		},
		{
			name:    "bad container",
			args:    []string{"info", img, "--container", "wide", "--config", cfgFile},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"info", filepath.Join(dir, "missing.png")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none\nOutput: %s", output)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestConfigE2E(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "otview", "config.yaml")

	out, err := run(t, "config", "path", "--config", cfgFile)
	if err != nil || strings.TrimSpace(out) != cfgFile {
		t.Fatalf("path = %q, %v", out, err)
	}

	out, err = run(t, "config", "show", "--config", cfgFile)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "min_scale: 0.3") || !strings.Contains(out, "wheel_gain: 10") {
		t.Errorf("show output:\n%s", out)
	}

	if _, err := run(t, "config", "init", "--config", cfgFile); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run(t, "config", "init", "--config", cfgFile); err == nil {
		t.Error("second init without --force succeeded")
	}
	if _, err := run(t, "config", "init", "--force", "--config", cfgFile); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestParseContainer(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float32
		wantErr bool
	}{
		{in: "800x600", w: 800, h: 600},
		{in: " 1024X768 ", w: 1024, h: 768},
		{in: "800", wantErr: true},
		{in: "0x600", wantErr: true},
		{in: "-5x5", wantErr: true},
		{in: "ax b", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseContainer(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errBadContainer) {
				t.Errorf("parseContainer(%q) error = %v, want errBadContainer", tt.in, err)
			}
			continue
		}
		if err != nil || got.X != tt.w || got.Y != tt.h {
			t.Errorf("parseContainer(%q) = %v, %v", tt.in, got, err)
		}
	}
}
