package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverlaysFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 6100\ntitle: Custom Title\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 6100 {
		t.Errorf("Port = %d, want 6100", cfg.Port)
	}
	if cfg.Title != "Custom Title" {
		t.Errorf("Title = %q", cfg.Title)
	}
	// Untouched keys keep their defaults.
	if cfg.Width != Default().Width {
		t.Errorf("Width = %d, want default %d", cfg.Width, Default().Width)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not an int"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config did not error")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 6100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"--port", "7000", "--background"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want flag value 7000", cfg.Port)
	}
	if !cfg.Background {
		t.Error("Background flag not applied")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Port = 6200
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 6200 {
		t.Errorf("round-trip Port = %d, want 6200", loaded.Port)
	}
}
