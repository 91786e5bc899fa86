// Package config holds the companion's runtime settings: a YAML file
// in the data directory overlaid with command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hevolve/companion/internal/appinfo"
)

// Config is the runtime configuration of the companion app.
type Config struct {
	Port       int    `yaml:"port"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	AgentURL   string `yaml:"agent_url"`
	StopAPIURL string `yaml:"stop_api_url"`

	// Background starts the control server without opening the agent
	// UI. Flag-only; the autostart registration passes it.
	Background bool `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:       appinfo.DefaultPort,
		Width:      appinfo.DefaultWidth,
		Height:     appinfo.DefaultHeight,
		Title:      appinfo.Name,
		AgentURL:   appinfo.DefaultAgentURL,
		StopAPIURL: appinfo.DefaultStopAPIURL,
	}
}

// BindFlags registers the command-line overrides on fs. Call Load
// first, then fs.Parse, so flags win over the file.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "control server port")
	fs.IntVar(&c.Width, "width", c.Width, "agent window width")
	fs.IntVar(&c.Height, "height", c.Height, "agent window height")
	fs.StringVar(&c.Title, "title", c.Title, "agent window title")
	fs.StringVar(&c.AgentURL, "agent-url", c.AgentURL, "agent UI base URL")
	fs.StringVar(&c.StopAPIURL, "stop-api-url", c.StopAPIURL, "endpoint notified on shutdown")
	fs.BoolVar(&c.Background, "background", false, "start without opening the agent UI")
}

// Load reads the YAML config at path over the defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to path, creating the directory
// if needed.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
