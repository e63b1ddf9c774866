package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config is the user-level configuration stored at ~/.organizer/config.yaml.
type Config struct {
	DataDir     string `yaml:"dataDir,omitempty"`
	CurrentUser string `yaml:"currentUser,omitempty"`
	LogLevel    string `yaml:"logLevel,omitempty"`
	Format      string `yaml:"format,omitempty"`

	Web   WebConfig   `yaml:"web"`
	Timer TimerConfig `yaml:"timer"`
}

type WebConfig struct {
	Addr string `yaml:"addr,omitempty"`
	// AuthMode is one of: none|dev
	AuthMode string `yaml:"authMode,omitempty"`
	PageSize int    `yaml:"pageSize,omitempty"`
}

type TimerConfig struct {
	Sound string `yaml:"sound,omitempty"`
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Format:   "json",
		Web: WebConfig{
			Addr:     "127.0.0.1:3333",
			AuthMode: "dev",
			PageSize: 10,
		},
		Timer: TimerConfig{Sound: "soft01"},
	}
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.organizer).
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".organizer"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file over the defaults and then applies env overrides.
// A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_USER")); v != "" {
		c.CurrentUser = v
	}
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_FORMAT")); v != "" {
		c.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Web.Addr == "" {
		c.Web.Addr = d.Web.Addr
	}
	if c.Web.AuthMode == "" {
		c.Web.AuthMode = d.Web.AuthMode
	}
	if c.Web.PageSize <= 0 {
		c.Web.PageSize = d.Web.PageSize
	}
	if c.Timer.Sound == "" {
		c.Timer.Sound = d.Timer.Sound
	}
}

// DataDirOrDefault returns DataDir, falling back to <config dir>/data.
func (c Config) DataDirOrDefault() (string, error) {
	if strings.TrimSpace(c.DataDir) != "" {
		return c.DataDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// Save writes cfg, keeping the previous file as config.yaml.bak.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}
	// Unique temp names keep concurrent CLI/TUI/web writers from clobbering each other.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}
