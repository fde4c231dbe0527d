// Package config loads srvmaint settings from a YAML file in the user's
// config directory, falling back to defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

const (
	Vendor    = "syrm"
	AppName   = "srvmaint"
	FileName  = "config.yml"
	DirEnvKey = "SRVMAINT_CONFIG_DIR"
)

type Config struct {
	DockerHost       string `yaml:"dockerHost,omitempty"`
	ComposeCommand   string `yaml:"composeCommand,omitempty"`
	StacksDir        string `yaml:"stacksDir,omitempty"`
	DockgeDir        string `yaml:"dockgeDir,omitempty"`
	DockgeComposeURL string `yaml:"dockgeComposeURL,omitempty"`
	AptConfDir       string `yaml:"aptConfDir,omitempty"`
	LogFile          string `yaml:"logFile,omitempty"`
	LogLevel         string `yaml:"logLevel,omitempty"`

	DryRun bool `yaml:"-"`
	// Dir is the directory the config was loaded from.
	Dir string `yaml:"-"`
}

func Default(dir string) Config {
	return Config{
		ComposeCommand:   "docker compose",
		StacksDir:        "/opt/stacks",
		DockgeDir:        "/opt/dockge",
		DockgeComposeURL: "https://dockge.kuma.pet/compose.yaml?port=5001&stacksPath=/opt/stacks",
		AptConfDir:       "/etc/apt/apt.conf.d",
		LogFile:          filepath.Join(dir, AppName+".log"),
		LogLevel:         "info",
		Dir:              dir,
	}
}

// Dir returns SRVMAINT_CONFIG_DIR when set, otherwise the XDG config home.
func Dir() string {
	if dir := os.Getenv(DirEnvKey); dir != "" {
		return dir
	}

	return xdg.New(Vendor, AppName).ConfigHome()
}

// Load reads config.yml from dir. A missing file yields the defaults.
func Load(dir string) (Config, error) {
	defaults := Default(dir)

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", filepath.Join(dir, FileName), err)
	}

	if err := mergo.Merge(&cfg, defaults); err != nil {
		return Config{}, fmt.Errorf("merge config defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	for name, dir := range map[string]string{"stacksDir": c.StacksDir, "dockgeDir": c.DockgeDir, "aptConfDir": c.AptConfDir} {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("%s must be an absolute path, got %q", name, dir)
		}
	}

	return nil
}

func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid logLevel %q", s)
	}

	return level, nil
}
