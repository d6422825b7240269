// Package config loads todone settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ProjectFileName = ".todone.toml"
	userDirName     = "todone"
	userFileName    = "config.toml"
)

// Config holds all settings. Zero values are filled from Default.
type Config struct {
	// ConfigDir is the project-relative directory holding the todo file.
	ConfigDir string `toml:"config_dir"`
	FileName  string `toml:"file_name"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text | json | logfmt

	Theme         string `toml:"theme"`         // classic | neon | mono
	Strikethrough string `toml:"strikethrough"` // combining | style
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ConfigDir:     ".vscode",
		FileName:      "todone.json",
		LogLevel:      "info",
		LogFormat:     "text",
		Theme:         "classic",
		Strikethrough: "combining",
	}
}

// Load layers, lowest first: defaults, the user config file, the project
// file in root, and explicitPath when set. A missing explicit file is an
// error; missing implicit files are skipped.
func Load(root, explicitPath string) (Config, error) {
	cfg := Default()

	if p := userConfigFile(); p != "" {
		if err := loadFile(&cfg, p); err != nil {
			return cfg, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	if root != "" {
		p := filepath.Join(root, ProjectFileName)
		if fileExists(p) {
			if err := loadFile(&cfg, p); err != nil {
				return cfg, fmt.Errorf("loading project config file %s: %w", p, err)
			}
		}
	}

	if explicitPath != "" {
		if err := loadFile(&cfg, explicitPath); err != nil {
			return cfg, fmt.Errorf("loading config file %s: %w", explicitPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ConfigDir) == "" {
		errs = append(errs, errors.New("config_dir is empty"))
	}
	if filepath.IsAbs(c.ConfigDir) {
		errs = append(errs, fmt.Errorf("config_dir must be relative to the project: %q", c.ConfigDir))
	}
	if strings.TrimSpace(c.FileName) == "" || strings.ContainsRune(c.FileName, filepath.Separator) {
		errs = append(errs, fmt.Errorf("invalid file_name %q", c.FileName))
	}
	if !oneOf(c.LogLevel, "debug", "info", "warn", "error") {
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	if !oneOf(c.LogFormat, "text", "json", "logfmt") {
		errs = append(errs, fmt.Errorf("invalid log_format %q", c.LogFormat))
	}
	if !oneOf(c.Theme, "classic", "neon", "mono") {
		errs = append(errs, fmt.Errorf("invalid theme %q", c.Theme))
	}
	if !oneOf(c.Strikethrough, "combining", "style") {
		errs = append(errs, fmt.Errorf("invalid strikethrough %q", c.Strikethrough))
	}
	return errors.Join(errs...)
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// userConfigFile returns the user config path if it exists.
func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, userDirName, userFileName)
	if !fileExists(p) {
		return ""
	}
	return p
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
