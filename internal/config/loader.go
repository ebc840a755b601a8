package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/theme"
)

// Environment variables that override file settings.
const (
	EnvTheme       = "MASKEDIT_THEME"
	EnvSaveDir     = "MASKEDIT_SAVE_DIR"
	EnvColor       = "MASKEDIT_COLOR"
	EnvThickness   = "MASKEDIT_THICKNESS"
	EnvJPEGQuality = "MASKEDIT_JPEG_QUALITY"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
	// EnvFiles are read with godotenv before applying overrides. Missing
	// files are skipped. Variables already in the environment win.
	EnvFiles []string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		EnvFiles:     []string{".env"},
	}
}

// Load reads the config file, if any, then applies environment overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, err
		}
		logrus.WithField("path", path).Debug("config loaded")
	}
	l.loadEnvFiles()
	applyEnv(cfg)
	return cfg, nil
}

func (l *Loader) loadEnvFiles() {
	var found []string
	for _, p := range l.EnvFiles {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return
	}
	if err := godotenv.Load(found...); err != nil {
		logrus.WithError(err).Warn("reading env file")
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(EnvSaveDir); v != "" {
		cfg.SaveDir = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		if c, err := theme.ParseColor(v); err == nil {
			cfg.Color = c
		} else {
			logrus.WithError(err).Warnf("ignoring %s", EnvColor)
		}
	}
	if v := os.Getenv(EnvThickness); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thickness.Value = n
		} else {
			logrus.WithError(err).Warnf("ignoring %s", EnvThickness)
		}
	}
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			cfg.Export.JPEGQuality = n
		} else {
			logrus.Warnf("ignoring %s=%q", EnvJPEGQuality, v)
		}
	}
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".maskeditrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	if p := DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "maskedit", "config.rc")
}
