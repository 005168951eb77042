// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/fincomply/sarforge/internal/common"
)

// Config holds the runtime configuration assembled from the config file,
// environment, and flags.
type Config struct {
	DatabasePath string
	TemplatePath string
	ListenAddr   string
	ExportDir    string
	Debug        bool
}

// Load reads the configuration out of viper, applying defaults and path
// expansion.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		TemplatePath: ExpandPath(viper.GetString("pdf.template")),
		ListenAddr:   viper.GetString("server.addr"),
		ExportDir:    ExpandPath(viper.GetString("export.dir")),
		Debug:        viper.GetBool("debug"),
	}

	if cfg.DatabasePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: database.path not set and home directory unavailable: %v", common.ErrMissingConfig, err)
		}
		cfg.DatabasePath = filepath.Join(home, ".local", "share", "sarforge", "sarforge.db")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8085"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	return cfg, nil
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// LoadTemplate reads the configured PDF template. A missing or unreadable
// template is reported as common.ErrTemplateUnavailable; callers treat that
// as "no template" rather than a failure.
func (c *Config) LoadTemplate() ([]byte, error) {
	if c.TemplatePath == "" {
		return nil, common.ErrTemplateUnavailable
	}
	data, err := os.ReadFile(c.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTemplateUnavailable, err)
	}
	return data, nil
}
