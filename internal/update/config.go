package update

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	DBPath        string `yaml:"dbPath"`
	LogLevel      string `yaml:"logLevel"`
	LogFile       string `yaml:"logFile"`
	InitialStatus string `yaml:"initialStatus"`
	MarkdownHelp  bool   `yaml:"markdownHelp"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:        ".tasklist.db",
		LogLevel:      "info",
		LogFile:       "",
		InitialStatus: "",
		MarkdownHelp:  false,
	}
}

// LoadRuntimeConfigFile layers a YAML file over base. A missing file is not
// an error; an empty path means "no file".
func LoadRuntimeConfigFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return base, fmt.Errorf("read config %s: %w", trimmed, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", trimmed, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TASKLIST_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKLIST_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKLIST_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKLIST_STATUS")); v != "" {
		cfg.InitialStatus = v
	}
	if v, ok := getEnvBool("TASKLIST_MARKDOWN_HELP"); ok {
		cfg.MarkdownHelp = v
	}
	return cfg
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
