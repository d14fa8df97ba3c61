package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cvpager/internal/config"
)

const envPrefix = "CVPAGER_"

// envConfig holds configuration from CVPAGER_* environment variables.
// Precedence: flags > environment > config file > defaults.
type envConfig struct {
	ConfigPath string // CVPAGER_CONFIG: config file path or name
	Style      string // CVPAGER_STYLE: style name or CSS path
	Timeout    string // CVPAGER_TIMEOUT: Go duration, checked by config.Validate
	Workers    int    // CVPAGER_WORKERS: parallel renderers

	InputDir  string // CVPAGER_INPUT_DIR
	OutputDir string // CVPAGER_OUTPUT_DIR
	PageSize  string // CVPAGER_PAGE_SIZE: letter, a4, legal
	AssetPath string // CVPAGER_ASSET_PATH
	LogLevel  string // CVPAGER_LOG_LEVEL
	LogFormat string // CVPAGER_LOG_FORMAT
}

// knownEnvVars lists valid CVPAGER_* variables, so typos can be reported.
var knownEnvVars = map[string]bool{
	"CVPAGER_CONFIG":     true,
	"CVPAGER_STYLE":      true,
	"CVPAGER_TIMEOUT":    true,
	"CVPAGER_WORKERS":    true,
	"CVPAGER_INPUT_DIR":  true,
	"CVPAGER_OUTPUT_DIR": true,
	"CVPAGER_PAGE_SIZE":  true,
	"CVPAGER_ASSET_PATH": true,
	"CVPAGER_LOG_LEVEL":  true,
	"CVPAGER_LOG_FORMAT": true,
}

// loadEnvConfig reads CVPAGER_* values through getenv. Only CVPAGER_WORKERS
// is parsed here; the other values are checked with the merged config.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: getenv("CVPAGER_CONFIG"),
		Style:      getenv("CVPAGER_STYLE"),
		Timeout:    getenv("CVPAGER_TIMEOUT"),
		InputDir:   getenv("CVPAGER_INPUT_DIR"),
		OutputDir:  getenv("CVPAGER_OUTPUT_DIR"),
		PageSize:   getenv("CVPAGER_PAGE_SIZE"),
		AssetPath:  getenv("CVPAGER_ASSET_PATH"),
		LogLevel:   getenv("CVPAGER_LOG_LEVEL"),
		LogFormat:  getenv("CVPAGER_LOG_FORMAT"),
	}

	if workers := strings.TrimSpace(getenv("CVPAGER_WORKERS")); workers != "" {
		w, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("%w: CVPAGER_WORKERS=%q", ErrInvalidWorkerCount, workers)
		}
		if err := validateWorkers(w); err != nil {
			return nil, fmt.Errorf("CVPAGER_WORKERS: %w", err)
		}
		cfg.Workers = w
	}
	return cfg, nil
}

// applyEnvConfig sets every config value whose variable is set. Flags are
// merged afterwards and win.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Style.Name, env.Style)
	set(&cfg.Pagination.Timeout, env.Timeout)
	set(&cfg.Input.DefaultDir, env.InputDir)
	set(&cfg.Output.DefaultDir, env.OutputDir)
	set(&cfg.Page.Size, env.PageSize)
	set(&cfg.Assets.BasePath, env.AssetPath)
	set(&cfg.Log.Level, env.LogLevel)
	set(&cfg.Log.Format, env.LogFormat)
}

// warnUnknownEnvVars logs a warning for every unrecognized CVPAGER_*
// variable in environ.
func warnUnknownEnvVars(logger *log.Logger, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}
