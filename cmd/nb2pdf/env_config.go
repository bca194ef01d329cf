package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-nb2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without editing the settings file.
type envConfig struct {
	SettingsPath string        // NB2PDF_SETTINGS: settings file path
	Python       string        // NB2PDF_PYTHON: interpreter override
	Timeout      time.Duration // NB2PDF_TIMEOUT: renderer timeout
	Renderer     string        // NB2PDF_RENDERER: renderer script override
	History      string        // NB2PDF_HISTORY: history database path or "off"
	ActiveFile   string        // NB2PDF_ACTIVE_FILE: document focused in the calling editor
	Workspace    []string      // NB2PDF_WORKSPACE: workspace roots, path-list separated
}

// knownEnvVars lists valid NB2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NB2PDF_SETTINGS":    true,
	"NB2PDF_PYTHON":      true,
	"NB2PDF_TIMEOUT":     true,
	"NB2PDF_RENDERER":    true,
	"NB2PDF_HISTORY":     true,
	"NB2PDF_ACTIVE_FILE": true,
	"NB2PDF_WORKSPACE":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid timeouts are ignored rather than reported.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		SettingsPath: os.Getenv("NB2PDF_SETTINGS"),
		Python:       os.Getenv("NB2PDF_PYTHON"),
		Renderer:     os.Getenv("NB2PDF_RENDERER"),
		History:      os.Getenv("NB2PDF_HISTORY"),
		ActiveFile:   os.Getenv("NB2PDF_ACTIVE_FILE"),
	}

	if timeout := os.Getenv("NB2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if ws := os.Getenv("NB2PDF_WORKSPACE"); ws != "" {
		for _, root := range filepath.SplitList(ws) {
			if root != "" {
				cfg.Workspace = append(cfg.Workspace, root)
			}
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NB2PDF_* variables.
// Helps catch typos like NB2PDF_PYTON instead of NB2PDF_PYTHON.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "NB2PDF_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to the settings file
// values. Set variables win over the file; flags are applied afterwards.
// The timeout is handled separately in resolveTimeout.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Python != "" {
		cfg.PythonPath = env.Python
	}
	if env.Renderer != "" {
		cfg.RendererScript = env.Renderer
	}
	if env.History != "" {
		cfg.HistoryPath = env.History
	}
}
