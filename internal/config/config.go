package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-nb2pdf/internal/yamlutil"
)

// Sentinel errors for settings operations.
var (
	ErrConfigNotFound = errors.New("settings file not found")
	ErrConfigParse    = errors.New("failed to parse settings")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Field length limits. The identity fields end up in a PDF header,
// so anything longer than a line is almost certainly a paste mistake.
const (
	MaxNameLength       = 100
	MaxRollNumberLength = 50
	MaxCourseLength     = 200
	MaxAssignmentLength = 200
	MaxPathLength       = 4096
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// appDir is the directory name under the user config and cache dirs.
const appDir = "nb2pdf"

// HistoryOff disables the conversion history when used as historyPath.
const HistoryOff = "off"

// Config mirrors the settings surface persisted between invocations.
// Empty strings mean "use the default" so a partially filled file is valid.
type Config struct {
	PythonPath     string `yaml:"pythonPath"`
	StudentName    string `yaml:"studentName"`
	RollNumber     string `yaml:"rollNumber"`
	Course         string `yaml:"course"`
	Assignment     string `yaml:"assignment"`
	AutoOpenPDF    bool   `yaml:"autoOpenPdf"`
	Timeout        string `yaml:"timeout"`        // Go duration, e.g. "90s" (default: 60s)
	RendererScript string `yaml:"rendererScript"` // Overrides the bundled renderer location
	HistoryPath    string `yaml:"historyPath"`    // "off" disables history
}

// DefaultConfig returns settings with every field unset.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths and the timeout format.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"pythonPath", c.PythonPath, MaxPathLength},
		{"studentName", c.StudentName, MaxNameLength},
		{"rollNumber", c.RollNumber, MaxRollNumberLength},
		{"course", c.Course, MaxCourseLength},
		{"assignment", c.Assignment, MaxAssignmentLength},
		{"rendererScript", c.RendererScript, MaxPathLength},
		{"historyPath", c.HistoryPath, MaxPathLength},
	}
	for _, ch := range checks {
		if err := validateFieldLength(ch.field, ch.value, ch.max); err != nil {
			return err
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Zero means "not set".
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidTimeout, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, "settings.yaml"), nil
}

// DefaultHistoryPath returns the history database location under the user cache dir.
func DefaultHistoryPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache dir: %w", err)
	}
	return filepath.Join(dir, appDir, "history.db"), nil
}

// Load reads and validates the settings file at path.
// Returns ErrConfigNotFound (wrapped) when the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as empty settings.
// Used for the implicit default path; an explicit path should go through Load.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save validates cfg and writes it to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yamlutil.Encode(cfg)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- settings are not secret
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
