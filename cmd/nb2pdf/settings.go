package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/config"
	"github.com/alnah/go-nb2pdf/internal/hints"
)

// settingsPath returns the settings file and whether it was named explicitly.
// Precedence: --settings > NB2PDF_SETTINGS > user config dir.
func settingsPath(flagPath string, env *envConfig) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if env.SettingsPath != "" {
		return env.SettingsPath, true, nil
	}
	path, err = config.DefaultPath()
	return path, false, err
}

// loadSettingsFile loads the settings file. An explicitly named file must
// exist; the implicit default may be absent.
func loadSettingsFile(path string, explicit bool) (*config.Config, error) {
	if !explicit {
		return config.LoadOrDefault(path)
	}
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w%s", err, hints.ForSettingsNotFound(path))
	}
	return cfg, err
}

// resolveSettings merges env vars and flags over the file values into the
// snapshot handed to the library.
func resolveSettings(cfg *config.Config, env *envConfig, rt runtimeFlags, timeoutFlag string) (nb2pdf.Settings, error) {
	applyEnvConfig(env, cfg)
	if rt.python != "" {
		cfg.PythonPath = rt.python
	}
	if rt.renderer != "" {
		cfg.RendererScript = rt.renderer
	}

	timeout, err := resolveTimeout(timeoutFlag, env.Timeout, cfg)
	if err != nil {
		return nb2pdf.Settings{}, err
	}

	return nb2pdf.Settings{
		PythonPath:     cfg.PythonPath,
		StudentName:    cfg.StudentName,
		RollNumber:     cfg.RollNumber,
		Course:         cfg.Course,
		Assignment:     cfg.Assignment,
		AutoOpenPDF:    cfg.AutoOpenPDF,
		Timeout:        timeout,
		RendererScript: cfg.RendererScript,
	}, nil
}

// resolveTimeout returns the renderer timeout: flag > env > settings file.
// Zero means "use the library default".
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: --timeout %q: %v", config.ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: --timeout must be positive, got %s", config.ErrInvalidTimeout, d)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	return cfg.TimeoutDuration()
}

// workspaceRoots returns the directories searched for notebooks and the
// renderer: flags, else NB2PDF_WORKSPACE, else the working directory.
func workspaceRoots(flagRoots []string, env *envConfig) []string {
	if len(flagRoots) > 0 {
		return flagRoots
	}
	if len(env.Workspace) > 0 {
		return env.Workspace
	}
	if wd, err := os.Getwd(); err == nil {
		return []string{wd}
	}
	return nil
}

// historyPath returns the history database, or "" when disabled.
func historyPath(cfg *config.Config) (string, error) {
	switch cfg.HistoryPath {
	case config.HistoryOff:
		return "", nil
	case "":
		return config.DefaultHistoryPath()
	default:
		return cfg.HistoryPath, nil
	}
}

// settingsStore persists the identity fields in the settings file.
type settingsStore struct {
	path string
}

// LoadIdentity implements nb2pdf.IdentityStore.
func (s settingsStore) LoadIdentity() (nb2pdf.IdentityConfig, error) {
	cfg, err := config.LoadOrDefault(s.path)
	if err != nil {
		return nb2pdf.IdentityConfig{}, err
	}
	return nb2pdf.IdentityConfig{
		StudentName: cfg.StudentName,
		RollNumber:  cfg.RollNumber,
		Course:      cfg.Course,
		Assignment:  cfg.Assignment,
	}, nil
}

// SaveIdentity implements nb2pdf.IdentityStore. Other settings are preserved.
func (s settingsStore) SaveIdentity(id nb2pdf.IdentityConfig) error {
	cfg, err := config.LoadOrDefault(s.path)
	if err != nil {
		return err
	}
	cfg.StudentName = id.StudentName
	cfg.RollNumber = id.RollNumber
	cfg.Course = id.Course
	cfg.Assignment = id.Assignment
	return config.Save(s.path, cfg)
}
