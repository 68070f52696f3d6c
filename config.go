package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type uiConfig struct {
	Theme     string `yaml:"theme,omitempty"`
	Workspace string `yaml:"workspace,omitempty"`
	Language  string `yaml:"language,omitempty"`

	// SessionCookie is the pre-secure-storage location of the cookie.
	// Found values are migrated into the credential store at startup and
	// cleared from the file.
	SessionCookie string `yaml:"sessionCookie,omitempty"`
}

func loadUIConfig() (*uiConfig, string) {
	configDir := resolveConfigDir()
	path := filepath.Join(configDir, "ui.yaml")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return &uiConfig{}, path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &uiConfig{}, path
	}
	var cfg uiConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &uiConfig{}, path
	}
	return &cfg, path
}

func saveUIConfig(cfg *uiConfig, path string) error {
	if cfg == nil {
		cfg = &uiConfig{}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// migrateLegacyCookie moves a plaintext cookie out of ui.yaml into the
// credential store and clears the plaintext copy.
func migrateLegacyCookie(cfg *uiConfig, path string, store *credentialStore) error {
	legacy := strings.TrimSpace(cfg.SessionCookie)
	if legacy == "" {
		return nil
	}
	if err := store.SetCookie(legacy); err != nil {
		return err
	}
	cfg.SessionCookie = ""
	return saveUIConfig(cfg, path)
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "leetterm")
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func resolveWorkspace(cfg *uiConfig) string {
	if cfg != nil {
		if ws := strings.TrimSpace(cfg.Workspace); ws != "" {
			return filepath.Clean(ws)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
