package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Conventional filenames inside the store directory. The store directory is
// the unit that gets versioned and synced between devices.
const (
	StoreFileName    = "secrets.env.age"
	ManifestFileName = "recipients.toml"
	TemplateFileName = "secrets.env.template"
	AuditFileName    = "audit.jsonl"

	// EncryptedExt is appended to plaintext filenames by the encrypt operation.
	EncryptedExt = ".age"
)

// Settings holds every path and external-tool choice the workflows need.
// It is resolved once at startup and passed down explicitly; nothing below
// the command layer consults the environment.
type Settings struct {
	// StoreDir is the directory holding the encrypted artifact, the
	// recipient manifest, the template, and the audit log.
	StoreDir string

	// StorePath is the encrypted credential store artifact.
	StorePath string

	// IdentityPath is the age identity (private key) file. It lives outside
	// StoreDir so it is never picked up by the sync layer.
	IdentityPath string

	// ManifestPath is the versioned recipient manifest.
	ManifestPath string

	// TemplatePath is the plaintext template listing known keys without values.
	TemplatePath string

	// AuditPath is the JSONL audit log.
	AuditPath string

	// Editor is the command invoked by the edit workflow.
	Editor string
}

// fileConfig mirrors the optional TOML config file.
type fileConfig struct {
	Paths pathsConfig `toml:"paths"`
	Edit  editConfig  `toml:"edit"`
}

type pathsConfig struct {
	StoreDir string `toml:"store_dir"`
	Store    string `toml:"store"`
	Identity string `toml:"identity"`
}

type editConfig struct {
	Editor string `toml:"editor"`
}

// ConfigPath returns the location of the user config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "secrets", "config.toml"), nil
}

// Load resolves Settings with the precedence defaults < config file < environment.
func Load() (Settings, error) {
	s, err := defaults()
	if err != nil {
		return Settings{}, err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	if _, statErr := os.Stat(configPath); statErr == nil {
		var fc fileConfig
		if err := LoadTOML(configPath, &fc); err != nil {
			return Settings{}, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyFileConfig(&s, fc)
	}

	applyEnv(&s)
	s.derivePaths()

	return s, nil
}

// defaults returns the conventional paths:
//
//	store dir:  $XDG_DATA_HOME/secrets  (~/.local/share/secrets)
//	identity:   <user config dir>/secrets/identity.txt
func defaults() (Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	s := Settings{
		StoreDir:     filepath.Join(dataDir, "secrets"),
		IdentityPath: filepath.Join(configDir, "secrets", "identity.txt"),
		Editor:       "vi",
	}
	s.derivePaths()
	return s, nil
}

func applyFileConfig(s *Settings, fc fileConfig) {
	if fc.Paths.StoreDir != "" {
		s.StoreDir = fc.Paths.StoreDir
		s.StorePath = ""
	}
	if fc.Paths.Store != "" {
		s.StorePath = fc.Paths.Store
	}
	if fc.Paths.Identity != "" {
		s.IdentityPath = fc.Paths.Identity
	}
	if fc.Edit.Editor != "" {
		s.Editor = fc.Edit.Editor
	}
}

func applyEnv(s *Settings) {
	if v := os.Getenv("SECRETS_DIR"); v != "" {
		s.StoreDir = v
		s.StorePath = ""
	}
	if v := os.Getenv("SECRETS_STORE"); v != "" {
		s.StorePath = v
	}
	if v := os.Getenv("SECRETS_IDENTITY"); v != "" {
		s.IdentityPath = v
	}
	if v := os.Getenv("SECRETS_EDITOR"); v != "" {
		s.Editor = v
	} else if s.Editor == "vi" {
		if v := os.Getenv("EDITOR"); v != "" {
			s.Editor = v
		}
	}
}

// derivePaths fills in the paths that hang off StoreDir unless they were
// overridden individually.
func (s *Settings) derivePaths() {
	if s.StorePath == "" {
		s.StorePath = filepath.Join(s.StoreDir, StoreFileName)
	}
	s.ManifestPath = filepath.Join(s.StoreDir, ManifestFileName)
	s.TemplatePath = filepath.Join(s.StoreDir, TemplateFileName)
	s.AuditPath = filepath.Join(s.StoreDir, AuditFileName)
}

// EditorArgv splits the configured editor into command and arguments.
// Editors configured with flags ("code --wait") are supported.
func (s Settings) EditorArgv() []string {
	return strings.Fields(s.Editor)
}
