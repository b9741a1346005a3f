// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// Persistence backends selectable with the "store" field.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Defaults applied by MergeWithDefaults when a field is unset.
const (
	DefaultStore                 = StoreFile
	DefaultStateDir              = ".profile_agent/state"
	DefaultSQLitePath            = ".profile_agent/state.db"
	DefaultSuggestTimeoutSeconds = 20
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Target role
	Keywords    []string `json:"keywords,omitempty"`     // Relevance-ordered job keywords
	TargetRoles []string `json:"target_roles,omitempty"` // Role titles the profile targets
	Industry    string   `json:"industry,omitempty"`
	CareerLevel string   `json:"career_level,omitempty"` // entry | mid | senior | executive
	Vocabulary  string   `json:"vocabulary,omitempty"`   // Path to a YAML vocabulary override

	// Persistence
	Store       string `json:"store,omitempty"`        // file | sqlite | postgres | memory
	StateDir    string `json:"state_dir,omitempty"`    // Directory for the file store
	SQLitePath  string `json:"sqlite_path,omitempty"`  // Database file for the sqlite store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	UserID      string `json:"user_id,omitempty"`      // User UUID for CLI progress commands

	// Behavior
	APIKey                string `json:"api_key,omitempty"`                 // Gemini API key for suggestions
	Verbose               bool   `json:"verbose,omitempty"`                 // Print detailed debug information
	SuggestTimeoutSeconds int    `json:"suggest_timeout_seconds,omitempty"` // Per-call suggestion timeout
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Defaults returns the built-in defaults with secrets taken from the environment
// (DATABASE_URL, GEMINI_API_KEY).
func Defaults() Config {
	return Config{
		Store:                 DefaultStore,
		StateDir:              DefaultStateDir,
		SQLitePath:            DefaultSQLitePath,
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		APIKey:                os.Getenv("GEMINI_API_KEY"),
		SuggestTimeoutSeconds: DefaultSuggestTimeoutSeconds,
	}
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here; the command that needs them reports it.
func (c *Config) Validate() error {
	switch types.CareerLevel(c.CareerLevel) {
	case "", types.CareerEntry, types.CareerMid, types.CareerSenior, types.CareerExecutive:
	default:
		return fmt.Errorf("config error: 'career_level' must be one of entry, mid, senior, executive; got %q", c.CareerLevel)
	}

	switch c.Store {
	case "", StoreFile, StoreSQLite, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("config error: 'store' must be one of file, sqlite, postgres, memory; got %q", c.Store)
	}

	if c.SuggestTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'suggest_timeout_seconds' must be non-negative")
	}

	if c.Vocabulary != "" {
		if _, err := os.Stat(c.Vocabulary); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.Vocabulary)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// Slice fields: use default if empty
	if len(result.Keywords) == 0 {
		result.Keywords = defaults.Keywords
	}
	if len(result.TargetRoles) == 0 {
		result.TargetRoles = defaults.TargetRoles
	}

	// String fields: use default if empty
	if result.Industry == "" {
		result.Industry = defaults.Industry
	}
	if result.CareerLevel == "" {
		result.CareerLevel = defaults.CareerLevel
	}
	if result.Vocabulary == "" {
		result.Vocabulary = defaults.Vocabulary
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.StateDir == "" {
		result.StateDir = defaults.StateDir
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.SuggestTimeoutSeconds == 0 {
		if defaults.SuggestTimeoutSeconds > 0 {
			result.SuggestTimeoutSeconds = defaults.SuggestTimeoutSeconds
		} else {
			result.SuggestTimeoutSeconds = DefaultSuggestTimeoutSeconds
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// JobContext builds the scoring context. asOfYear is the reference year for recency factors.
func (c *Config) JobContext(asOfYear int) types.JobContext {
	return types.JobContext{
		Keywords:    c.Keywords,
		TargetRoles: c.TargetRoles,
		Industry:    c.Industry,
		CareerLevel: types.CareerLevel(c.CareerLevel),
		AsOfYear:    asOfYear,
	}
}

// SuggestTimeout returns the per-call suggestion timeout.
func (c *Config) SuggestTimeout() time.Duration {
	if c.SuggestTimeoutSeconds <= 0 {
		return DefaultSuggestTimeoutSeconds * time.Second
	}
	return time.Duration(c.SuggestTimeoutSeconds) * time.Second
}
