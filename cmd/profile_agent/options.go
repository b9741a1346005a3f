package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/llm"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/suggest"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	keywords    []string
	targetRoles []string
	industry    string
	careerLevel string
	vocabulary  string
	store       string
	stateDir    string
	sqlitePath  string
	databaseURL string
	userID      string
	apiKey      string
	verbose     bool

	// clock is replaced in tests.
	clock gamification.Clock
}

func (o *rootOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringSliceVarP(&o.keywords, "keywords", "k", nil, "Relevance-ordered job keywords")
	flags.StringSliceVar(&o.targetRoles, "target-roles", nil, "Role titles the profile targets")
	flags.StringVar(&o.industry, "industry", "", "Target industry")
	flags.StringVar(&o.careerLevel, "career-level", "", "Target career level: entry, mid, senior or executive")
	flags.StringVar(&o.vocabulary, "vocabulary", "", "Path to a YAML vocabulary override")
	flags.StringVar(&o.store, "store", "", "State backend: file, sqlite, postgres or memory")
	flags.StringVar(&o.stateDir, "state-dir", "", "Directory for the file store")
	flags.StringVar(&o.sqlitePath, "sqlite-path", "", "Database file for the sqlite store")
	flags.StringVar(&o.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	flags.StringVarP(&o.userID, "user-id", "u", "", "User ID for progress commands (defaults to the local user)")
	flags.StringVar(&o.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig merges the config file, explicitly set flags and defaults, in that priority order.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if o.verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", o.configPath)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("keywords") {
		cfg.Keywords = o.keywords
	}
	if flags.Changed("target-roles") {
		cfg.TargetRoles = o.targetRoles
	}
	if flags.Changed("industry") {
		cfg.Industry = o.industry
	}
	if flags.Changed("career-level") {
		cfg.CareerLevel = o.careerLevel
	}
	if flags.Changed("vocabulary") {
		cfg.Vocabulary = o.vocabulary
	}
	if flags.Changed("store") {
		cfg.Store = o.store
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = o.stateDir
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = o.sqlitePath
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = o.databaseURL
	}
	if flags.Changed("user-id") {
		cfg.UserID = o.userID
	}
	if flags.Changed("api-key") {
		cfg.APIKey = o.apiKey
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (o *rootOptions) now() gamification.Clock {
	if o.clock == nil {
		return gamification.SystemClock{}
	}
	return o.clock
}

// jobContext builds the scoring context with AsOfYear from the clock.
func (o *rootOptions) jobContext(cfg config.Config) types.JobContext {
	return cfg.JobContext(o.now().Now().Year())
}

// newScorer returns a scorer using the configured vocabulary, or the built-in one.
func newScorer(cfg config.Config) (*scoring.Scorer, error) {
	if cfg.Vocabulary == "" {
		return scoring.Default(), nil
	}
	vocab, err := scoring.LoadVocabulary(cfg.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return scoring.New(vocab), nil
}

// openGateway opens the configured state backend and its score history.
// PostgreSQL keeps history in the database; the file and memory stores keep it in memory.
func openGateway(ctx context.Context, cfg config.Config) (store.Backend, store.History, error) {
	if cfg.Store == config.StorePostgres {
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required for the postgres store")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return db.Backend{DB: database}, database, nil
	}

	backend, err := store.Open(ctx, &cfg)
	if err != nil {
		return nil, nil, err
	}
	return backend, store.HistoryFor(backend), nil
}

// newSuggester returns a suggester backed by Gemini when an API key is configured.
// The returned cleanup func must be called when done.
func newSuggester(ctx context.Context, cfg config.Config) (suggest.Suggester, func(), error) {
	if cfg.APIKey == "" {
		if cfg.Verbose {
			log.Printf("No Gemini API key configured; using built-in suggestions")
		}
		fallback := suggest.NewFallbackSuggester(nil)
		fallback.Verbose = cfg.Verbose
		return fallback, func() {}, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	remote := suggest.NewRemoteSuggester(client, cfg.SuggestTimeout(), suggest.DefaultBreakerSettings())
	fallback := suggest.NewFallbackSuggester(remote)
	fallback.Verbose = cfg.Verbose

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Printf("Warning: failed to close LLM client: %v", err)
		}
	}
	return fallback, cleanup, nil
}

// userID parses the configured user, defaulting to the single local user.
func userID(cfg config.Config) (uuid.UUID, error) {
	if cfg.UserID == "" {
		return store.LocalUser, nil
	}
	id, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id format: %w", err)
	}
	return id, nil
}

// readProfile validates a profile file against the profile schema and decodes it.
func readProfile(path string) (*types.Profile, error) {
	if path == "" {
		return nil, fmt.Errorf("profile path is required")
	}
	if err := schemas.ValidateFile(schemas.KindProfile, path); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &profile, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
