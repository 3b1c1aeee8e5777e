// Package config loads the process configuration once at start-up from
// defaults, an optional YAML file, a .env file, environment variables and
// command-line flags (in increasing order of precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Store backends.
const (
	BackendSupabase  = "supabase"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Chat modes. ChatModeIdeas wraps every chat question in the hackathon
// ideas prompt; ChatModeDirect sends the question as-is.
const (
	ChatModeIdeas  = "ideas"
	ChatModeDirect = "direct"
)

// DefaultConfigFile is read when present and no --config is given.
const DefaultConfigFile = "cipherhack.yaml"

// envPrefix is the prefix for non-secret environment overrides,
// e.g. CIPHERHACK_STORE_BACKEND=memory.
const envPrefix = "CIPHERHACK_"

// ErrMissingSecrets is returned by Load when a required secret is absent.
var ErrMissingSecrets = errors.New("missing required secrets")

// secretEnv maps the secret environment names to their config keys.
var secretEnv = map[string]string{
	"SUPABASE_URL":   "supabase_url",
	"SUPABASE_KEY":   "supabase_key",
	"GEMINI_API_KEY": "gemini_api_key",
	"SERVER_ADDRESS": "address",
}

// Options holds the configuration values for the application.
type Options struct {
	// Address is the server's listening address (ip:port).
	Address string `koanf:"address"`
	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `koanf:"tls_cert"`
	TLSKey  string `koanf:"tls_key"`
	// SessionSecret signs the flash-message cookie. Empty means a random
	// key per process.
	SessionSecret string `koanf:"session_secret"`
	LogLevel      string `koanf:"log_level"`

	SupabaseURL  string `koanf:"supabase_url"`
	SupabaseKey  string `koanf:"supabase_key"`
	GeminiAPIKey string `koanf:"gemini_api_key"`

	GeminiModel   string        `koanf:"gemini_model"`
	GeminiBaseURL string        `koanf:"gemini_base_url"`
	GeminiTimeout time.Duration `koanf:"gemini_timeout"`

	StoreBackend string `koanf:"store_backend"`
	// StoreDSN is the PostgreSQL connection string (postgres backend).
	StoreDSN string `koanf:"store_dsn"`
	// StoreProject is the Google Cloud project (firestore backend).
	StoreProject string `koanf:"store_project"`

	PersistTodoToggle bool   `koanf:"persist_todo_toggle"`
	ChatMode          string `koanf:"chat_mode"`

	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"address":         "localhost:8080",
		"log_level":       "info",
		"gemini_model":    "gemini-1.5-flash",
		"gemini_base_url": "https://generativelanguage.googleapis.com/v1beta",
		"gemini_timeout":  "0s",
		"store_backend":   BackendSupabase,
		"chat_mode":       ChatModeIdeas,
	}
}

// NewFlagSet returns the server's command-line flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("address", "a", "localhost:8080", "run on ip:port server")
	fs.StringP("config", "c", "", "path to YAML config file")
	fs.String("env-file", ".env", "path to .env file with secrets")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("tls-cert", "", "TLS certificate file")
	fs.String("tls-key", "", "TLS key file")
	fs.String("store-backend", BackendSupabase, "table store: supabase, postgres, firestore or memory")
	fs.StringP("dsn", "d", "", "PostgreSQL DSN (postgres backend)")
	fs.String("project", "", "Google Cloud project (firestore backend)")
	fs.String("gemini-model", "gemini-1.5-flash", "generation model name")
	fs.Duration("gemini-timeout", 0, "timeout for generation calls (0 = none)")
	fs.String("chat-mode", ChatModeIdeas, "chat prompt mode: ideas or direct")
	fs.Bool("persist-todo-toggle", false, "write todo checkbox changes back to the store")
	return fs
}

// flagKeys maps flag names whose config key differs from the snake_case
// flag name. An empty key means the flag is not a config value.
var flagKeys = map[string]string{
	"config":   "",
	"env-file": "",
	"dsn":      "store_dsn",
	"project":  "store_project",
}

// Load parses args with NewFlagSet and loads the configuration.
func Load(args []string) (*Options, error) {
	fs := NewFlagSet("cipherhack-server")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return LoadFromFlags(fs)
}

// LoadFromFlags loads the configuration using already parsed flags.
func LoadFromFlags(fs *pflag.FlagSet) (*Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// .env only fills variables that are not already set.
	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfgFile := findConfigFile(fs)
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return secretEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if key == "" {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	opts.ConfigFile = cfgFile

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// findConfigFile resolves the YAML file: --config, then $CONFIG, then
// DefaultConfigFile if it exists.
func findConfigFile(fs *pflag.FlagSet) string {
	if path, _ := fs.GetString("config"); path != "" {
		return path
	}
	if path := os.Getenv("CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Validate reports missing secrets and inconsistent options.
func (o *Options) Validate() error {
	var missing []string
	switch o.StoreBackend {
	case BackendSupabase:
		if o.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if o.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
	case BackendPostgres, BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("config: unknown store backend %q", o.StoreBackend)
	}
	if o.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecrets, strings.Join(missing, ", "))
	}

	if o.StoreBackend == BackendPostgres && o.StoreDSN == "" {
		return errors.New("config: postgres backend requires store_dsn")
	}
	if o.StoreBackend == BackendFirestore && o.StoreProject == "" {
		return errors.New("config: firestore backend requires store_project")
	}
	if o.ChatMode != ChatModeIdeas && o.ChatMode != ChatModeDirect {
		return fmt.Errorf("config: chat_mode must be %q or %q, got %q", ChatModeIdeas, ChatModeDirect, o.ChatMode)
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("config: tls_cert and tls_key must be set together")
	}
	return nil
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}
