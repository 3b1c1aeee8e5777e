package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the secret and config
// variables cleared. Cleared variables are restored by t.Setenv.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, name := range []string{"SUPABASE_URL", "SUPABASE_KEY", "GEMINI_API_KEY", "SERVER_ADDRESS", "CONFIG",
		"CIPHERHACK_STORE_BACKEND", "CIPHERHACK_CHAT_MODE", "CIPHERHACK_ADDRESS", "CIPHERHACK_GEMINI_TIMEOUT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	setSecrets(t)

	opts, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, BackendSupabase, opts.StoreBackend)
	assert.Equal(t, ChatModeIdeas, opts.ChatMode)
	assert.Equal(t, "gemini-1.5-flash", opts.GeminiModel)
	assert.Equal(t, time.Duration(0), opts.GeminiTimeout)
	assert.False(t, opts.PersistTodoToggle)
	assert.False(t, opts.TLSEnabled())
	assert.Equal(t, "https://example.supabase.co", opts.SupabaseURL)
	assert.Equal(t, "anon-key", opts.SupabaseKey)
	assert.Equal(t, "gemini-key", opts.GeminiAPIKey)
}

func TestLoad_MissingSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")

	_, err := Load(nil)
	require.ErrorIs(t, err, ErrMissingSecrets)
	assert.Contains(t, err.Error(), "SUPABASE_KEY")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.NotContains(t, err.Error(), "SUPABASE_URL")
}

func TestLoad_MemoryBackendNeedsOnlyGeminiKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	opts, err := Load([]string{"--store-backend", "memory"})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, opts.StoreBackend)

	isolate(t)
	_, err = Load([]string{"--store-backend", "memory"})
	require.ErrorIs(t, err, ErrMissingSecrets)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	setSecrets(t)

	cfg := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("address: file:1\nchat_mode: direct\nlog_level: debug\n"), 0o600))

	t.Setenv("CIPHERHACK_ADDRESS", "env:2")
	t.Setenv("CIPHERHACK_GEMINI_TIMEOUT", "30s")

	opts, err := Load([]string{"--config", cfg, "--log-level", "warn"})
	require.NoError(t, err)

	assert.Equal(t, cfg, opts.ConfigFile)
	assert.Equal(t, "env:2", opts.Address, "env overrides file")
	assert.Equal(t, ChatModeDirect, opts.ChatMode, "file overrides defaults")
	assert.Equal(t, "warn", opts.LogLevel, "flag overrides file")
	assert.Equal(t, 30*time.Second, opts.GeminiTimeout)

	opts, err = Load([]string{"--config", cfg, "-a", "flag:3"})
	require.NoError(t, err)
	assert.Equal(t, "flag:3", opts.Address, "flag overrides env")
}

func TestLoad_ServerAddressEnv(t *testing.T) {
	isolate(t)
	setSecrets(t)
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:9000")

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", opts.Address)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)

	envFile := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SUPABASE_URL=https://dotenv.supabase.co\nSUPABASE_KEY=dotenv-key\nGEMINI_API_KEY=dotenv-gemini\n"), 0o600))

	opts, err := Load([]string{"--env-file", envFile})
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.supabase.co", opts.SupabaseURL)
	assert.Equal(t, "dotenv-key", opts.SupabaseKey)
	assert.Equal(t, "dotenv-gemini", opts.GeminiAPIKey)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	isolate(t)
	setSecrets(t)

	_, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
}

func TestLoad_DefaultConfigFileInWorkingDir(t *testing.T) {
	isolate(t)
	setSecrets(t)
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("persist_todo_toggle: true\n"), 0o600))

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.True(t, opts.PersistTodoToggle)
	assert.Equal(t, DefaultConfigFile, opts.ConfigFile)
}

func TestValidate(t *testing.T) {
	base := func() Options {
		return Options{
			StoreBackend: BackendMemory,
			GeminiAPIKey: "k",
			ChatMode:     ChatModeIdeas,
		}
	}

	cases := []struct {
		name    string
		mutate  func(o *Options)
		wantErr string
	}{
		{"valid", func(o *Options) {}, ""},
		{"unknown backend", func(o *Options) { o.StoreBackend = "mongo" }, "unknown store backend"},
		{"postgres without dsn", func(o *Options) { o.StoreBackend = BackendPostgres }, "store_dsn"},
		{"firestore without project", func(o *Options) { o.StoreBackend = BackendFirestore }, "store_project"},
		{"bad chat mode", func(o *Options) { o.ChatMode = "free" }, "chat_mode"},
		{"half tls", func(o *Options) { o.TLSCert = "server.crt" }, "tls_cert and tls_key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := base()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
