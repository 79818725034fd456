package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

func validConfig() *Config {
	return &Config{
		AI:      AIConfig{Provider: AIGemini, APIKey: "key"},
		GitHub:  GitHubConfig{ClientID: "id", ClientSecret: "secret"},
		Session: SessionConfig{SigningKey: "a-long-random-signing-key", TTL: time.Hour},
		CLI:     CLIConfig{Token: "ghp_x", Owner: "acme", Repo: "widgets", Hostname: "github.com"},
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults when the default file is missing", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, ":8000", cfg.Server.Addr)
		assert.Equal(t, 30*time.Second, cfg.Server.OutboundTimeout)
		assert.Equal(t, AIGemini, cfg.AI.Provider)
		assert.Equal(t, "github.com", cfg.GitHub.Host)
		assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadBytes)
		assert.Empty(t, cfg.Session.SigningKey)
		assert.Equal(t, LangEN, cfg.Language)
	})

	t.Run("should fail when an explicit file is missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))

		assert.ErrorIs(t, err, domainErrors.ErrConfigMissing)
	})

	t.Run("should read a TOML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
language = "es"

[server]
addr = ":9090"
timeout = "5s"

[github]
host = "git.example.com"
client_id = "abc"

[session]
ttl = "2h"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, 5*time.Second, cfg.Server.OutboundTimeout)
		assert.Equal(t, "git.example.com", cfg.GitHub.Host)
		assert.Equal(t, "abc", cfg.GitHub.ClientID)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
		assert.Equal(t, LangES, cfg.Language)
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("should let environment override the file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("ISSUEMATE_SESSION_SIGNING_KEY", "from-env-key")
		t.Setenv("ISSUEMATE_AI_PROVIDER", "anthropic")

		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, "from-env-key", cfg.Session.SigningKey)
		assert.Equal(t, AIAnthropic, cfg.AI.Provider)
	})

	t.Run("should fall back to English for unknown languages", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("ISSUEMATE_LANGUAGE", "fr")

		cfg, err := LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, LangEN, cfg.Language)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"empty signing key", func(c *Config) { c.Session.SigningKey = "" }, domainErrors.ErrSigningKeyMissing},
		{"placeholder signing key", func(c *Config) { c.Session.SigningKey = "ChangeMe" }, domainErrors.ErrSigningKeyMissing},
		{"missing client id", func(c *Config) { c.GitHub.ClientID = "" }, domainErrors.ErrConfigMissing},
		{"missing client secret", func(c *Config) { c.GitHub.ClientSecret = "" }, domainErrors.ErrConfigMissing},
		{"missing AI key", func(c *Config) { c.AI.APIKey = "" }, domainErrors.ErrBackendNotConfigured},
		{"unsupported provider", func(c *Config) { c.AI.Provider = "openai" }, domainErrors.ErrBackendNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateCLI(t *testing.T) {
	t.Run("accepts real values", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateCLI())
	})

	t.Run("refuses placeholders", func(t *testing.T) {
		for _, mutate := range []func(c *Config){
			func(c *Config) { c.CLI.Token = PlaceholderToken },
			func(c *Config) { c.CLI.Owner = PlaceholderOwner },
			func(c *Config) { c.CLI.Repo = PlaceholderRepo },
		} {
			cfg := validConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.ValidateCLI(), domainErrors.ErrPlaceholderConfig)
		}
	})

	t.Run("refuses empty values", func(t *testing.T) {
		cfg := validConfig()
		cfg.CLI.Token = ""
		assert.ErrorIs(t, cfg.ValidateCLI(), domainErrors.ErrConfigMissing)
	})
}

func TestValidateCLIToken(t *testing.T) {
	cfg := validConfig()
	cfg.CLI.Owner = ""
	assert.NoError(t, cfg.ValidateCLIToken())

	cfg.CLI.Token = PlaceholderToken
	assert.ErrorIs(t, cfg.ValidateCLIToken(), domainErrors.ErrPlaceholderConfig)

	cfg.CLI.Token = ""
	assert.ErrorIs(t, cfg.ValidateCLIToken(), domainErrors.ErrConfigMissing)
}

func TestCLIRepositoryURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://github.com/acme/widgets", cfg.CLIRepositoryURL())

	cfg.CLI.Hostname = ""
	assert.Equal(t, "https://github.com/acme/widgets", cfg.CLIRepositoryURL())

	cfg.CLI.Hostname = "git.example.com"
	assert.Equal(t, "https://git.example.com/acme/widgets", cfg.CLIRepositoryURL())
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteTemplate(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderToken, cfg.CLI.Token)
	assert.ErrorIs(t, cfg.ValidateCLI(), domainErrors.ErrPlaceholderConfig)

	assert.Error(t, WriteTemplate(path), "should not overwrite an existing file")
}

func TestModelsForAI(t *testing.T) {
	assert.Equal(t, ModelGeminiV25Flash, DefaultModelForAI(AIGemini))
	assert.Equal(t, ModelClaudeSonnet45, DefaultModelForAI(AIAnthropic))
	assert.Empty(t, DefaultModelForAI("openai"))
	assert.True(t, IsSupportedAI(AIAnthropic))
	assert.False(t, IsSupportedAI("openai"))
}

func TestAIConfig_ResolvedModel(t *testing.T) {
	t.Run("provider default when unset", func(t *testing.T) {
		c := AIConfig{Provider: AIAnthropic}
		assert.Equal(t, string(ModelClaudeSonnet45), c.ResolvedModel())
		assert.True(t, c.IsKnownModel())
	})

	t.Run("configured model wins", func(t *testing.T) {
		c := AIConfig{Provider: AIGemini, Model: "gemini-3-pro"}
		assert.Equal(t, "gemini-3-pro", c.ResolvedModel())
		assert.False(t, c.IsKnownModel())
	})

	t.Run("models list is a copy", func(t *testing.T) {
		models := ModelsForAI(AIGemini)
		models[0] = "changed"
		assert.Equal(t, ModelGeminiV25Flash, DefaultModelForAI(AIGemini))
	})
}
