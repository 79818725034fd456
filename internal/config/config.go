package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

type (
	Config struct {
		Server    ServerConfig    `mapstructure:"server"`
		AI        AIConfig        `mapstructure:"ai"`
		GitHub    GitHubConfig    `mapstructure:"github"`
		Session   SessionConfig   `mapstructure:"session"`
		Reference ReferenceConfig `mapstructure:"reference"`
		Storage   StorageConfig   `mapstructure:"storage"`
		CLI       CLIConfig       `mapstructure:"cli"`
		Language  string          `mapstructure:"language"`
		LogLevel  string          `mapstructure:"log_level"`

		PathFile string `mapstructure:"-"`
	}

	ServerConfig struct {
		Addr           string   `mapstructure:"addr"`
		FrontendURL    string   `mapstructure:"frontend_url"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		CookieSecure   bool     `mapstructure:"cookie_secure"`
		// OutboundTimeout bounds every call to the AI backend, the host and the blob store.
		OutboundTimeout time.Duration `mapstructure:"timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	AIConfig struct {
		Provider    AI      `mapstructure:"provider"`
		Model       string  `mapstructure:"model"`
		APIKey      string  `mapstructure:"api_key"`
		Temperature float32 `mapstructure:"temperature"`
	}

	GitHubConfig struct {
		Host                 string   `mapstructure:"host"`
		ClientID             string   `mapstructure:"client_id"`
		ClientSecret         string   `mapstructure:"client_secret"`
		RedirectURL          string   `mapstructure:"redirect_url"`
		ExtensionRedirectURL string   `mapstructure:"extension_redirect_url"`
		Scopes               []string `mapstructure:"scopes"`
	}

	SessionConfig struct {
		SigningKey string        `mapstructure:"signing_key"`
		TTL        time.Duration `mapstructure:"ttl"`
	}

	ReferenceConfig struct {
		RepositoriesFile string `mapstructure:"repositories_file"`
		AssigneesFile    string `mapstructure:"assignees_file"`
	}

	StorageConfig struct {
		Bucket          string `mapstructure:"bucket"`
		CredentialsFile string `mapstructure:"credentials_file"`
		MaxUploadBytes  int64  `mapstructure:"max_upload_bytes"`
	}

	CLIConfig struct {
		Token    string `mapstructure:"token"`
		Owner    string `mapstructure:"owner"`
		Repo     string `mapstructure:"repo"`
		Hostname string `mapstructure:"hostname"`
	}
)

const (
	EnvPrefix = "ISSUEMATE"

	defaultAddr            = ":8000"
	defaultTimeout         = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSessionTTL      = 24 * time.Hour
	defaultMaxUploadBytes  = 10 * 1024 * 1024
	defaultHost            = "github.com"
)

// Placeholder values shipped in the generated config template.
const (
	PlaceholderToken = "YOUR_PERSONAL_ACCESS_TOKEN"
	PlaceholderOwner = "YOUR_REPOSITORY_OWNER"
	PlaceholderRepo  = "YOUR_REPOSITORY_NAME"
)

var signingKeyPlaceholders = []string{
	"changeme",
	"change-me",
	"secret",
	"your-secret-key",
	"your_secret_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.timeout", defaultTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)

	v.SetDefault("ai.provider", string(AIGemini))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.temperature", 0.3)

	v.SetDefault("github.host", defaultHost)
	v.SetDefault("github.client_id", "")
	v.SetDefault("github.client_secret", "")
	v.SetDefault("github.redirect_url", "http://localhost:8000/auth/callback")
	v.SetDefault("github.extension_redirect_url", "")
	v.SetDefault("github.scopes", []string{"repo", "read:user"})

	// No default signing key: it must be configured explicitly.
	v.SetDefault("session.signing_key", "")
	v.SetDefault("session.ttl", defaultSessionTTL)

	v.SetDefault("reference.repositories_file", "")
	v.SetDefault("reference.assignees_file", "")

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.credentials_file", "")
	v.SetDefault("storage.max_upload_bytes", defaultMaxUploadBytes)

	v.SetDefault("cli.token", "")
	v.SetDefault("cli.owner", "")
	v.SetDefault("cli.repo", "")
	v.SetDefault("cli.hostname", defaultHost)

	v.SetDefault("language", LangEN)
	v.SetDefault("log_level", "info")
}

// DefaultPath returns ~/.issuemate/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, ".issuemate", "config.toml"), nil
}

// LoadConfig reads the config file (optional when path is empty) and applies
// ISSUEMATE_* environment overrides, e.g. ISSUEMATE_SESSION_SIGNING_KEY.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return nil, domainErrors.ErrConfigMissing.
					WithError(err).
					WithContext("path", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}
	cfg.PathFile = path
	cfg.Language = NormalizeLanguage(cfg.Language)

	return &cfg, nil
}

// Validate checks what the HTTP server needs before it starts.
func (c *Config) Validate() error {
	if IsSigningKeyPlaceholder(c.Session.SigningKey) {
		return domainErrors.ErrSigningKeyMissing
	}
	if c.Session.TTL <= 0 {
		return domainErrors.ErrConfigMissing.WithContext("field", "session.ttl")
	}
	if c.GitHub.ClientID == "" {
		return domainErrors.ErrConfigMissing.WithContext("field", "github.client_id")
	}
	if c.GitHub.ClientSecret == "" {
		return domainErrors.ErrConfigMissing.WithContext("field", "github.client_secret")
	}
	if err := c.ValidateAI(); err != nil {
		return err
	}
	return nil
}

// ValidateAI checks the draft backend settings.
func (c *Config) ValidateAI() error {
	if !IsSupportedAI(c.AI.Provider) {
		return domainErrors.ErrBackendNotConfigured.
			WithContext("provider", string(c.AI.Provider))
	}
	if c.AI.APIKey == "" {
		return domainErrors.ErrBackendNotConfigured.
			WithContext("field", "ai.api_key")
	}
	return nil
}

// ValidateCLI refuses to submit with the template placeholders still in place.
func (c *Config) ValidateCLI() error {
	fields := map[string]struct{ value, placeholder string }{
		"cli.token": {c.CLI.Token, PlaceholderToken},
		"cli.owner": {c.CLI.Owner, PlaceholderOwner},
		"cli.repo":  {c.CLI.Repo, PlaceholderRepo},
	}
	for _, name := range []string{"cli.token", "cli.owner", "cli.repo"} {
		f := fields[name]
		if f.value == "" {
			return domainErrors.ErrConfigMissing.WithContext("field", name)
		}
		if f.value == f.placeholder {
			return domainErrors.ErrPlaceholderConfig.WithContext("field", name)
		}
	}
	return nil
}

// ValidateCLIToken checks only the token, for commands that take the target
// repository from the draft.
func (c *Config) ValidateCLIToken() error {
	switch c.CLI.Token {
	case "":
		return domainErrors.ErrConfigMissing.WithContext("field", "cli.token")
	case PlaceholderToken:
		return domainErrors.ErrPlaceholderConfig.WithContext("field", "cli.token")
	}
	return nil
}

// CLIRepositoryURL builds the repository reference used by the CLI surface.
func (c *Config) CLIRepositoryURL() string {
	host := c.CLI.Hostname
	if host == "" {
		host = defaultHost
	}
	return fmt.Sprintf("https://%s/%s/%s", host, c.CLI.Owner, c.CLI.Repo)
}

// IsSigningKeyPlaceholder reports whether key is empty or one of the sample
// values people copy from documentation.
func IsSigningKeyPlaceholder(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}
	for _, p := range signingKeyPlaceholders {
		if strings.EqualFold(key, p) {
			return true
		}
	}
	return false
}

// WriteTemplate writes a starter config file with placeholder CLI values.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.Set("cli.token", PlaceholderToken)
	v.Set("cli.owner", PlaceholderOwner)
	v.Set("cli.repo", PlaceholderRepo)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	return os.Chmod(path, 0600)
}
