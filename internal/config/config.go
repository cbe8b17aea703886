package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mj1618/botlite/internal/telegram"
)

// Output formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Environment variables read by Load. TOKEN and CHAT_ID are accepted as
// short aliases.
const (
	EnvToken      = "TELEGRAM_BOT_TOKEN"
	EnvTokenAlias = "TOKEN"
	EnvChat       = "TELEGRAM_CHAT_ID"
	EnvChatAlias  = "CHAT_ID"
	EnvAPIRoot    = "BOTLITE_API_ROOT"
	EnvAutoOffset = "BOTLITE_AUTO_OFFSET"
)

// Config holds the application configuration.
type Config struct {
	// APIRoot is the Bot API server, without the /bot<token> suffix
	APIRoot string `toml:"api_root"`

	// Token is the bot token. Prefer the environment or the keychain.
	Token string `toml:"token"`

	// ChatID is the default target for send commands
	ChatID string `toml:"chat_id"`

	// AutoOffset is recorded on the client; polling always tracks offsets
	AutoOffset bool `toml:"auto_offset"`

	// RequestTimeout bounds one HTTP round trip, e.g. "35s"
	RequestTimeout string `toml:"request_timeout"`

	// Format is the default output format: text, json or yaml
	Format string `toml:"format"`

	Poll PollConfig `toml:"poll"`

	// TokenSource records where Token came from, for `config show`.
	TokenSource string `toml:"-"`
}

// PollConfig holds getUpdates defaults.
type PollConfig struct {
	Limit   int `toml:"limit"`
	Timeout int `toml:"timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIRoot:        telegram.DefaultAPIRoot,
		AutoOffset:     true,
		RequestTimeout: telegram.DefaultRequestTimeout.String(),
		Format:         FormatText,
		Poll: PollConfig{
			Limit:   telegram.DefaultLimit,
			Timeout: telegram.DefaultTimeout,
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "botlite", "config.toml"), nil
}

// ProjectConfigPath returns the path to the project config file.
func ProjectConfigPath() string {
	return ".botlite.toml"
}

// DotEnvPath returns the path of the optional .env file.
func DotEnvPath() string {
	return ".env"
}

// LoadOptions tweaks Load.
type LoadOptions struct {
	// ConfigPath replaces the project config file when set. It must exist.
	ConfigPath string

	// SkipKeychain disables the keychain token lookup.
	SkipKeychain bool
}

// Load builds the effective configuration.
// Priority (highest to lowest): environment (.env included) > project
// config > global config > defaults. The keychain is consulted last, only
// when no token was found.
func Load(opts LoadOptions) (*Config, error) {
	cfg := DefaultConfig()

	globalPath, err := GlobalConfigPath()
	if err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			if err := loadConfigFile(globalPath, cfg); err != nil {
				return nil, fmt.Errorf("global config %s: %w", globalPath, err)
			}
			cfg.TokenSource = sourceIfSet(cfg, "global config")
		}
	}

	projectPath := ProjectConfigPath()
	explicit := opts.ConfigPath != ""
	if explicit {
		projectPath = opts.ConfigPath
	}
	if _, err := os.Stat(projectPath); err == nil {
		before := cfg.Token
		if err := loadConfigFile(projectPath, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", projectPath, err)
		}
		if cfg.Token != before {
			cfg.TokenSource = "config file"
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", projectPath, err)
	}

	if err := loadDotEnv(DotEnvPath()); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.Token == "" && !opts.SkipKeychain {
		if token, err := GetToken(); err == nil && token != "" {
			cfg.Token = token
			cfg.TokenSource = "keychain"
		}
	}

	return cfg, nil
}

func sourceIfSet(cfg *Config, source string) string {
	if cfg.Token != "" {
		return source
	}
	return cfg.TokenSource
}

// loadConfigFile reads a TOML config file and merges it into the given config.
func loadConfigFile(path string, cfg *Config) error {
	// Pointers detect which fields were actually set in the file
	type rawPollConfig struct {
		Limit   *int `toml:"limit"`
		Timeout *int `toml:"timeout"`
	}
	type rawConfig struct {
		APIRoot        string        `toml:"api_root"`
		Token          string        `toml:"token"`
		ChatID         string        `toml:"chat_id"`
		AutoOffset     *bool         `toml:"auto_offset"`
		RequestTimeout string        `toml:"request_timeout"`
		Format         string        `toml:"format"`
		Poll           rawPollConfig `toml:"poll"`
	}

	var fileCfg rawConfig
	if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
		return err
	}

	if fileCfg.APIRoot != "" {
		cfg.APIRoot = fileCfg.APIRoot
	}
	if fileCfg.Token != "" {
		cfg.Token = fileCfg.Token
	}
	if fileCfg.ChatID != "" {
		cfg.ChatID = fileCfg.ChatID
	}
	if fileCfg.AutoOffset != nil {
		cfg.AutoOffset = *fileCfg.AutoOffset
	}
	if fileCfg.RequestTimeout != "" {
		cfg.RequestTimeout = fileCfg.RequestTimeout
	}
	if fileCfg.Format != "" {
		cfg.Format = strings.ToLower(fileCfg.Format)
	}
	if fileCfg.Poll.Limit != nil {
		cfg.Poll.Limit = *fileCfg.Poll.Limit
	}
	if fileCfg.Poll.Timeout != nil {
		cfg.Poll.Timeout = *fileCfg.Poll.Timeout
	}

	return nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := firstEnv(EnvToken, EnvTokenAlias); v != "" {
		cfg.Token = v
		cfg.TokenSource = "environment"
	}
	if v := firstEnv(EnvChat, EnvChatAlias); v != "" {
		cfg.ChatID = v
	}
	if v := os.Getenv(EnvAPIRoot); v != "" {
		cfg.APIRoot = v
	}
	cfg.AutoOffset = envBoolOrDefault(EnvAutoOffset, cfg.AutoOffset)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}

// ValidFormats returns the accepted output formats.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// RequestTimeoutDuration parses RequestTimeout.
func (c *Config) RequestTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must be positive", c.RequestTimeout)
	}
	return d, nil
}

// Validate checks the settings every API command relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.Token == "" {
		errs = append(errs, fmt.Errorf("bot token required: use --token, set %s, or run `botlite config set-token`", EnvToken))
	}
	if c.Poll.Limit < 0 {
		errs = append(errs, fmt.Errorf("invalid poll.limit %d: must be non-negative", c.Poll.Limit))
	}
	if c.Poll.Timeout < 0 {
		errs = append(errs, fmt.Errorf("invalid poll.timeout %d: must be non-negative", c.Poll.Timeout))
	}
	if !isValidFormat(c.Format) {
		errs = append(errs, fmt.Errorf("invalid format %q (valid options: %s)", c.Format, strings.Join(ValidFormats(), ", ")))
	}

	d, err := c.RequestTimeoutDuration()
	if err != nil {
		errs = append(errs, err)
	} else if time.Duration(c.Poll.Timeout)*time.Second >= d {
		errs = append(errs, fmt.Errorf("poll.timeout %ds must be shorter than request_timeout %s", c.Poll.Timeout, d))
	}

	return errors.Join(errs...)
}

func isValidFormat(f string) bool {
	for _, v := range ValidFormats() {
		if v == f {
			return true
		}
	}
	return false
}

// ClientConfig maps the configuration onto a telegram.ClientConfig.
// Call Validate first.
func (c *Config) ClientConfig() telegram.ClientConfig {
	d, _ := c.RequestTimeoutDuration()
	return telegram.ClientConfig{
		Token:          c.Token,
		APIRoot:        c.APIRoot,
		AutoOffset:     c.AutoOffset,
		RequestTimeout: d,
	}
}

// PollOptions returns getUpdates options from the poll defaults.
func (c *Config) PollOptions() telegram.GetUpdatesOptions {
	return telegram.GetUpdatesOptions{Limit: c.Poll.Limit, Timeout: c.Poll.Timeout}
}

// RedactedToken hides everything but the bot id part of the token.
func (c *Config) RedactedToken() string {
	if c.Token == "" {
		return ""
	}
	if i := strings.Index(c.Token, ":"); i > 0 {
		return c.Token[:i] + ":****"
	}
	return "****"
}

// ToTOML returns the config as a TOML string with the token redacted.
func (c *Config) ToTOML() string {
	var sb strings.Builder
	sb.WriteString("# botlite configuration\n\n")

	sb.WriteString("# Bot API server root (the /bot<token>/ suffix is added automatically)\n")
	sb.WriteString("api_root = " + strconv.Quote(c.APIRoot) + "\n\n")

	sb.WriteString("# Bot token; prefer TELEGRAM_BOT_TOKEN or `botlite config set-token`\n")
	if c.Token != "" {
		sb.WriteString("# token = " + strconv.Quote(c.RedactedToken()))
		if c.TokenSource != "" {
			sb.WriteString("  (from " + c.TokenSource + ")")
		}
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("# token = \"\"\n\n")
	}

	sb.WriteString("# Default chat for send commands (numeric id or @username)\n")
	sb.WriteString("chat_id = " + strconv.Quote(c.ChatID) + "\n\n")

	sb.WriteString("auto_offset = " + strconv.FormatBool(c.AutoOffset) + "\n\n")

	sb.WriteString("# HTTP round-trip limit; must exceed poll.timeout\n")
	sb.WriteString("request_timeout = " + strconv.Quote(c.RequestTimeout) + "\n\n")

	sb.WriteString("# Output format: text, json or yaml\n")
	sb.WriteString("format = " + strconv.Quote(c.Format) + "\n\n")

	sb.WriteString("[poll]\n")
	sb.WriteString("limit = " + strconv.Itoa(c.Poll.Limit) + "\n")
	sb.WriteString("# Long-poll timeout in seconds, 0 for short polling\n")
	sb.WriteString("timeout = " + strconv.Itoa(c.Poll.Timeout) + "\n")

	return sb.String()
}
