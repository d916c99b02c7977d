// Package config handles configuration for intakechat.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/diogo/intakechat/internal/models"
)

// EnvPrefix is the prefix for environment overrides (INTAKECHAT_POLL_INTERVAL, ...)
const EnvPrefix = "INTAKECHAT"

// APIKeyEnv is the conventional credential variable, read in addition to INTAKECHAT_API_KEY
const APIKeyEnv = "OPENAI_API_KEY"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `mapstructure:"style"`              // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `mapstructure:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `mapstructure:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `mapstructure:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `mapstructure:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// APIKey authenticates against the assistant service. Usually supplied
	// through OPENAI_API_KEY rather than the config file.
	APIKey      string `mapstructure:"api_key"`
	AssistantID string `mapstructure:"assistant_id"`
	BaseURL     string `mapstructure:"base_url"`
	// PollInterval is the wait between run status checks.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// RequestTimeout bounds each individual HTTP request, not the poll loop.
	RequestTimeout  time.Duration  `mapstructure:"request_timeout"`
	LogFile         string         `mapstructure:"log_file"`
	LogLevel        string         `mapstructure:"log_level"`
	CopyToClipboard bool           `mapstructure:"copy_to_clipboard"`
	TUITheme        string         `mapstructure:"tui_theme"`
	Markdown        MarkdownConfig `mapstructure:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		AssistantID:     models.DefaultAssistantID,
		BaseURL:         models.DefaultBaseURL,
		PollInterval:    models.DefaultPollInterval,
		RequestTimeout:  60 * time.Second,
		LogFile:         filepath.Join(homeDir, ".intakechat", "intakechat.log"),
		LogLevel:        "info",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".intakechat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config file may hold an API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// newViper builds a viper instance seeded with defaults and env bindings
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	bindEnv(v)
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", APIKeyEnv)
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("assistant_id", cfg.AssistantID)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("poll_interval", cfg.PollInterval)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("copy_to_clipboard", cfg.CopyToClipboard)
	v.SetDefault("tui_theme", cfg.TUITheme)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", cfg.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", cfg.Markdown.InlineTableLinks)
}

// LoadConfig loads the configuration from disk and the environment.
// A missing config file is not an error.
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from the given JSON file and the environment
func LoadConfigFrom(configPath string) (Config, error) {
	return load(configPath, true)
}

// LoadFileConfigFrom loads the given JSON file over the defaults without
// environment overrides. Use it when the result is written back to disk.
func LoadFileConfigFrom(configPath string) (Config, error) {
	return load(configPath, false)
}

func load(configPath string, withEnv bool) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	if withEnv {
		bindEnv(v)
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			cfg, _ := decode(newViper())
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = models.DefaultPollInterval
	}
	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(cfg, filepath.Join(configDir, "config.json"))
}

// SaveConfigTo writes the configuration to the given JSON file
func SaveConfigTo(cfg Config, configPath string) error {
	v := viper.New()
	v.SetConfigType("json")

	if cfg.APIKey != "" {
		v.Set("api_key", cfg.APIKey)
	}
	v.Set("assistant_id", cfg.AssistantID)
	v.Set("base_url", cfg.BaseURL)
	v.Set("poll_interval", cfg.PollInterval.String())
	v.Set("request_timeout", cfg.RequestTimeout.String())
	v.Set("log_file", cfg.LogFile)
	v.Set("log_level", cfg.LogLevel)
	v.Set("copy_to_clipboard", cfg.CopyToClipboard)
	v.Set("tui_theme", cfg.TUITheme)
	v.Set("markdown.style", cfg.Markdown.Style)
	v.Set("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.Set("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
	v.Set("markdown.table_wrap", cfg.Markdown.TableWrap)
	v.Set("markdown.inline_table_links", cfg.Markdown.InlineTableLinks)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// viper writes 0o644; tighten since the file may hold a key
	if err := os.Chmod(configPath, 0o600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	return nil
}

// Set updates one key (dotted for nested sections) from its string form
func (c *Config) Set(key, value string) error {
	v := viper.New()
	setDefaults(v, *c)
	if _, ok := settableKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	if _, ok := durationKeys[key]; ok {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid value for %s: must be positive, got %s", key, value)
		}
	}
	v.Set(key, value)

	updated, err := decode(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*c = updated
	return nil
}

var durationKeys = map[string]struct{}{
	"poll_interval":   {},
	"request_timeout": {},
}

var settableKeys = map[string]struct{}{
	"api_key":                     {},
	"assistant_id":                {},
	"base_url":                    {},
	"poll_interval":               {},
	"request_timeout":             {},
	"log_file":                    {},
	"log_level":                   {},
	"copy_to_clipboard":           {},
	"tui_theme":                   {},
	"markdown.style":              {},
	"markdown.enable_emoji":       {},
	"markdown.preserve_newlines":  {},
	"markdown.table_wrap":         {},
	"markdown.inline_table_links": {},
}

// SettableKeys returns the keys accepted by Set, sorted
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MaskedAPIKey returns the key with everything but the last four characters hidden
func (c Config) MaskedAPIKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + c.APIKey[len(c.APIKey)-4:]
}
