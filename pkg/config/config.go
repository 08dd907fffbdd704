package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/certify/config"
	ConfigFileName    = "certify.yml"
)

// ValidLogLevels is the list of accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats is the list of accepted log_format values.
var ValidLogFormats = []string{"text", "json"}

// Config holds all Certify server configuration settings.
type Config struct {
	// BindAddress is the interface the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server listen port
	Port int `yaml:"port" json:"port"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// SessionSecret signs admin session tokens
	SessionSecret string `yaml:"session_secret" json:"session_secret"`

	// SessionTTLMinutes is the admin session lifetime in minutes
	SessionTTLMinutes int `yaml:"session_ttl_minutes" json:"session_ttl_minutes"`

	// VerifyBaseURL is the public base URL embedded in verification links
	VerifyBaseURL string `yaml:"verify_base_url" json:"verify_base_url"`

	// StateDir is where server-side state, such as the last-backup
	// marker, is written
	StateDir string `yaml:"state_dir" json:"state_dir"`

	// PageSize is the number of certificates shown per registry page
	PageSize int `yaml:"page_size" json:"page_size"`

	// LogLevel is the logging verbosity
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat selects text or json log output
	LogFormat string `yaml:"log_format" json:"log_format"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:       "0.0.0.0",
		Port:              8080,
		SessionTTLMinutes: 480,
		VerifyBaseURL:     "http://localhost:8080",
		StateDir:          "/var/lib/certify",
		PageSize:          5,
		LogLevel:          "info",
		LogFormat:         "text",
		sources:           make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("CERTIFY_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "database_url", "session_secret",
		"session_ttl_minutes", "verify_base_url", "state_dir",
		"page_size", "log_level", "log_format",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.SessionSecret != "" {
		c.SessionSecret = file.SessionSecret
		c.sources["session_secret"] = "file"
	}
	if file.SessionTTLMinutes != 0 {
		c.SessionTTLMinutes = file.SessionTTLMinutes
		c.sources["session_ttl_minutes"] = "file"
	}
	if file.VerifyBaseURL != "" {
		c.VerifyBaseURL = file.VerifyBaseURL
		c.sources["verify_base_url"] = "file"
	}
	if file.StateDir != "" {
		c.StateDir = file.StateDir
		c.sources["state_dir"] = "file"
	}
	if file.PageSize != 0 {
		c.PageSize = file.PageSize
		c.sources["page_size"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
		c.sources["log_format"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("CERTIFY_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("CERTIFY_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("CERTIFY_SESSION_SECRET"); val != "" {
		c.SessionSecret = val
		c.sources["session_secret"] = "environment"
	}
	if val := os.Getenv("CERTIFY_SESSION_TTL_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SessionTTLMinutes = i
			c.sources["session_ttl_minutes"] = "environment"
		}
	}
	if val := os.Getenv("CERTIFY_VERIFY_BASE_URL"); val != "" {
		c.VerifyBaseURL = val
		c.sources["verify_base_url"] = "environment"
	}
	if val := os.Getenv("CERTIFY_STATE_DIR"); val != "" {
		c.StateDir = val
		c.sources["state_dir"] = "environment"
	}
	if val := os.Getenv("CERTIFY_PAGE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.PageSize = i
			c.sources["page_size"] = "environment"
		}
	}
	if val := os.Getenv("CERTIFY_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("CERTIFY_LOG_FORMAT"); val != "" {
		c.LogFormat = val
		c.sources["log_format"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ListenAddress returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page_size: %d", c.PageSize)
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("invalid session_ttl_minutes: %d", c.SessionTTLMinutes)
	}
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secrets are redacted.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "database_url", Value: redact(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "session_secret", Value: redact(c.SessionSecret), Source: c.Source("session_secret")},
		{Name: "session_ttl_minutes", Value: strconv.Itoa(c.SessionTTLMinutes), Source: c.Source("session_ttl_minutes")},
		{Name: "verify_base_url", Value: c.VerifyBaseURL, Source: c.Source("verify_base_url")},
		{Name: "state_dir", Value: c.StateDir, Source: c.Source("state_dir")},
		{Name: "page_size", Value: strconv.Itoa(c.PageSize), Source: c.Source("page_size")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "*****"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
