package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/iotauth/config"
	ConfigFileName    = "iotauth.yml"
	DefaultBrokerURL  = "ws://localhost:8083/mqtt"
	DefaultBrokerPort = 8083

	masked = "********"
)

// Sources of a configuration value
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// ValidLogLevels and ValidLogFormats list accepted logging settings
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"json", "text"}
)

// Config holds all server configuration settings
type Config struct {
	// BrokerURL is the URL clients use to reach the MQTT broker
	BrokerURL string `yaml:"broker_url" json:"broker_url"`

	// BrokerHost, BrokerPort and BrokerUseSSL derive BrokerURL when it is not set
	BrokerHost   string `yaml:"broker_host" json:"broker_host"`
	BrokerPort   int    `yaml:"broker_port" json:"broker_port"`
	BrokerUseSSL *bool  `yaml:"broker_use_ssl" json:"broker_use_ssl"`

	// HookToken, when set, must equal the token path segment of hook calls
	HookToken string `yaml:"hook_token" json:"-"`

	// SessionSecret signs session tokens for the device and app endpoints
	SessionSecret string `yaml:"session_secret" json:"-"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is json or text
	LogFormat string `yaml:"log_format" json:"log_format"`

	// AuditEnabled turns audit events on
	AuditEnabled *bool `yaml:"audit_enabled" json:"audit_enabled"`

	// ProbeUsername and ProbePassword are used to check broker reachability
	ProbeUsername string `yaml:"probe_username" json:"probe_username"`
	ProbePassword string `yaml:"probe_password" json:"-"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	useSSL := false
	audit := true
	return &Config{
		BrokerPort:   DefaultBrokerPort,
		BrokerUseSSL: &useSSL,
		LogLevel:     "info",
		LogFormat:    "text",
		AuditEnabled: &audit,
		sources:      make(map[string]string),
	}
}

// Default returns the built-in configuration without reading file or
// environment
func Default() *Config {
	c := newDefault()
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := Default()

	configPath := os.Getenv("IOTAUTH_CONFIG_PATH")
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

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"broker_url", "broker_host", "broker_port", "broker_use_ssl",
		"hook_token", "session_secret", "log_level", "log_format",
		"audit_enabled", "probe_username", "probe_password",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	setString := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = SourceFile
		}
	}
	setString("broker_url", &c.BrokerURL, file.BrokerURL)
	setString("broker_host", &c.BrokerHost, file.BrokerHost)
	setString("hook_token", &c.HookToken, file.HookToken)
	setString("session_secret", &c.SessionSecret, file.SessionSecret)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)
	setString("probe_username", &c.ProbeUsername, file.ProbeUsername)
	setString("probe_password", &c.ProbePassword, file.ProbePassword)

	if file.BrokerPort != 0 {
		c.BrokerPort = file.BrokerPort
		c.sources["broker_port"] = SourceFile
	}
	if file.BrokerUseSSL != nil {
		c.BrokerUseSSL = file.BrokerUseSSL
		c.sources["broker_use_ssl"] = SourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = file.AuditEnabled
		c.sources["audit_enabled"] = SourceFile
	}
}

func (c *Config) applyEnvConfig() error {
	setString := func(name string, dst *string) {
		if val := os.Getenv("IOTAUTH_" + strings.ToUpper(name)); val != "" {
			*dst = val
			c.sources[name] = SourceEnvironment
		}
	}
	setBool := func(name string, dst **bool) {
		if val := os.Getenv("IOTAUTH_" + strings.ToUpper(name)); val != "" {
			b := val == "true" || val == "1" || val == "yes"
			*dst = &b
			c.sources[name] = SourceEnvironment
		}
	}

	setString("broker_url", &c.BrokerURL)
	setString("broker_host", &c.BrokerHost)
	setString("hook_token", &c.HookToken)
	setString("session_secret", &c.SessionSecret)
	setString("log_level", &c.LogLevel)
	setString("log_format", &c.LogFormat)
	setString("probe_username", &c.ProbeUsername)
	setString("probe_password", &c.ProbePassword)
	setBool("broker_use_ssl", &c.BrokerUseSSL)
	setBool("audit_enabled", &c.AuditEnabled)

	if val := os.Getenv("IOTAUTH_BROKER_PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid IOTAUTH_BROKER_PORT %q: %w", val, err)
		}
		c.BrokerPort = i
		c.sources["broker_port"] = SourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// UseSSL reports whether the derived broker URL uses wss
func (c *Config) UseSSL() bool {
	return c.BrokerUseSSL != nil && *c.BrokerUseSSL
}

// IsAuditEnabled reports whether audit events are recorded
func (c *Config) IsAuditEnabled() bool {
	return c.AuditEnabled == nil || *c.AuditEnabled
}

// EffectiveBrokerURL returns broker_url if set, else the URL derived from
// broker_host, broker_port and broker_use_ssl, else DefaultBrokerURL.
func (c *Config) EffectiveBrokerURL() string {
	if c.BrokerURL != "" {
		return c.BrokerURL
	}
	if c.BrokerHost != "" && c.BrokerPort != 0 {
		scheme := "ws"
		if c.UseSSL() {
			scheme = "wss"
		}
		return fmt.Sprintf("%s://%s:%d/mqtt", scheme, c.BrokerHost, c.BrokerPort)
	}
	return DefaultBrokerURL
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	if c.BrokerPort < 0 || c.BrokerPort > 65535 {
		return fmt.Errorf("invalid broker_port: %d", c.BrokerPort)
	}

	u, err := url.Parse(c.EffectiveBrokerURL())
	if err != nil {
		return fmt.Errorf("invalid broker_url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "tcp", "ssl", "tls", "mqtt", "mqtts":
	default:
		return fmt.Errorf("invalid broker_url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid broker_url: missing host")
	}

	if (c.ProbeUsername == "") != (c.ProbePassword == "") {
		return fmt.Errorf("probe_username and probe_password must be set together")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// Secrets are masked.
func (c *Config) Attributes() []Attribute {
	secret := func(v string) string {
		if v == "" {
			return ""
		}
		return masked
	}
	return []Attribute{
		{Name: "broker_url", Value: c.EffectiveBrokerURL(), Source: c.Source("broker_url")},
		{Name: "broker_host", Value: c.BrokerHost, Source: c.Source("broker_host")},
		{Name: "broker_port", Value: strconv.Itoa(c.BrokerPort), Source: c.Source("broker_port")},
		{Name: "broker_use_ssl", Value: strconv.FormatBool(c.UseSSL()), Source: c.Source("broker_use_ssl")},
		{Name: "hook_token", Value: secret(c.HookToken), Source: c.Source("hook_token")},
		{Name: "session_secret", Value: secret(c.SessionSecret), Source: c.Source("session_secret")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.IsAuditEnabled()), Source: c.Source("audit_enabled")},
		{Name: "probe_username", Value: c.ProbeUsername, Source: c.Source("probe_username")},
		{Name: "probe_password", Value: secret(c.ProbePassword), Source: c.Source("probe_password")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
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

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
