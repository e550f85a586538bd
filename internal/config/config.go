// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"

	"github.com/jeranaias/composer-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the main configuration structure for composer.
type Config struct {
	// Version is the config file format version
	Version string `toml:"version" json:"version"`

	Composer ComposerConfig `toml:"composer" json:"composer"`
	Mentions MentionsConfig `toml:"mentions" json:"mentions"`
	Drafts   DraftsConfig   `toml:"drafts" json:"drafts"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Outbox   OutboxConfig   `toml:"outbox" json:"outbox"`
	Bridge   BridgeConfig   `toml:"bridge" json:"bridge"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// ComposerConfig holds the initial composer options.
type ComposerConfig struct {
	// Placeholder shown while the composer is empty
	Placeholder string `toml:"placeholder" json:"placeholder"`

	// Disabled starts the composer disabled
	Disabled bool `toml:"disabled" json:"disabled"`

	// MarkdownDisabled turns off the rendered preview
	MarkdownDisabled bool `toml:"markdown_disabled" json:"markdown_disabled"`

	// DefaultSpace is the draft space opened at startup
	DefaultSpace string `toml:"default_space" json:"default_space"`

	// KeyBuffer bounds pending key notifications
	KeyBuffer int `toml:"key_buffer" json:"key_buffer"`
}

// Mention sources.
const (
	SourceSample = "sample"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// MentionsConfig selects where mention candidates come from.
type MentionsConfig struct {
	// Source is "sample", "file" or "sqlite"
	Source string `toml:"source" json:"source"`

	// SeedFile is a .toml, .json or .yaml entity list, used by "file" and
	// to populate "sqlite"
	SeedFile string `toml:"seed_file" json:"seed_file"`

	// Watch reloads SeedFile when it changes
	Watch bool `toml:"watch" json:"watch"`

	// DebounceMs is the reload debounce in milliseconds
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`

	// CircuitMaxFailures opens the breaker after this many consecutive failures
	CircuitMaxFailures int `toml:"circuit_max_failures" json:"circuit_max_failures"`

	// CircuitTimeoutSecs is how long the breaker stays open
	CircuitTimeoutSecs int `toml:"circuit_timeout_secs" json:"circuit_timeout_secs"`

	// NameWidth is the suggestion row name column width
	NameWidth int `toml:"name_width" json:"name_width"`

	// MaxSuggestions caps the popup height
	MaxSuggestions int `toml:"max_suggestions" json:"max_suggestions"`
}

// Draft backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DraftsConfig selects the draft store.
type DraftsConfig struct {
	// Backend is "memory", "sqlite" or "redis"
	Backend string `toml:"backend" json:"backend"`

	RedisAddr     string `toml:"redis_addr" json:"redis_addr"`
	RedisPassword string `toml:"redis_password" json:"redis_password"`
	RedisDB       int    `toml:"redis_db" json:"redis_db"`

	// TTLHours expires idle Redis drafts; 0 keeps them
	TTLHours int `toml:"ttl_hours" json:"ttl_hours"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	// Path of the database file; empty uses ~/.composer/composer.db
	Path string `toml:"path" json:"path"`
}

// Outbox sinks.
const (
	SinkLog   = "log"
	SinkKafka = "kafka"
)

// OutboxConfig selects where accepted messages are published.
type OutboxConfig struct {
	// Sink is "log" or "kafka"
	Sink string `toml:"sink" json:"sink"`

	Brokers []string `toml:"brokers" json:"brokers"`
	Topic   string   `toml:"topic" json:"topic"`

	// QueueSize bounds messages waiting to be published
	QueueSize int `toml:"queue_size" json:"queue_size"`
}

// BridgeConfig configures the websocket bridge.
type BridgeConfig struct {
	// Addr is the listen address
	Addr string `toml:"addr" json:"addr"`

	// RatePerSecond and Burst limit inbound frames per connection
	RatePerSecond float64 `toml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `toml:"burst" json:"burst"`

	// OriginPatterns allowed to connect from browsers
	OriginPatterns []string `toml:"origin_patterns" json:"origin_patterns"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`

	// Path of the log file; empty uses ~/.composer/composer.log
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a new Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Composer: ComposerConfig{
			Placeholder:  "Type a message, @ to mention",
			DefaultSpace: "1",
			KeyBuffer:    64,
		},
		Mentions: MentionsConfig{
			Source:             SourceSample,
			DebounceMs:         200,
			CircuitMaxFailures: 3,
			CircuitTimeoutSecs: 10,
			NameWidth:          24,
			MaxSuggestions:     6,
		},
		Drafts: DraftsConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
		Outbox: OutboxConfig{
			Sink:      SinkLog,
			Topic:     "composer.messages",
			QueueSize: 256,
		},
		Bridge: BridgeConfig{
			Addr:          "127.0.0.1:8788",
			RatePerSecond: 20,
			Burst:         40,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the composer configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("COMPOSER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".composer"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DatabasePath returns the SQLite path, resolving the default location.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "composer.db"), nil
}

// LogPath returns the log file path, resolving the default location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return expandHome(c.Log.Path), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "composer.log"), nil
}

// Debounce returns the seed reload debounce.
func (m MentionsConfig) Debounce() time.Duration {
	return time.Duration(m.DebounceMs) * time.Millisecond
}

// CircuitTimeout returns how long the breaker stays open.
func (m MentionsConfig) CircuitTimeout() time.Duration {
	return time.Duration(m.CircuitTimeoutSecs) * time.Second
}

// TTL returns the Redis draft expiry.
func (d DraftsConfig) TTL() time.Duration {
	return time.Duration(d.TTLHours) * time.Hour
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if err := loadInto(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s: %w", path, err)
			cfg = Default()
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadInto(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

func loadInto(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return LoadJSON(cfg, path)
	}
	return LoadTOML(cfg, path)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# composer configuration file")
	fmt.Fprintln(&buf, "# Generated by composer - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to a JSON file atomically.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	switch c.Mentions.Source {
	case SourceSample, SourceFile, SourceSQLite:
	default:
		add("mentions.source", fmt.Sprintf("must be one of sample, file, sqlite (got %q)", c.Mentions.Source))
	}
	if c.Mentions.Source == SourceFile && c.Mentions.SeedFile == "" {
		add("mentions.seed_file", "required when mentions.source is file")
	}
	if c.Mentions.Watch && c.Mentions.SeedFile == "" {
		add("mentions.watch", "requires mentions.seed_file")
	}
	if c.Mentions.DebounceMs < 0 {
		add("mentions.debounce_ms", "must not be negative")
	}
	if c.Mentions.CircuitMaxFailures < 0 {
		add("mentions.circuit_max_failures", "must not be negative")
	}
	if c.Mentions.NameWidth < 4 || c.Mentions.NameWidth > 200 {
		add("mentions.name_width", "must be between 4 and 200")
	}
	if c.Mentions.MaxSuggestions < 1 || c.Mentions.MaxSuggestions > 50 {
		add("mentions.max_suggestions", "must be between 1 and 50")
	}

	switch c.Drafts.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Drafts.RedisAddr == "" {
			add("drafts.redis_addr", "required when drafts.backend is redis")
		}
	default:
		add("drafts.backend", fmt.Sprintf("must be one of memory, sqlite, redis (got %q)", c.Drafts.Backend))
	}
	if c.Drafts.TTLHours < 0 {
		add("drafts.ttl_hours", "must not be negative")
	}

	switch c.Outbox.Sink {
	case SinkLog:
	case SinkKafka:
		if len(c.Outbox.Brokers) == 0 {
			add("outbox.brokers", "at least one broker is required when outbox.sink is kafka")
		}
		if c.Outbox.Topic == "" {
			add("outbox.topic", "required when outbox.sink is kafka")
		}
	default:
		add("outbox.sink", fmt.Sprintf("must be one of log, kafka (got %q)", c.Outbox.Sink))
	}
	if c.Outbox.QueueSize < 1 {
		add("outbox.queue_size", "must be at least 1")
	}

	if _, _, err := net.SplitHostPort(c.Bridge.Addr); err != nil {
		add("bridge.addr", fmt.Sprintf("invalid address %q: %v", c.Bridge.Addr, err))
	}
	if c.Bridge.RatePerSecond <= 0 {
		add("bridge.rate_per_second", "must be positive")
	}
	if c.Bridge.Burst < 1 {
		add("bridge.burst", "must be at least 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", fmt.Sprintf("must be one of debug, info, warn, error (got %q)", c.Log.Level))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Composer.Placeholder == "" {
		c.Composer.Placeholder = d.Composer.Placeholder
	}
	if c.Composer.DefaultSpace == "" {
		c.Composer.DefaultSpace = d.Composer.DefaultSpace
	}
	if c.Composer.KeyBuffer <= 0 {
		c.Composer.KeyBuffer = d.Composer.KeyBuffer
	}
	if c.Mentions.Source == "" {
		c.Mentions.Source = d.Mentions.Source
	}
	if c.Mentions.DebounceMs == 0 {
		c.Mentions.DebounceMs = d.Mentions.DebounceMs
	}
	if c.Mentions.CircuitMaxFailures == 0 {
		c.Mentions.CircuitMaxFailures = d.Mentions.CircuitMaxFailures
	}
	if c.Mentions.CircuitTimeoutSecs == 0 {
		c.Mentions.CircuitTimeoutSecs = d.Mentions.CircuitTimeoutSecs
	}
	if c.Mentions.NameWidth == 0 {
		c.Mentions.NameWidth = d.Mentions.NameWidth
	}
	if c.Mentions.MaxSuggestions == 0 {
		c.Mentions.MaxSuggestions = d.Mentions.MaxSuggestions
	}
	if c.Drafts.Backend == "" {
		c.Drafts.Backend = d.Drafts.Backend
	}
	if c.Drafts.RedisAddr == "" {
		c.Drafts.RedisAddr = d.Drafts.RedisAddr
	}
	if c.Outbox.Sink == "" {
		c.Outbox.Sink = d.Outbox.Sink
	}
	if c.Outbox.Topic == "" {
		c.Outbox.Topic = d.Outbox.Topic
	}
	if c.Outbox.QueueSize == 0 {
		c.Outbox.QueueSize = d.Outbox.QueueSize
	}
	if c.Bridge.Addr == "" {
		c.Bridge.Addr = d.Bridge.Addr
	}
	if c.Bridge.RatePerSecond == 0 {
		c.Bridge.RatePerSecond = d.Bridge.RatePerSecond
	}
	if c.Bridge.Burst == 0 {
		c.Bridge.Burst = d.Bridge.Burst
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies COMPOSER_* environment variables.
//
// Supported variables:
//   - COMPOSER_DISABLED: overrides composer.disabled
//   - COMPOSER_PLACEHOLDER: overrides composer.placeholder
//   - COMPOSER_SEED_FILE: overrides mentions.seed_file
//   - COMPOSER_MENTIONS_SOURCE: overrides mentions.source
//   - COMPOSER_DRAFTS_BACKEND: overrides drafts.backend
//   - COMPOSER_REDIS_ADDR: overrides drafts.redis_addr
//   - COMPOSER_DB_PATH: overrides storage.path
//   - COMPOSER_OUTBOX_SINK: overrides outbox.sink
//   - COMPOSER_KAFKA_BROKERS: comma separated, overrides outbox.brokers
//   - COMPOSER_BRIDGE_ADDR: overrides bridge.addr
//   - COMPOSER_LOG_LEVEL: overrides log.level
//   - COMPOSER_LOG_PATH: overrides log.path
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMPOSER_DISABLED"); v != "" {
		c.Composer.Disabled = parseBool(v)
	}
	if v := os.Getenv("COMPOSER_PLACEHOLDER"); v != "" {
		c.Composer.Placeholder = v
	}
	if v := os.Getenv("COMPOSER_SEED_FILE"); v != "" {
		c.Mentions.SeedFile = v
	}
	if v := os.Getenv("COMPOSER_MENTIONS_SOURCE"); v != "" {
		c.Mentions.Source = v
	}
	if v := os.Getenv("COMPOSER_DRAFTS_BACKEND"); v != "" {
		c.Drafts.Backend = v
	}
	if v := os.Getenv("COMPOSER_REDIS_ADDR"); v != "" {
		c.Drafts.RedisAddr = v
	}
	if v := os.Getenv("COMPOSER_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("COMPOSER_OUTBOX_SINK"); v != "" {
		c.Outbox.Sink = v
	}
	if v := os.Getenv("COMPOSER_KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Outbox.Brokers = brokers
	}
	if v := os.Getenv("COMPOSER_BRIDGE_ADDR"); v != "" {
		c.Bridge.Addr = v
	}
	if v := os.Getenv("COMPOSER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COMPOSER_LOG_PATH"); v != "" {
		c.Log.Path = v
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "drafts.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"composer.placeholder",
		"composer.disabled",
		"composer.markdown_disabled",
		"composer.default_space",
		"composer.key_buffer",
		"mentions.source",
		"mentions.seed_file",
		"mentions.watch",
		"mentions.debounce_ms",
		"mentions.circuit_max_failures",
		"mentions.circuit_timeout_secs",
		"mentions.name_width",
		"mentions.max_suggestions",
		"drafts.backend",
		"drafts.redis_addr",
		"drafts.redis_password",
		"drafts.redis_db",
		"drafts.ttl_hours",
		"storage.path",
		"outbox.sink",
		"outbox.brokers",
		"outbox.topic",
		"outbox.queue_size",
		"bridge.addr",
		"bridge.rate_per_second",
		"bridge.burst",
		"bridge.origin_patterns",
		"log.level",
		"log.path",
	}
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Outbox.Brokers = append([]string(nil), c.Outbox.Brokers...)
	clone.Bridge.OriginPatterns = append([]string(nil), c.Bridge.OriginPatterns...)
	return &clone
}

// String returns the config as indented JSON with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Drafts.RedisPassword != "" {
		safe.Drafts.RedisPassword = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
