// Package core contains the business logic for datawork: the task
// repository, statistics derivation, task ID generation, and configuration.
package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// ConfigFileName is the name of the YAML configuration file looked up in the
// base path.
const ConfigFileName = ".dwconfig"

// validPrefixPattern matches uppercase alphanumeric prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager defines the interface for loading and validating
// configuration from the .dwconfig file and DW_* environment variables.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .dwconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with defaults rooted at basePath.
func DefaultConfig(basePath string) *models.Config {
	return &models.Config{
		Store: models.StoreConfig{
			Backend: models.BackendFile,
			Key:     DefaultStoreKey,
			Codec:   "yaml",
			File:    models.FileStoreConfig{Dir: filepath.Join(basePath, "data")},
			SQLite:  models.SQLiteConfig{Path: filepath.Join(basePath, "datawork.db")},
			Redis: models.RedisConfig{
				Addr: "localhost:6379",
			},
		},
		ID: models.IDConfig{
			Scheme:   models.IDSchemeUUID,
			Prefix:   "TASK",
			PadWidth: 5,
		},
		Log: models.LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Events: models.EventsConfig{
			Enabled: true,
			Path:    filepath.Join(basePath, ".dw_events.jsonl"),
		},
	}
}

// LoadConfig reads .dwconfig from the base path using Viper. Environment
// variables prefixed with DW_ (dots become underscores, e.g.
// DW_STORE_BACKEND) override file values. A missing file is not an error.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := DefaultConfig(cm.basePath)

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("DW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set Viper defaults so missing keys fall back gracefully and so
	// AutomaticEnv can see every key.
	v.SetDefault("store.backend", string(cfg.Store.Backend))
	v.SetDefault("store.key", cfg.Store.Key)
	v.SetDefault("store.codec", cfg.Store.Codec)
	v.SetDefault("store.file.dir", cfg.Store.File.Dir)
	v.SetDefault("store.sqlite.path", cfg.Store.SQLite.Path)
	v.SetDefault("store.redis.addr", cfg.Store.Redis.Addr)
	v.SetDefault("store.redis.password", cfg.Store.Redis.Password)
	v.SetDefault("store.redis.db", cfg.Store.Redis.DB)
	v.SetDefault("id.scheme", string(cfg.ID.Scheme))
	v.SetDefault("id.prefix", cfg.ID.Prefix)
	v.SetDefault("id.pad_width", cfg.ID.PadWidth)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.path", cfg.Events.Path)
	v.SetDefault("stats.timezone", cfg.Stats.Timezone)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	// Map nested YAML keys to the Config fields.
	cfg.Store.Backend = models.StoreBackend(strings.ToLower(v.GetString("store.backend")))
	cfg.Store.Key = v.GetString("store.key")
	cfg.Store.Codec = strings.ToLower(v.GetString("store.codec"))
	cfg.Store.File.Dir = cm.resolvePath(v.GetString("store.file.dir"))
	cfg.Store.SQLite.Path = cm.resolveSQLitePath(v.GetString("store.sqlite.path"))
	cfg.Store.Redis.Addr = v.GetString("store.redis.addr")
	cfg.Store.Redis.Password = v.GetString("store.redis.password")
	cfg.Store.Redis.DB = v.GetInt("store.redis.db")
	cfg.ID.Scheme = models.IDScheme(strings.ToLower(v.GetString("id.scheme")))
	cfg.ID.Prefix = v.GetString("id.prefix")
	cfg.ID.PadWidth = v.GetInt("id.pad_width")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.Path = cm.resolvePath(v.GetString("events.path"))
	cfg.Stats.Timezone = v.GetString("stats.timezone")

	return cfg, nil
}

// resolvePath makes relative paths relative to the base path.
func (cm *viperConfigManager) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cm.basePath, p)
}

// resolveSQLitePath is resolvePath that leaves in-memory DSNs alone.
func (cm *viperConfigManager) resolveSQLitePath(p string) string {
	if p == ":memory:" || strings.HasPrefix(p, "file:") {
		return p
	}
	return cm.resolvePath(p)
}

var validBackends = map[models.StoreBackend]bool{
	models.BackendMemory: true,
	models.BackendFile:   true,
	models.BackendRedis:  true,
	models.BackendSQLite: true,
}

var validCodecs = map[string]bool{"yaml": true, "json": true}

var validIDSchemes = map[models.IDScheme]bool{
	models.IDSchemeUUID:     true,
	models.IDSchemeSequence: true,
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"text": true, "json": true}

// ValidateConfig checks the configuration for invalid values and returns a
// single error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !validBackends[cfg.Store.Backend] {
		errs = append(errs, fmt.Sprintf(
			"store.backend %q is invalid, must be one of: memory, file, redis, sqlite",
			cfg.Store.Backend,
		))
	}
	if strings.TrimSpace(cfg.Store.Key) == "" {
		errs = append(errs, "store.key must not be empty")
	}
	if !validCodecs[cfg.Store.Codec] {
		errs = append(errs, fmt.Sprintf("store.codec %q is invalid, must be one of: yaml, json", cfg.Store.Codec))
	}
	switch cfg.Store.Backend {
	case models.BackendFile:
		if cfg.Store.File.Dir == "" {
			errs = append(errs, "store.file.dir must not be empty for the file backend")
		}
	case models.BackendSQLite:
		if cfg.Store.SQLite.Path == "" {
			errs = append(errs, "store.sqlite.path must not be empty for the sqlite backend")
		}
	case models.BackendRedis:
		if cfg.Store.Redis.Addr == "" {
			errs = append(errs, "store.redis.addr must not be empty for the redis backend")
		}
		if cfg.Store.Redis.DB < 0 {
			errs = append(errs, fmt.Sprintf("store.redis.db must be non-negative, got %d", cfg.Store.Redis.DB))
		}
	}

	if !validIDSchemes[cfg.ID.Scheme] {
		errs = append(errs, fmt.Sprintf("id.scheme %q is invalid, must be one of: uuid, sequence", cfg.ID.Scheme))
	}
	if cfg.ID.Scheme == models.IDSchemeSequence {
		if !validPrefixPattern.MatchString(cfg.ID.Prefix) {
			errs = append(errs, fmt.Sprintf(
				"id.prefix %q is invalid, must match [A-Z0-9]{1,10}",
				cfg.ID.Prefix,
			))
		}
		if cfg.ID.PadWidth < 0 || cfg.ID.PadWidth > 10 {
			errs = append(errs, fmt.Sprintf(
				"id.pad_width %d is invalid, must be between 0 and 10",
				cfg.ID.PadWidth,
			))
		}
	}

	if !validLogLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", cfg.Log.Level))
	}
	if !validLogFormats[cfg.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be one of: text, json", cfg.Log.Format))
	}

	if cfg.Events.Enabled && cfg.Events.Path == "" {
		errs = append(errs, "events.path must not be empty when events are enabled")
	}

	if cfg.Stats.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Stats.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("stats.timezone %q is invalid: %v", cfg.Stats.Timezone, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
