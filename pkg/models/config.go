package models

// StoreBackend names a key-value store implementation.
type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendFile   StoreBackend = "file"
	BackendRedis  StoreBackend = "redis"
	BackendSQLite StoreBackend = "sqlite"
)

// IDScheme names a task ID generation strategy.
type IDScheme string

const (
	IDSchemeUUID     IDScheme = "uuid"
	IDSchemeSequence IDScheme = "sequence"
)

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// FileStoreConfig holds settings for the file backend.
type FileStoreConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// SQLiteConfig holds settings for the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig selects and configures the key-value store holding the tasks.
type StoreConfig struct {
	Backend StoreBackend    `yaml:"backend" mapstructure:"backend"`
	Key     string          `yaml:"key" mapstructure:"key"`
	Codec   string          `yaml:"codec" mapstructure:"codec"`
	File    FileStoreConfig `yaml:"file" mapstructure:"file"`
	SQLite  SQLiteConfig    `yaml:"sqlite" mapstructure:"sqlite"`
	Redis   RedisConfig     `yaml:"redis" mapstructure:"redis"`
}

// IDConfig configures task ID generation.
type IDConfig struct {
	Scheme   IDScheme `yaml:"scheme" mapstructure:"scheme"`
	Prefix   string   `yaml:"prefix" mapstructure:"prefix"`
	PadWidth int      `yaml:"pad_width" mapstructure:"pad_width"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EventsConfig configures the JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// Config holds all settings read from .dwconfig via Viper.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	ID     IDConfig     `yaml:"id" mapstructure:"id"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Events EventsConfig `yaml:"events" mapstructure:"events"`
	Stats  StatsConfig  `yaml:"stats" mapstructure:"stats"`
}

// StatsConfig configures statistics derivation.
type StatsConfig struct {
	// Timezone is an IANA name used for day and week boundaries.
	// Empty means the local zone.
	Timezone string `yaml:"timezone,omitempty" mapstructure:"timezone"`
}
