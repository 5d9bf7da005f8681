package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "sysml.yaml"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config is the content of sysml.yaml.
type Config struct {
	Storage Storage `yaml:"storage"`
	History History `yaml:"history"`
	Log     Log     `yaml:"log"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	// Path is the directory of the file driver or the database of the sqlite driver.
	Path  string `yaml:"path"`
	Redis Redis  `yaml:"redis"`

	// Strict refuses to save models with validation findings.
	Strict bool `yaml:"strict"`
	// StripLayout drops diagram positions and vertices when saving.
	StripLayout bool `yaml:"stripLayout"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type History struct {
	// Limit bounds the undo history. Zero means unbounded.
	Limit int `yaml:"limit"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver: DriverFile,
			Redis:  Redis{Addr: "localhost:6379"},
		},
		History: History{Limit: 100},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SYSML_STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := lookup("SYSML_STORAGE_PATH"); ok {
		c.Storage.Path = v
	}
	if v, ok := lookup("SYSML_REDIS_ADDR"); ok {
		c.Storage.Redis.Addr = v
	}
	if v, ok := lookup("SYSML_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SYSML_REDIS_DB %q: %w", v, err)
		}
		c.Storage.Redis.DB = db
	}
	if v, ok := lookup("SYSML_STORAGE_STRICT"); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SYSML_STORAGE_STRICT %q: %w", v, err)
		}
		c.Storage.Strict = strict
	}
	if v, ok := lookup("SYSML_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate rejects unknown drivers and negative limits.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverRedis, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.Storage.Redis.TTL < 0 {
		return fmt.Errorf("storage.redis.ttl must not be negative, got %s", c.Storage.Redis.TTL)
	}
	return nil
}
