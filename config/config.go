// Package config loads the settings shared by the setup commands from
// defaults, an optional config file, OPL_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "OPL"
	DefaultDBPath    = "logbook.db"
	DefaultDataDir   = "csv"
	DefaultBatchSize = 500
	DefaultEnv       = "development"
)

// Keys shared by viper, flags and config files.
const (
	KeyDB            = "db"
	KeyDataDir       = "data_dir"
	KeySources       = "sources"
	KeyBatchSize     = "batch_size"
	KeyForeignKeys   = "foreign_keys"
	KeySQLLog        = "sql_log"
	KeyEnv           = "env"
	KeySeedEnabled   = "seed_pilot.enabled"
	KeySeedFirstName = "seed_pilot.first_name"
	KeySeedLastName  = "seed_pilot.last_name"
)

type SeedPilot struct {
	Enabled   bool   `mapstructure:"enabled"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

type Config struct {
	DBPath      string            `mapstructure:"db"`
	DataDir     string            `mapstructure:"data_dir"`
	Sources     map[string]string `mapstructure:"sources"`
	BatchSize   int               `mapstructure:"batch_size"`
	ForeignKeys bool              `mapstructure:"foreign_keys"`
	SQLLog      bool              `mapstructure:"sql_log"`
	Env         string            `mapstructure:"env"`
	SeedPilot   SeedPilot         `mapstructure:"seed_pilot"`
}

// SetDefaults registers every key on v so that environment variables are
// picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, DefaultDBPath)
	v.SetDefault(KeyDataDir, DefaultDataDir)
	v.SetDefault(KeySources, map[string]string{})
	v.SetDefault(KeyBatchSize, DefaultBatchSize)
	v.SetDefault(KeyForeignKeys, false)
	v.SetDefault(KeySQLLog, false)
	v.SetDefault(KeyEnv, DefaultEnv)
	v.SetDefault(KeySeedEnabled, false)
	v.SetDefault(KeySeedFirstName, "")
	v.SetDefault(KeySeedLastName, "")
}

// Load reads the configuration held by v. When file is not empty it is read
// first; flags bound to v before calling Load take precedence over both.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path must not be empty"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}
	if c.SeedPilot.Enabled && c.SeedPilot.LastName == "" {
		errs = append(errs, errors.New("seed_pilot.last_name is required when seeding is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SourcePath returns the file a table is imported from: the sources override
// when one is configured, otherwise defaultFile. Relative paths resolve
// against DataDir.
func (c *Config) SourcePath(table, defaultFile string) string {
	p := defaultFile
	if override, ok := c.Sources[table]; ok && override != "" {
		p = override
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
