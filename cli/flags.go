// Package cli holds the flag wiring and session setup shared by the setup
// commands.
package cli

import (
	"fmt"

	"oplsetup/config"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"db":           config.KeyDB,
	"foreign-keys": config.KeyForeignKeys,
	"sql-log":      config.KeySQLLog,
	"env":          config.KeyEnv,
	"data-dir":     config.KeyDataDir,
	"batch-size":   config.KeyBatchSize,
	"seed-pilot":   config.KeySeedEnabled,
	"first-name":   config.KeySeedFirstName,
	"last-name":    config.KeySeedLastName,
}

// AddCommonFlags registers the flags every command takes.
func AddCommonFlags(fs *pflag.FlagSet, configFile *string) {
	fs.StringVar(configFile, "config", "", "Path to a config file (yaml, toml or json)")
	fs.String("db", config.DefaultDBPath, "Path to SQLite database file")
	fs.Bool("foreign-keys", false, "Enforce foreign key constraints on the connection")
	fs.Bool("sql-log", false, "Log every SQL statement")
	fs.String("env", config.DefaultEnv, "Logging environment: development or production")
}

// AddSeedFlags registers the self pilot seed flags.
func AddSeedFlags(fs *pflag.FlagSet) {
	fs.Bool("seed-pilot", false, "Insert the logbook owner into pilots when the table is created")
	fs.String("first-name", "", "First name of the logbook owner")
	fs.String("last-name", "", "Last name of the logbook owner")
}

// AddImportFlags registers the flags that locate and batch source files.
func AddImportFlags(fs *pflag.FlagSet) {
	fs.String("data-dir", config.DefaultDataDir, "Directory holding the source CSV files")
	fs.Int("batch-size", config.DefaultBatchSize, "Rows per INSERT statement inside the import transaction")
}

// BindFlags binds every known flag present in fs to its key in v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}
