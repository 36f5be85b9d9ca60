package cli

import (
	"fmt"

	"oplsetup/config"
	"oplsetup/db"
	"oplsetup/logging"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is one command run: its configuration, logger and the single
// connection every operation of the run goes through.
type Session struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	DB     *gorm.DB
}

// Open loads the configuration from v (and configFile when set), builds the
// logger and opens the database.
func Open(v *viper.Viper, configFile string) (*Session, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(cfg.DBPath, db.Options{ForeignKeys: cfg.ForeignKeys, SQLLog: cfg.SQLLog})
	if err != nil {
		return nil, err
	}
	logger.Debugw("database opened", "path", cfg.DBPath, "foreign_keys", cfg.ForeignKeys)
	return &Session{Config: cfg, Logger: logger, DB: conn}, nil
}

// SchemaManager returns a schema manager seeded from the session config.
func (s *Session) SchemaManager() *db.SchemaManager {
	return db.NewSchemaManager(s.DB, s.Logger, db.SeedPilot(s.Config.SeedPilot))
}

// Close releases the connection and flushes the logger.
func (s *Session) Close() error {
	_ = s.Logger.Sync()
	if err := db.Close(s.DB); err != nil {
		return fmt.Errorf("closing %s: %w", s.Config.DBPath, err)
	}
	return nil
}
