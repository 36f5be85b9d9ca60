package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"oplsetup/model"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Options control how the logbook file is opened.
type Options struct {
	// ForeignKeys turns on sqlite foreign key enforcement for the connection.
	ForeignKeys bool
	// SQLLog echoes every statement gorm issues.
	SQLLog bool
}

// Open opens (or creates) the logbook database at path. The pool is held to a
// single connection: every run is one writer working to completion.
func Open(path string, opts Options) (*gorm.DB, error) {
	dsn := path
	if opts.ForeignKeys {
		dsn += "?_foreign_keys=on"
	}
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: sqlLogger(opts.SQLLog),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", path, err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

// sqlLogger echoes statements to stderr when enabled so they never mix with
// command output.
func sqlLogger(enabled bool) logger.Interface {
	if !enabled {
		return logger.Discard
	}
	return logger.New(log.New(os.Stderr, "sql: ", log.LstdFlags), logger.Config{
		SlowThreshold:        time.Second,
		LogLevel:             logger.Info,
		ParameterizedQueries: true,
	})
}

// Close releases the connection behind conn.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedPilot describes the logbook owner's row written when the pilots table is
// created.
type SeedPilot struct {
	Enabled   bool
	FirstName string
	LastName  string
}

func (s SeedPilot) validate() error {
	if s.Enabled && s.LastName == "" {
		return errors.New("seed pilot requires a last name")
	}
	return nil
}

// SchemaManager creates and drops the logbook tables on one connection.
type SchemaManager struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	seed   SeedPilot
}

func NewSchemaManager(conn *gorm.DB, logger *zap.SugaredLogger, seed SeedPilot) *SchemaManager {
	return &SchemaManager{db: conn, logger: logger, seed: seed}
}

// Create issues CREATE TABLE for t. It fails with a *SchemaError when the
// table already exists. Creating pilots with seeding enabled also inserts the
// self row; both happen in one transaction.
func (m *SchemaManager) Create(ctx context.Context, t Table) error {
	entity := t.Model()
	if entity == nil {
		return &SchemaError{Op: "create", Table: string(t), Err: ErrUnknownTable}
	}
	seeding := t == Pilots && m.seed.Enabled
	if seeding {
		if err := m.seed.validate(); err != nil {
			return fmt.Errorf("create %s: %w", t, err)
		}
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().CreateTable(entity); err != nil {
			return &SchemaError{Op: "create", Table: string(t), Err: err}
		}
		if seeding {
			return m.seedSelf(tx)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Infow("table created", "table", t, "seeded", seeding)
	return nil
}

func (m *SchemaManager) seedSelf(tx *gorm.DB) error {
	alias := model.SelfAlias
	pilot := model.Pilot{LastName: m.seed.LastName, Alias: &alias}
	if m.seed.FirstName != "" {
		first := m.seed.FirstName
		pilot.FirstName = &first
	}
	if err := tx.Create(&pilot).Error; err != nil {
		return fmt.Errorf("seed self pilot: %w", ClassifyWriteError(string(Pilots), err))
	}
	return nil
}

// Drop irreversibly removes t. It fails with a *SchemaError when the table
// does not exist.
func (m *SchemaManager) Drop(ctx context.Context, t Table) error {
	if t.Model() == nil {
		return &SchemaError{Op: "drop", Table: string(t), Err: ErrUnknownTable}
	}
	if err := m.db.WithContext(ctx).Exec("DROP TABLE ?", clause.Table{Name: string(t)}).Error; err != nil {
		return &SchemaError{Op: "drop", Table: string(t), Err: err}
	}
	m.logger.Infow("table dropped", "table", t)
	return nil
}

// Initialise creates the tables a first run needs.
func (m *SchemaManager) Initialise(ctx context.Context) error {
	for _, t := range []Table{Airports, Flights} {
		if err := m.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// CreateAll creates every logbook table.
func (m *SchemaManager) CreateAll(ctx context.Context) error {
	for _, t := range Tables {
		if err := m.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// DropAll drops every logbook table present in the file, leaving the rest of
// the file alone.
func (m *SchemaManager) DropAll(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()
	for i := len(Tables) - 1; i >= 0; i-- {
		t := Tables[i]
		if !migrator.HasTable(string(t)) {
			continue
		}
		if err := m.Drop(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
