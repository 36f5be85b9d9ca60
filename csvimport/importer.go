package csvimport

import (
	"context"
	"fmt"

	"oplsetup/config"
	"oplsetup/db"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Importer bulk loads source files into existing logbook tables.
type Importer struct {
	db        *gorm.DB
	store     *db.SQLStore
	logger    *zap.SugaredLogger
	batchSize int
}

// Result reports one completed import together with the table as it reads
// back afterwards.
type Result struct {
	Table    db.Table
	Path     string
	Inserted int
	Dump     *db.TableDump
}

func NewImporter(conn *gorm.DB, logger *zap.SugaredLogger, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &Importer{
		db:        conn,
		store:     db.NewSQLStore(conn),
		logger:    logger,
		batchSize: batchSize,
	}
}

// Import reads the whole file at path, then inserts every row into src.Table
// as one transaction: either all rows land or none do. Statements are split
// into batches of the importer's batch size inside that transaction.
func (im *Importer) Import(ctx context.Context, src Source, path string) (*Result, error) {
	table := string(src.Table)
	rows, err := ReadRows(path, src.Columns)
	if err != nil {
		return nil, err
	}
	im.logger.Infow("source read", "table", table, "path", path, "rows", len(rows))

	tx := im.db.WithContext(ctx)
	if !tx.Migrator().HasTable(table) {
		return nil, &db.SchemaError{Op: "import", Table: table, Err: db.ErrNoSuchTable}
	}

	if len(rows) > 0 {
		err = tx.Transaction(func(tx *gorm.DB) error {
			return tx.Table(table).CreateInBatches(rows, im.batchSize).Error
		})
		if err != nil {
			return nil, fmt.Errorf("import %s from %s: %w", table, path, db.ClassifyWriteError(table, err))
		}
	}

	dump, err := im.store.TableRows(ctx, src.Table)
	if err != nil {
		return nil, fmt.Errorf("read back %s: %w", table, err)
	}
	im.logger.Infow("database entries added", "table", table, "inserted", len(rows), "total", len(dump.Rows))
	return &Result{Table: src.Table, Path: path, Inserted: len(rows), Dump: dump}, nil
}

// ImportAll imports every known source resolved through cfg, stopping at the
// first failure. Results of the imports that completed are returned with the
// error.
func (im *Importer) ImportAll(ctx context.Context, cfg *config.Config) ([]*Result, error) {
	var results []*Result
	for _, src := range Sources() {
		res, err := im.Import(ctx, src, src.Path(cfg))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
