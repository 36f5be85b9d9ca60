package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrUnknownTable      = errors.New("unknown table")
	ErrNoSuchTable       = errors.New("table does not exist")
	ErrSelfPilotNotFound = errors.New("self pilot not found")
)

// SchemaError reports a create or drop that the storage engine refused,
// typically because the table already exists or does not exist.
type SchemaError struct {
	Op    string
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s table %s: %v", e.Op, e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// MappingError reports headers a source file is expected to carry but does not.
type MappingError struct {
	Source  string
	Missing []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping: %s is missing column(s) %s", e.Source, strings.Join(e.Missing, ", "))
}

// ConstraintViolation is a not-null, foreign key or unique violation raised by
// sqlite while writing rows.
type ConstraintViolation struct {
	Table string
	Err   error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation on %s: %v", e.Table, e.Err)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// IOError reports a source file that could not be opened or parsed.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ClassifyWriteError wraps constraint failures from a write on table into a
// *ConstraintViolation and returns every other error unchanged.
func ClassifyWriteError(table string, err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &ConstraintViolation{Table: table, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintViolation{Table: table, Err: err}
	}
	return err
}
