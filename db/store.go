package db

import (
	"context"

	"oplsetup/model"
)

// TableDump is every row of a table with its columns in declaration order.
// NULL cells are nil.
type TableDump struct {
	Table   string
	Columns []string
	Rows    [][]interface{}
}

type Store interface {
	Ping(ctx context.Context) error
	ListTables(ctx context.Context) ([]Table, error)
	CountRows(ctx context.Context, t Table) (int64, error)
	TableRows(ctx context.Context, t Table) (*TableDump, error)
	GetSelfPilot(ctx context.Context) (*model.Pilot, error)
}
