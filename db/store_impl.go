package db

import (
	"context"
	"errors"
	"fmt"

	"oplsetup/model"

	"gorm.io/gorm"
)

type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Ping reports whether the logbook file still answers on the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store has no connection")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// ListTables returns the logbook tables present in the file.
func (s *SQLStore) ListTables(ctx context.Context) ([]Table, error) {
	migrator := s.db.WithContext(ctx).Migrator()
	var present []Table
	for _, t := range Tables {
		if migrator.HasTable(string(t)) {
			present = append(present, t)
		}
	}
	return present, nil
}

func (s *SQLStore) CountRows(ctx context.Context, t Table) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Table(string(t)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", t, err)
	}
	return n, nil
}

// TableRows reads back every row of t in storage order.
func (s *SQLStore) TableRows(ctx context.Context, t Table) (*TableDump, error) {
	rows, err := s.db.WithContext(ctx).Table(string(t)).Rows()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dump := &TableDump{Table: string(t), Columns: cols}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		for i := range vals {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
		}
		dump.Rows = append(dump.Rows, vals)
	}
	return dump, rows.Err()
}

// GetSelfPilot returns the pilots row aliased "self".
func (s *SQLStore) GetSelfPilot(ctx context.Context) (*model.Pilot, error) {
	var p model.Pilot
	err := s.db.WithContext(ctx).Where("alias = ?", model.SelfAlias).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSelfPilotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
