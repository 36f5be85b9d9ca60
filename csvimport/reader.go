package csvimport

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"oplsetup/db"
)

// ReadRows reads every record of the header-tagged file at path and projects
// it through cols. Each returned row is keyed by table column name and carries
// the same set of columns; empty or absent cells are nil so sqlite stores
// NULL. Headers are matched case-sensitively after trimming whitespace.
//
// A required header missing from the file is a *db.MappingError raised before
// any record is read.
func ReadRows(path string, cols []Column) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &db.IOError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &db.IOError{Path: path, Err: err}
	}
	positions, err := project(path, header, cols)
	if err != nil {
		return nil, err
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, &db.IOError{Path: path, Err: err}
	}

	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		row := make(map[string]interface{}, len(positions))
		for name, idx := range positions {
			var v interface{}
			if idx < len(record) && record[idx] != "" {
				v = record[idx]
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// project maps each column name to its header position in the file.
func project(path string, header []string, cols []Column) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.TrimSpace(h)] = i
	}

	positions := make(map[string]int, len(cols))
	var missing, absent []string
	for _, c := range cols {
		idx, ok := index[c.Header]
		switch {
		case ok:
			positions[c.Name] = idx
		case c.Optional:
			absent = append(absent, c.Header)
		default:
			missing = append(missing, c.Header)
		}
	}
	if len(missing) > 0 {
		return nil, &db.MappingError{Source: path, Missing: missing}
	}
	if len(positions) == 0 {
		return nil, &db.MappingError{Source: path, Missing: absent}
	}
	return positions, nil
}
