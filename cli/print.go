package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"oplsetup/db"
)

// PrintRows writes each row of dump on its own line as a tuple,
// e.g. (1, 'KJFK', 40.64, NULL).
func PrintRows(w io.Writer, dump *db.TableDump) error {
	var b strings.Builder
	for _, row := range dump.Rows {
		b.WriteByte('(')
		for i, v := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatValue(v))
		}
		b.WriteString(")\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// TableCount is one line of a schema summary.
type TableCount struct {
	Table db.Table
	Rows  int64
}

// PrintCounts writes a table name / row count summary.
func PrintCounts(w io.Writer, counts []TableCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No logbook tables found.")
		return err
	}
	var b strings.Builder
	b.WriteString("TABLE      | ROWS\n")
	b.WriteString("-----------+---------\n")
	for _, c := range counts {
		fmt.Fprintf(&b, "%-10s | %d\n", c.Table, c.Rows)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
