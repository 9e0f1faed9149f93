// Package sqlitedump exports every user table of an embedded SQLite
// project store as XML: one table element per table, one row element
// per row, with NULLs flagged and BLOB columns base64-encoded.
package sqlitedump

import (
	"bufio"
	"database/sql"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/burpxml/burpxml/internal/xmlout"
)

// Open opens the SQLite database at path with the pure-Go driver.
func Open(path string) (*sql.DB, error) {
	return sql.Open("sqlite", path)
}

// Dump writes all user tables of db to w. When only is non-empty, just
// the named tables are exported; names are matched exactly after
// trimming surrounding space.
func Dump(db *sql.DB, w io.Writer, only []string) error {
	tables, err := listTables(db, only)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	out.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	out.WriteString("<burpProject source=\"sqlite\">\n")
	for _, table := range tables {
		if err := dumpTable(db, out, table); err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
	}
	out.WriteString("</burpProject>\n")
	return out.Flush()
}

// listTables returns user table names in lexical order, skipping the
// sqlite_ internal tables and applying the optional filter.
func listTables(db *sql.DB, only []string) ([]string, error) {
	rows, err := db.Query(
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filter map[string]bool
	if len(only) > 0 {
		filter = make(map[string]bool, len(only))
		for _, t := range only {
			if t = strings.TrimSpace(t); t != "" {
				filter[t] = true
			}
		}
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if filter == nil || filter[name] {
			tables = append(tables, name)
		}
	}
	return tables, rows.Err()
}

func dumpTable(db *sql.DB, out *bufio.Writer, table string) error {
	fmt.Fprintf(out, "  <table name=\"%s\">\n", xmlout.Escape(table))
	rows, err := db.Query("SELECT * FROM " + quoteIdent(table))
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	values := make([]any, len(columns))
	for i := range values {
		values[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(values...); err != nil {
			return err
		}
		out.WriteString("    <row>\n")
		for i, col := range columns {
			writeColumn(out, col, *(values[i].(*any)))
		}
		out.WriteString("    </row>\n")
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = out.WriteString("  </table>\n")
	return err
}

func writeColumn(out *bufio.Writer, name string, value any) {
	escName := xmlout.Escape(name)
	switch v := value.(type) {
	case nil:
		fmt.Fprintf(out, "      <col name=\"%s\" null=\"true\"/>\n", escName)
	case []byte:
		fmt.Fprintf(out, "      <col name=\"%s\" encoding=\"base64\">%s</col>\n",
			escName, base64.StdEncoding.EncodeToString(v))
	default:
		fmt.Fprintf(out, "      <col name=\"%s\">%s</col>\n",
			escName, xmlout.Escape(fmt.Sprint(v)))
	}
}

// quoteIdent double-quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
