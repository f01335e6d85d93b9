package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/util"
)

var writePrefixes = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE",
	"GRANT", "REVOKE", "COPY", "MERGE",
}

// IsWrite reports whether query modifies data. It looks at the leading
// keyword only, after comments; CTEs starting with WITH count as reads and
// are left to the server's read-only session.
func IsWrite(query string) bool {
	upper := strings.ToUpper(stripLeadingComments(query))
	for _, p := range writePrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func stripLeadingComments(q string) string {
	for {
		q = strings.TrimSpace(q)
		switch {
		case strings.HasPrefix(q, "--"):
			i := strings.IndexByte(q, '\n')
			if i < 0 {
				return ""
			}
			q = q[i+1:]
		case strings.HasPrefix(q, "/*"):
			i := strings.Index(q, "*/")
			if i < 0 {
				return ""
			}
			q = q[i+2:]
		default:
			return q
		}
	}
}

// QueryRecords runs a read query and returns one column per result field and
// one record per row. Write statements are refused with util.ErrWriteQuery.
func (db *DB) QueryRecords(ctx context.Context, query string, args ...any) ([]tabular.Column, []tabular.Record, error) {
	if IsWrite(query) {
		return nil, nil, util.ErrWriteQuery
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns := ColumnsFor(rows.FieldDescriptions())

	var records []tabular.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		rec := make(tabular.Record, len(values))
		for i, v := range values {
			if i < len(columns) {
				rec[columns[i].Key] = normalizeValue(v)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, records, nil
}

// ColumnsFor turns result field descriptions into sortable columns. Duplicate
// names (e.g. two "id" columns from a join) get a numeric suffix.
func ColumnsFor(fields []pgconn.FieldDescription) []tabular.Column {
	seen := make(map[string]int, len(fields))
	columns := make([]tabular.Column, len(fields))
	for i, fd := range fields {
		name := fd.Name
		key := name
		if n := seen[name]; n > 0 {
			key = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		columns[i] = tabular.Column{Key: key, Title: key, Sortable: true}
	}
	return columns
}

// normalizeValue turns driver values into types Stringify and Compare
// understand.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		if len(val) == 0 {
			return ""
		}
		for _, b := range val {
			if b < 32 && b != '\n' && b != '\r' && b != '\t' {
				return fmt.Sprintf("[%d bytes]", len(val))
			}
		}
		return util.ToValidUTF8(string(val))
	case string:
		return util.ToValidUTF8(val)
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}
