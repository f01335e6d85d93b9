package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/masomo/roster/internal/tabular"
)

// PrintJSONResults outputs records as a JSON array of objects keyed by
// column. Values keep their native types; missing fields become null.
func PrintJSONResults(w io.Writer, cols []tabular.Column, records []tabular.Record) error {
	results := make([]map[string]any, len(records))

	for i, rec := range records {
		obj := make(map[string]any, len(cols))
		for _, col := range cols {
			if v, ok := rec.Lookup(col.Key); ok {
				obj[col.Key] = v
			} else {
				obj[col.Key] = nil
			}
		}
		results[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// PrintRaw writes one tab-separated line per record (for piping).
func PrintRaw(w io.Writer, cols []tabular.Column, records []tabular.Record) {
	for _, rec := range records {
		fmt.Fprintln(w, strings.Join(cells(cols, rec), "\t"))
	}
}

// PrintPlainTable prints a properly aligned table for non-TTY output.
// Shows full content without truncation.
func PrintPlainTable(w io.Writer, cols []tabular.Column, records []tabular.Record) {
	if len(cols) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = cells(cols, rec)
	}

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(cols))
	for i, col := range cols {
		colWidths[i] = runeLen(col.Title)
	}
	for _, row := range rows {
		for i, val := range row {
			colWidths[i] = max(colWidths[i], runeLen(val))
		}
	}

	// Print header
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprint(w, pad(col.Title, colWidths[i]))
	}
	fmt.Fprintln(w)

	// Print separator
	for i, cw := range colWidths {
		if i > 0 {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprint(w, strings.Repeat("─", cw))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprint(w, pad(val, colWidths[i]))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func runeLen(s string) int { return len([]rune(s)) }

// pad adds spaces to reach the desired width (no truncation).
func pad(s string, width int) string {
	if n := runeLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Truncate shortens a string to fit width, adding "..." if needed.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	return string(r[:max(width, 0)])
}

// PadOrTruncate pads or truncates to exact width (for TUI table).
func PadOrTruncate(s string, width int) string {
	if runeLen(s) > width {
		return Truncate(s, width)
	}
	return pad(s, width)
}
