// Package table hosts a tabular.View on the terminal. It supports an
// interactive TUI (search, sort, paging, confirm-gated delete, forms), plain
// text tables, JSON output, and raw tab-separated output.
//
// The users screen, `roster query` and `roster view` all display through it.
package table

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/masomo/roster/internal/tabular"
)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// Page limits non-interactive output to one page. 0 prints every page.
	Page int
	// Out receives non-interactive output. Defaults to stdout.
	Out io.Writer

	RunOptions
}

// DisplayResults picks the right output mode based on options and environment,
// then renders v. The title is shown in the interactive TUI header; for
// non-interactive modes it is ignored.
func DisplayResults(title string, v *tabular.View, opts DisplayOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	records := v.Rows()
	if opts.Page > 0 {
		if !v.GoTo(opts.Page) {
			return &PageError{Page: opts.Page, Total: v.TotalPages()}
		}
		records = v.PageRows()
	}

	if opts.Raw {
		PrintRaw(out, v.Columns(), records)
		return nil
	}

	if opts.JSON {
		return PrintJSONResults(out, v.Columns(), records)
	}

	isTTY := out == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))

	if !isTTY || opts.NoPager || len(v.Records()) == 0 {
		PrintPlainTable(out, v.Columns(), records)
		return nil
	}

	return RunTableTUI(title, v, opts.RunOptions)
}

// PageError reports a page outside 1..Total.
type PageError struct {
	Page, Total int
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d out of range (1-%d)", e.Page, e.Total)
}
