package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/config"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/ui/table"
	"github.com/masomo/roster/internal/util"
)

// addDisplayFlags registers the output flags shared by every command that
// shows a table.
func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output as JSON array")
	cmd.Flags().Bool("raw", false, "Output tab-separated values (for piping)")
	cmd.Flags().Bool("no-pager", false, "Print a plain table instead of the interactive view")
	cmd.Flags().Int("page", 0, "Print only this page (1-based)")
	cmd.Flags().StringP("search", "s", "", "Start with this search applied")
	cmd.Flags().String("sort", "", "Sort by this column key")
	cmd.Flags().Bool("desc", false, "Sort descending (with --sort)")
}

func displayOptions(cmd *cobra.Command) table.DisplayOptions {
	asJSON, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")
	noPager, _ := cmd.Flags().GetBool("no-pager")
	page, _ := cmd.Flags().GetInt("page")
	return table.DisplayOptions{
		JSON:    asJSON,
		Raw:     raw,
		NoPager: noPager,
		Page:    page,
		Out:     cmd.OutOrStdout(),
	}
}

// viewOptions are the tabular settings taken from config.
func viewOptions(cfg *config.Config, columns []tabular.Column) tabular.Options {
	return tabular.Options{
		Columns:     columns,
		PageSize:    cfg.Table.PageSize,
		WindowSize:  cfg.Table.Window,
		SearchDelay: cfg.SearchDelay(),
	}
}

// applyViewFlags applies --search, --sort and --desc to v.
func applyViewFlags(cmd *cobra.Command, v *tabular.View) error {
	if q, _ := cmd.Flags().GetString("search"); q != "" {
		v.SetQuery(q)
	}

	key, _ := cmd.Flags().GetString("sort")
	if key == "" {
		return nil
	}
	if !v.ToggleSort(key) {
		var sortable []string
		for _, c := range v.Columns() {
			if c.Sortable {
				sortable = append(sortable, c.Key)
			}
		}
		return util.NewError("Cannot sort by "+key).
			WithMessage("Sortable columns: "+strings.Join(sortable, ", ")).
			WithSuggestion(cmd.CommandPath()+" --sort "+firstOr(sortable, "<column>"))
	}
	if desc, _ := cmd.Flags().GetBool("desc"); desc {
		v.ToggleSort(key)
	}
	return nil
}

// display shows v and turns a bad --page into a helpful error.
func display(title string, v *tabular.View, opts table.DisplayOptions, show func(string, table.DisplayOptions) error) error {
	if show == nil {
		show = func(title string, opts table.DisplayOptions) error {
			return table.DisplayResults(title, v, opts)
		}
	}
	err := show(title, opts)
	var pageErr *table.PageError
	if errors.As(err, &pageErr) {
		return util.NewError("Page out of range").
			WithMessage(pageErr.Error()).
			WithSuggestion("--page 1")
	}
	return err
}

func firstOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[0]
}
