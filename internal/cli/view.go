package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/jsonfile"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/util"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file.json>",
		Short: "Browse a JSON file in the table",
		Long: `Browse a JSON array of objects in the interactive table.

Columns appear in the order their keys are first seen. Every column can be
searched and sorted. Use "-" to read from stdin.

Examples:
  roster view export.json
  roster users list --json | roster view - --sort last_login --desc`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}
	addDisplayFlags(cmd)
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	var (
		columns []tabular.Column
		records []tabular.Record
	)
	if path == "-" {
		columns, records, err = jsonfile.Read(cmd.InOrStdin())
	} else {
		columns, records, err = jsonfile.ReadFile(path)
	}
	if err != nil {
		rerr := util.NewError("Cannot read " + path).WithMessage(err.Error()).Wrap(err)
		switch {
		case errors.Is(err, os.ErrNotExist):
			rerr.WithSuggestion("Check the file path")
		case errors.Is(err, jsonfile.ErrNotArray):
			rerr.WithSuggestion(`The file must look like [{"key": "value"}, ...]`)
		}
		return rerr
	}

	v := tabular.New(records, viewOptions(e.cfg, columns))
	if err := applyViewFlags(cmd, v); err != nil {
		return err
	}
	return display(filepath.Base(path), v, displayOptions(cmd), nil)
}
