package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/db"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Browse the result of a SQL query",
		Long: `Run a SQL query against a PostgreSQL database and browse the result in
the same table as the users screen.

The connection is read-only unless --write is given. Without --write,
INSERT, UPDATE, DELETE and DDL statements are refused before they reach
the server.

The database URL comes from --db, then database.url in the config, then
ROSTER_DATABASE_URL.

Examples:
  roster query "SELECT username, email FROM users ORDER BY id"
  roster query "SELECT * FROM classes" --json
  roster query --write "UPDATE users SET is_active = false WHERE id = 7"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().String("db", "", "PostgreSQL connection URL")
	cmd.Flags().Bool("write", false, "Allow write operations (INSERT, UPDATE, DELETE, DDL)")
	cmd.Flags().Int("timeout", 60, "Query timeout in seconds")
	addDisplayFlags(cmd)

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := args[0]
	allowWrite, _ := cmd.Flags().GetBool("write")
	timeout, _ := cmd.Flags().GetInt("timeout")

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	url, _ := cmd.Flags().GetString("db")
	if url == "" {
		url = e.cfg.Database.URL
	}
	if url == "" {
		return util.MissingArgumentError("database URL", `roster query --db postgres://localhost/masomo "SELECT ..."`).
			WithSuggestion("roster config database.url postgres://localhost/masomo").
			Wrap(util.ErrNoDatabaseURL)
	}

	isWrite := db.IsWrite(query)
	if isWrite && !allowWrite {
		return util.NewError("Write operations require --write").
			WithMessage("This is a safety measure to prevent accidental data modification.").
			WithSuggestion(fmt.Sprintf("roster query --write %q", query)).
			Wrap(util.ErrWriteQuery)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), time.Duration(timeout)*time.Second)
	defer cancel()

	var conn *db.DB
	err = spin("Connecting", func() error {
		var err error
		conn, err = db.Connect(ctx, url, db.ConnectOptions{ReadOnly: !allowWrite})
		return err
	})
	if err != nil {
		return util.DatabaseConnectionError(db.Redacted(url), err)
	}
	defer conn.Close()

	if isWrite {
		n, err := conn.Exec(ctx, query)
		if err != nil {
			return queryError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Query executed, %d row(s) affected", n)))
		return nil
	}

	columns, records, err := conn.QueryRecords(ctx, query)
	if err != nil {
		return queryError(err)
	}

	v := tabular.New(records, viewOptions(e.cfg, columns))
	if err := applyViewFlags(cmd, v); err != nil {
		return err
	}
	return display("Query", v, displayOptions(cmd), nil)
}

func queryError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return util.NewError("Query timed out").
			WithSuggestion("roster query --timeout 300 ...").
			Wrap(err)
	}
	return util.NewError("Query failed").
		WithMessage(err.Error()).
		Wrap(err)
}
