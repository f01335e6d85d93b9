package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/db"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long: `Run diagnostics to check if roster is properly configured.

This command checks:
  - The config file
  - The API URL and whether the API answers
  - The stored session
  - The query database, when database.url is set`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.SectionHeader("roster doctor"))
	fmt.Fprintln(out)

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	allOK := true
	ok := func(detail string) { fmt.Fprintln(out, styles.Render(styles.SuccessStyle, "OK")+detail) }
	failed := func(msg string) {
		fmt.Fprintln(out, styles.Render(styles.ErrorStyle, "FAILED"))
		fmt.Fprintf(out, "  %s\n", msg)
		allOK = false
	}
	skipped := func(label, hint string) {
		fmt.Fprintln(out, styles.MutedMsg(label))
		if hint != "" {
			fmt.Fprintf(out, "  %s\n", hint)
		}
	}

	// Config file
	fmt.Fprint(out, "Checking config file... ")
	if _, err := os.Stat(util.ConfigPath()); err == nil {
		ok(fmt.Sprintf(" (%s)", util.ConfigPath()))
	} else {
		skipped("DEFAULTS", "No config file yet; 'roster config' creates one")
	}

	// API
	fmt.Fprint(out, "Checking API URL... ")
	if e.apiURL == "" {
		failed("Run 'roster config api.url https://school.example.cd'")
	} else {
		ok(fmt.Sprintf(" (%s)", e.apiURL))
	}

	fmt.Fprint(out, "Checking session... ")
	if !e.session.Valid() {
		skipped("NOT LOGGED IN", "Run 'roster login'")
	} else if e.apiURL == "" {
		skipped("SKIPPED", "")
	} else {
		client, err := e.client(true)
		if err != nil {
			failed(err.Error())
		} else {
			ctx, cancel := context.WithTimeout(commandContext(cmd), 10*time.Second)
			me, err := client.Me(ctx)
			cancel()
			if err != nil {
				failed(e.apiError(err).Error())
			} else {
				ok(fmt.Sprintf(" (%s)", me.Username))
			}
		}
	}

	// Query database
	fmt.Fprint(out, "Checking database connection... ")
	if e.cfg.Database.URL == "" {
		skipped("NOT CONFIGURED", "Only needed for 'roster query'")
	} else {
		ctx, cancel := context.WithTimeout(commandContext(cmd), 10*time.Second)
		conn, err := db.Connect(ctx, e.cfg.Database.URL, db.ConnectOptions{ReadOnly: true})
		cancel()
		if err != nil {
			failed(err.Error())
		} else {
			conn.Close()
			ok(fmt.Sprintf(" (%s)", db.Redacted(e.cfg.Database.URL)))
		}
	}

	fmt.Fprintln(out)
	if allOK {
		fmt.Fprintln(out, styles.SuccessMsg("All checks passed!"))
	} else {
		fmt.Fprintln(out, styles.WarningMsg("Some issues were found. See above for details."))
	}

	return nil
}
