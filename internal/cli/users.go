package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/ui"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/users"
	"github.com/masomo/roster/internal/util"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Browse and manage user accounts",
		Long: `Browse and manage masomo user accounts.

Without a subcommand this opens the users table. In the table:
  /        search by username, email or name
  s        sort by the focused column (h/l or ←/→ to move)
  [ ]      previous / next page
  enter    show details
  a e d    add, edit, delete (delete asks for confirmation)`,
		Args: cobra.NoArgs,
		RunE: runUsersList,
	}
	addDisplayFlags(cmd)

	cmd.AddCommand(
		newUsersListCmd(),
		newUsersAddCmd(),
		newUsersEditCmd(),
		newUsersDeleteCmd(),
	)

	return cmd
}

func newUsersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users in a searchable table",
		Long: `List users in a searchable, sortable, paged table.

Examples:
  roster users list
  roster users list --search kasongo
  roster users list --sort last_login --desc --no-pager
  roster users list --json > users.json`,
		Args: cobra.NoArgs,
		RunE: runUsersList,
	}
	addDisplayFlags(cmd)
	return cmd
}

func runUsersList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(true)
	if err != nil {
		return err
	}

	list, err := fetchUsers(cmd, e, client)
	if err != nil {
		return err
	}

	vopts := viewOptions(e.cfg, nil)
	screen := users.NewScreen(commandContext(cmd), client, list, users.Options{
		PageSize:    vopts.PageSize,
		WindowSize:  vopts.WindowSize,
		SearchDelay: vopts.SearchDelay,
		Logger:      e.log,
	})
	if err := applyViewFlags(cmd, screen.View()); err != nil {
		return err
	}

	return display("Users", screen.View(), displayOptions(cmd), screen.Display)
}

func fetchUsers(cmd *cobra.Command, e *env, client *api.Client) ([]api.User, error) {
	ctx, cancel := e.withTimeout(cmd)
	defer cancel()

	var list []api.User
	err := spin("Loading users", func() error {
		var err error
		list, err = client.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, e.apiError(err)
	}
	return list, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// users add
// ═══════════════════════════════════════════════════════════════════════════

func newUsersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		Long: `Create a user account.

Roles are comma separated; a bare role such as "teacher" means "teacher:".
The password is prompted for (twice) unless ROSTER_NEW_PASSWORD is set.

Examples:
  roster users add --name "Bob Kasongo" --username bobkas --roles teacher
  roster users add --name "Carol" --email carol@school.cd --roles student`,
		Args: cobra.NoArgs,
		RunE: runUsersAdd,
	}

	cmd.Flags().String("name", "", "Full name (required)")
	cmd.Flags().String("username", "", "Username (at least 6 letters, digits or _)")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("roles", "", "Comma separated roles, e.g. teacher,admin:principal")

	return cmd
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(true)
	if err != nil {
		return err
	}

	values := map[string]string{}
	for _, key := range []string{users.KeyName, users.KeyUsername, users.KeyEmail, users.KeyRoles} {
		values[key], _ = cmd.Flags().GetString(key)
	}
	if err := readNewPassword(cmd, values); err != nil {
		return err
	}

	nu := users.NewUserFromValues(values)
	if err := validate(&nu); err != nil {
		return err
	}

	ctx, cancel := e.withTimeout(cmd)
	defer cancel()

	var created *api.User
	err = spin("Creating user", func() error {
		var err error
		created, err = client.Register(ctx, nu)
		return err
	})
	if err != nil {
		return e.apiError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Created %s (id %s)", styles.Username(created.Username), created.ID)))
	return nil
}

func readNewPassword(cmd *cobra.Command, values map[string]string) error {
	if pw := os.Getenv("ROSTER_NEW_PASSWORD"); pw != "" {
		values["password"] = pw
		values["password_confirm"] = pw
		return nil
	}
	in := bufio.NewReader(cmd.InOrStdin())
	pw, err := promptPassword(cmd, in, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(cmd, in, "Confirm password: ")
	if err != nil {
		return err
	}
	values["password"] = pw
	values["password_confirm"] = confirm
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// users edit
// ═══════════════════════════════════════════════════════════════════════════

func newUsersEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <username|email|id>",
		Short: "Change a user account",
		Long: `Change a user account. Only the flags you pass are changed.

The change is shown as a diff before it is saved. Pass --yes to skip the
question (required when not on a terminal).

Examples:
  roster users edit bobkas --email bob@school.cd
  roster users edit bobkas --active no --yes
  roster users edit 42 --roles teacher,admin:principal`,
		Args: cobra.ExactArgs(1),
		RunE: runUsersEdit,
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("username", "", "Username")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("roles", "", "Comma separated roles (replaces the current roles)")
	cmd.Flags().String("active", "", "yes or no")
	cmd.Flags().Bool("password", false, "Prompt for a new password")
	cmd.Flags().BoolP("yes", "y", false, "Save without asking")

	return cmd
}

func runUsersEdit(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(true)
	if err != nil {
		return err
	}

	list, err := fetchUsers(cmd, e, client)
	if err != nil {
		return err
	}
	u, ok := users.Find(list, args[0])
	if !ok {
		return util.UserNotFoundError(args[0])
	}

	values := users.FormValues(u)
	for _, key := range []string{users.KeyName, users.KeyUsername, users.KeyEmail, users.KeyRoles, users.KeyActive} {
		if cmd.Flags().Changed(key) {
			values[key], _ = cmd.Flags().GetString(key)
		}
	}
	if newPassword, _ := cmd.Flags().GetBool("password"); newPassword {
		if err := readNewPassword(cmd, values); err != nil {
			return err
		}
	}

	uu, err := users.UpdateFromValues(values)
	if err == nil {
		err = validate(&uu)
	}
	if err != nil {
		return asInputError(err)
	}

	out := cmd.OutOrStdout()
	diff := users.Diff(api.UpdateFrom(u), uu)
	if diff == "" {
		fmt.Fprintln(out, styles.MutedMsg("No changes"))
		return nil
	}
	fmt.Fprintln(out, styles.SectionHeader("Changes to "+u.Username))
	fmt.Fprintln(out, diff)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !isTTY() {
			return util.NewError("Refusing to save without confirmation").
				WithMessage("Not running on a terminal").
				WithSuggestion(fmt.Sprintf("roster users edit %s ... --yes", args[0])).
				Wrap(util.ErrNotInteractive)
		}
		ok, err := confirm(cmd, "Save these changes?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, styles.MutedMsg("Cancelled"))
			return nil
		}
	}

	ctx, cancel := e.withTimeout(cmd)
	defer cancel()

	var updated *api.User
	err = spin("Saving", func() error {
		var err error
		updated, err = client.UpdateUser(ctx, u.ID, uu)
		return err
	})
	if err != nil {
		if api.IsNotFound(err) {
			return util.UserNotFoundError(args[0])
		}
		return e.apiError(err)
	}

	fmt.Fprintln(out, styles.SuccessMsg("Saved "+styles.Username(updated.Username)))
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// users delete
// ═══════════════════════════════════════════════════════════════════════════

func newUsersDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <username|email|id>...",
		Aliases: []string{"rm"},
		Short:   "Delete user accounts",
		Long: `Delete one or more user accounts.

This cannot be undone. Requires --force to confirm.

Examples:
  roster users delete bobkas --force
  roster users delete 17 18 19 --force`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUsersDelete,
	}

	cmd.Flags().BoolP("force", "f", false, "Confirm deletion")

	return cmd
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	if !force {
		return util.NewError("Deletion requires --force").
			WithMessage(fmt.Sprintf("This will permanently delete %d account(s): %s", len(args), strings.Join(args, ", "))).
			WithSuggestion(fmt.Sprintf("roster users delete %s --force", strings.Join(args, " ")))
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(true)
	if err != nil {
		return err
	}

	list, err := fetchUsers(cmd, e, client)
	if err != nil {
		return err
	}

	targets := make([]api.User, 0, len(args))
	for _, ref := range args {
		u, ok := users.Find(list, ref)
		if !ok {
			return util.UserNotFoundError(ref)
		}
		targets = append(targets, u)
	}

	out := cmd.OutOrStdout()
	var progress *ui.Progress
	if len(targets) > 1 {
		progress = ui.NewProgress("Deleting", len(targets))
	}

	var failed []string
	for _, u := range targets {
		ctx, cancel := e.withTimeout(cmd)
		err := client.DeleteUser(ctx, u.ID)
		cancel()
		if progress != nil {
			progress.Increment()
		}
		if err != nil {
			if !sessionOrNetwork(err) {
				failed = append(failed, fmt.Sprintf("%s: %s", u.Username, err))
				continue
			}
			// the rest would fail the same way
			if progress != nil {
				progress.Done()
			}
			return e.apiError(err)
		}
		if progress == nil {
			fmt.Fprintln(out, styles.SuccessMsg("Deleted "+styles.Username(u.Username)))
		}
	}
	if progress != nil {
		progress.Done()
		fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Deleted %d of %d accounts", len(targets)-len(failed), len(targets))))
	}

	if len(failed) > 0 {
		return util.NewError(fmt.Sprintf("%d deletion(s) failed", len(failed))).
			WithCauses(failed...)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════════════════════

func validate(v any) error {
	return asInputError(users.Validate(v))
}

func asInputError(err error) error {
	var verr users.ValidationError
	if errors.As(err, &verr) {
		return verr.AsRosterError()
	}
	return err
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := prompt(cmd, bufio.NewReader(cmd.InOrStdin()), question+" [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
