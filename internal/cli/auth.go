package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/config"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the masomo API",
		Long: `Log in with a username (or email) and password.

The access token is stored in the session file, readable only by you.
Without --username you are prompted. The password is read without echo
on a terminal, or taken from ROSTER_PASSWORD when set.

Examples:
  roster login
  roster login --username alicem
  roster login --api-url https://school.example.cd`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringP("username", "u", "", "Username or email")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(false)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	username, _ := cmd.Flags().GetString("username")
	if username == "" {
		username, err = prompt(cmd, in, "Username: ")
		if err != nil {
			return err
		}
	}
	password := os.Getenv("ROSTER_PASSWORD")
	if password == "" {
		password, err = promptPassword(cmd, in, "Password: ")
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return util.InvalidInputError(map[string]string{
			"username": "this field is required",
			"password": "this field is required",
		})
	}

	ctx, cancel := e.withTimeout(cmd)
	defer cancel()

	var result *api.LoginResult
	err = spin("Logging in", func() error {
		result, err = client.Login(ctx, api.Credentials{Username: strings.TrimSpace(username), Password: password})
		return err
	})
	if err != nil {
		if api.IsUnauthorized(err) {
			return util.NewError("Login failed").
				WithMessage(err.Error()).
				WithSuggestion("Check the username and password and try again")
		}
		return e.apiError(err)
	}

	session := &config.Session{
		Token:    result.AccessToken,
		Username: strings.TrimSpace(username),
		APIURL:   client.BaseURL(),
		LoggedIn: time.Now().UTC(),
	}
	if result.User != nil && result.User.Username != "" {
		session.Username = result.User.Username
	}
	if err := session.Save(); err != nil {
		return util.NewError("Failed to save session").
			WithContext(util.SessionPath()).
			Wrap(err)
	}
	e.log.Debug("session saved", zap.String("path", util.SessionPath()))

	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg("Logged in as "+styles.Username(session.Username)))
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearSession(); err != nil {
				return util.NewError("Failed to remove session").
					WithContext(util.SessionPath()).
					Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg("Logged out"))
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := e.client(true)
	if err != nil {
		return err
	}

	ctx, cancel := e.withTimeout(cmd)
	defer cancel()

	me, err := client.Me(ctx)
	if err != nil {
		return e.apiError(err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, me)
	}

	fmt.Fprintln(out, styles.Username(me.Username))
	if me.Name != "" {
		fmt.Fprintf(out, "  %s %s\n", styles.MutedMsg("name: "), me.Name)
	}
	if me.Email != "" {
		fmt.Fprintf(out, "  %s %s\n", styles.MutedMsg("email:"), me.Email)
	}
	roles := make([]string, 0, len(me.AllRoles()))
	for _, r := range me.AllRoles() {
		roles = append(roles, styles.Role(r))
	}
	if len(roles) > 0 {
		fmt.Fprintf(out, "  %s %s\n", styles.MutedMsg("roles:"), strings.Join(roles, ", "))
	}
	fmt.Fprintf(out, "  %s %s\n", styles.MutedMsg("state:"), styles.Active(me.Active()))
	fmt.Fprintf(out, "  %s %s\n", styles.MutedMsg("api:  "), client.BaseURL())
	return nil
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(fd) {
		return prompt(cmd, in, label)
	}
	fmt.Fprint(cmd.ErrOrStderr(), label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
