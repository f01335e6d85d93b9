package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Browse and manage masomo school accounts from the terminal",
		Long: `roster is a terminal client for the masomo student-management API.

It lists users in a searchable, sortable, paged table and lets admins add,
edit and delete accounts. The same table can browse the result of a SQL
query or a JSON file.

Log in first:
  roster config api.url https://school.example.cd
  roster login`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log API requests and other details to stderr")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("api-url", "", "masomo API base URL (overrides config and session)")

	// Version flag template to show more info
	cmd.SetVersionTemplate(fmt.Sprintf("roster version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	// Set up pre-run to handle global flags
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}
	}

	cmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newUsersCmd(),
		newQueryCmd(),
		newViewCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newCompletionCmd(),
	)

	return cmd
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		// Check if it's a structured RosterError
		var rosterErr *util.RosterError
		if errors.As(err, &rosterErr) {
			fmt.Fprintln(os.Stderr, rosterErr.Format())
		} else {
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roster.

To load completions:

Bash:
  $ source <(roster completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ roster completion bash > /etc/bash_completion.d/roster
  # macOS:
  $ roster completion bash > $(brew --prefix)/etc/bash_completion.d/roster

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ roster completion zsh > "${fpath[1]}/_roster"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ roster completion fish | source

  # To load completions for each session, execute once:
  $ roster completion fish > ~/.config/fish/completions/roster.fish

PowerShell:
  PS> roster completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> roster completion powershell > roster.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "roster version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
