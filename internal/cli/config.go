package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masomo/roster/internal/config"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get and set roster options",
		Long: `Get and set roster options, stored in ` + util.ConfigPath() + `.

Available keys:
` + config.GenerateHelpText() + `
Examples:
  roster config api.url                            # Get value
  roster config api.url https://school.example.cd  # Set value
  roster config table.page_size 20                 # Set value
  roster config --list                             # List all config`,
		Args: cobra.MaximumNArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ListKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	out := cmd.OutOrStdout()

	// The file as written; env overrides must not be saved back
	cfg, err := config.LoadFile()
	if err != nil {
		return util.NewError("Failed to load config").
			WithContext(util.ConfigPath()).
			Wrap(err)
	}

	if listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	}

	if len(args) == 0 {
		return util.MissingArgumentError("key", "roster config api.url")
	}

	key := args[0]

	// Get or set?
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return unknownKeyError(key)
		}
		fmt.Fprintln(out, value)
		return nil
	}

	if err := cfg.SetValue(key, args[1]); err != nil {
		if _, ok := cfg.GetValue(key); !ok {
			return unknownKeyError(key)
		}
		return util.NewError("Invalid value for "+key).
			WithMessage(err.Error())
	}

	if err := cfg.Save(); err != nil {
		return util.NewError("Failed to save config").
			WithContext(util.ConfigPath()).
			Wrap(err)
	}

	value, _ := cfg.GetValue(key)
	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

func unknownKeyError(key string) error {
	return util.NewError("Unknown config key: "+key).
		WithSuggestion("roster config --list")
}
