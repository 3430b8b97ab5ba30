package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/registrar/internal/config"
	"github.com/zjrosen/registrar/internal/flags"
)

func (a *app) configCommands() []*cobra.Command {
	flagCmd := &cobra.Command{
		Use:   "config:flag [NAME on|off]",
		Short: "Show or change feature flags",
		Long: `Without arguments, list the known feature flags and their state.
With NAME and on/off, write the flag to the config file.

Examples:
  registrar config:flag
  registrar config:flag autosave on`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range flags.Known() {
					state := "off"
					if a.flags.Enabled(name) {
						state = "on"
					}
					if _, err := fmt.Fprintf(out, "%-15s %-3s  %s\n", name, state, flags.Describe(name)); err != nil {
						return err
					}
				}
				return nil
			}

			name := args[0]
			if !flags.IsKnown(name) {
				return fmt.Errorf("unknown flag %q (known: %s)", name, strings.Join(flags.Known(), ", "))
			}
			var enabled bool
			switch strings.ToLower(args[1]) {
			case "on", "true", "yes":
				enabled = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("flag value must be on or off, got %q", args[1])
			}

			if err := config.SaveFlag(a.cfgPath, name, enabled); err != nil {
				return fmt.Errorf("saving flag: %w", err)
			}
			_, err := fmt.Fprintf(out, "Set %s=%t in %s\n", name, enabled, a.cfgPath)
			return err
		},
	}

	dataFileCmd := &cobra.Command{
		Use:   "config:data-file PATH",
		Short: "Set the snapshot file in the config file",
		Long: `Write data_file to the config file. The extension of PATH picks the
backend when storage is auto (.json, .yaml/.yml, .db/.sqlite).

Examples:
  registrar config:data-file ~/registrar/registry.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveDataFile(a.cfgPath, args[0]); err != nil {
				return fmt.Errorf("saving data_file: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Set data_file=%s in %s\n", args[0], a.cfgPath)
			return err
		},
	}

	return []*cobra.Command{flagCmd, dataFileCmd}
}
