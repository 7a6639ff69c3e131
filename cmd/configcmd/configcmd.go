// Package configcmd inspects and validates the loaded configuration.
package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ewahlberg/pressgang/internal/conf"
)

// Command returns the config sub-command with its validate action.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.ValidateSettings(settings); err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (%s)\n", viper.ConfigFileUsed())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "locate",
		Short: "Print the path of the configuration file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := conf.FindConfigFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective settings back to the configuration file",
		Long:  "Writes the merged settings, including flag and environment overrides, to the configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.SaveSettings(settings); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", viper.ConfigFileUsed())
			return nil
		},
	})

	return cmd
}
