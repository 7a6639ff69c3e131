// Package cmd wires the command line interface: serve (default),
// config validation and version reporting.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ewahlberg/pressgang/cmd/configcmd"
	"github.com/ewahlberg/pressgang/cmd/serve"
	"github.com/ewahlberg/pressgang/cmd/version"
	"github.com/ewahlberg/pressgang/internal/buildinfo"
	"github.com/ewahlberg/pressgang/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pressgang",
		Short: "Pressgang blog frontend",
		Long:  "Pressgang serves a weblog from a headless CMS backend: public pages, feeds and an admin surface.",
		// Running without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.Run(cmd.Context(), settings)
		},
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		serve.Command(settings),
		configcmd.Command(settings),
		version.Command(build),
	)

	return rootCmd
}

// setupFlags defines global flags, letting the command line override the
// config file through viper.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.WebServer.Port, "port", "p", viper.GetString("webserver.port"), "Port to listen on")
	rootCmd.PersistentFlags().StringVar(&settings.Backend.BaseURL, "backend", viper.GetString("backend.baseurl"), "Base URL of the CMS backend API")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
