package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-geoidentify/internal/config"
)

var version = "0.1.0"

type globalFlags struct {
	configFile string
	envFiles   []string
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "geoidentify",
		Short: "Guess a country from observed features",
		Long: `GeoIdentify asks which features you observed (coastline, climate,
language, ...) and ranks the countries that best match them.

It can run the prediction API, serve the HTML form, or ask in the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (defaults to $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", []string{".env"}, "dotenv files to read")

	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(webCmd(flags))
	rootCmd.AddCommand(askCmd(flags))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (f *globalFlags) load() (*config.Config, error) {
	return config.Load(config.LoadOptions{File: f.configFile, EnvFiles: f.envFiles})
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "geoidentify: ", log.LstdFlags)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "geoidentify %s\n", version)
		},
	}
}
