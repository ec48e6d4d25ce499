// Package commands implements the CLI commands for galleryfetch.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/galleryfetch/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "galleryfetch",
	Short: "Download image galleries matching a search phrase",
	Long: `Galleryfetch searches Imgur for a phrase and downloads the media of the
top galleries into <phrase>_galleries/galleryNNN/imageNNN.ext.

Gallery pages are rendered in a headless Chrome or Chromium, which must
be installed.

Examples:
  # Prompt for the phrase and the number of galleries
  galleryfetch fetch

  # Download three galleries of red pandas
  galleryfetch fetch red panda -n 3

  # Keep a report of what was written
  galleryfetch fetch cats -n 5 --report cats.yaml --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.galleryfetch.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".galleryfetch")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	config.BindEnv(viper.GetViper())

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
