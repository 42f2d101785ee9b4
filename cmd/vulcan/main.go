package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vulcanent/vulcanweb/internal/config"
	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/version"
)

var logger = logging.NewNopLogger()

// setup loads the configuration and initializes the global logger from it
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logging.InitLogger(cfg.LogConfig()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.GetGlobalLogger()
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "vulcan",
	Short: "Vulcan Enterprises website",
	Long: `Serves the Vulcan Enterprises marketing site and forwards its contact
and newsletter forms to the sales inbox by email.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vulcan version: %s\n", version.Info())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mailCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
