package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kanekosora-114/Tune-into-English/config"
	"github.com/kanekosora-114/Tune-into-English/internal/app"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/server"
)

var rootCmd = &cobra.Command{
	Use:   "tune-into-english",
	Short: "Lyrics lookup and line-aligned lyrics translation.",
	Long: `Tune into English resolves song lyrics from LRCLIB, tolerating messy
metadata, and translates them while keeping line breaks and LRC time tags.
Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := app.InitLogger(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	return server.Start(cfg)
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
