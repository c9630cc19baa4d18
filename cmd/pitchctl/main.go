// cmd/pitchctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/pitch"
)

var (
	zapLog *zap.Logger
	links  = pitch.DefaultLinks()
)

var rootCmd = &cobra.Command{
	Use:   "pitchctl",
	Short: "Offline tools for the pitch intake",
	Long:  "Scores questionnaires without the workflow engine and checks the activity registry against the registered workers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		zapLog = logger.New(level, "console")

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			return nil
		}
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		links = cfg.Pitch.Links()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zapLog.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file providing the offer links (defaults are used when empty)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")
	rootCmd.AddCommand(scoreCmd, registryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
