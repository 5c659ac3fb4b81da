package app

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/config"
)

var (
	envFile  string
	logLevel string
	settings *config.Settings

	// RootCmd is the root command for salesrank
	RootCmd = &cobra.Command{
		Use:   "salesrank",
		Short: "Rank Amazon search results by predicted sales",
		Long: `salesrank cleans raw Amazon search results, encodes them into model
features and ranks the products by predicted review count. Estimated sales
are derived from predicted reviews at a fixed conversion rate of 20.

Artifacts (model and brand vocabulary) are read from MODEL_PATH and
VOCAB_PATH, or a YAML pipeline from PIPELINE_CONFIG.

Examples:
  # Predict from a saved search result
  salesrank predict results.json --category headphones --brand JBL --model 560BT

  # Rank an already cleaned table
  salesrank rank-table cleaned_products_JBL_560BT.csv

  # Process every file in a directory concurrently
  salesrank batch data/*.json

  # Serve predictions over HTTP
  salesrank serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(logLevel)
			if envFile != "" {
				settings = config.LoadSettings(envFile)
			} else {
				settings = config.LoadSettings()
			}
			if !cmd.Flags().Changed("log-level") && settings.LogLevel != "" {
				setupLogging(settings.LogLevel)
			}
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(predictCmd)
	RootCmd.AddCommand(rankTableCmd)
	RootCmd.AddCommand(batchCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(serveCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// setupLogging 配置全局 zerolog：输出到 stderr，未知级别回退到 info。
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}
