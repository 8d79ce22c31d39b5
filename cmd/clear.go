package cmd

import (
	"log"

	"github.com/seeker-agent/seeker/internal/ledger"
	"github.com/seeker-agent/seeker/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the application memory",
	Run: func(_ *cobra.Command, _ []string) {
		clearMemory()
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func clearMemory() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}
	config.normalize()

	memory := ledger.Open(ledger.NewFileStore(config.Ledger.File), logger)
	count := memory.Len()

	if err := memory.Clear(); err != nil {
		logger.Fatal("clearing application memory", zap.Error(err))
	}

	logger.Info("application memory cleared",
		zap.Int("removed", count),
		zap.String("file", config.Ledger.File),
	)
}
