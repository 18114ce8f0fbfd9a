package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"drive-share/infrastructure/config"
	"drive-share/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "drive-share",
	Short: "Upload files to a product's Google Drive and share them by email",
	Long: `drive-share distributes files through the Google Drive of a product:

  - Remove files older than the product's retention window
  - Upload into the product's folder, creating it on first use
  - Give the recipient edit access to the file
  - Email the recipient a link using the product's template

Per-product settings (service account key, folder, retention, email template)
live in the property file named by properties_file in the config.

Example:
  drive-share upload --product acme --file report.xlsx --to jane`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
		logger = logging.New("info", "text", os.Stderr)
		return
	}

	logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

func requireConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded; run 'drive-share setup' or pass --config")
	}
	return cfg, nil
}
