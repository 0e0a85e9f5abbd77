package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regwatch/regwatch-mcp/internal/config"
	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/pkg/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "regwatch",
		Short:         "Structured US AI and privacy law data, served as agent tools",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			logCfg := logger.DefaultConfig()
			logCfg.Level = logger.ParseLevel(cfg.LogLevel)
			logCfg.Format = cfg.LogFormat
			logger.Init(logCfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to regwatch.yaml")

	rootCmd.AddCommand(
		newServeCmd(),
		newServeHTTPCmd(),
		newSeedCmd(),
		newValidateCmd(),
		newJurisdictionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
