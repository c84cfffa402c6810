// Command server runs the Dashboardly API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/config"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loader reads the configuration named by the --config flag.
type loader func() (*config.Config, error)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dashboardly",
		Short:         "Dashboardly property management server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("DASHBOARDLY_CONFIG"), "path to a TOML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Setup(cfg.LogLevel)
		return cfg, nil
	}

	root.AddCommand(
		serveCmd(load),
		migrateCmd(load),
		ratesCmd(load),
		storageCmd(load),
		jobsCmd(load),
	)
	return root
}
