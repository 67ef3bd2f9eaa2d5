package main

import (
	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ligue-crm",
		Short:         "Lead data layer for the Ligue CRM app.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if cmd.Flags().Changed("loglevel") {
				level = opts.logLevel
			}
			if err := logger.SetLogLevel(level); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.ligue-crm.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	cmd.AddCommand(
		newServeCmd(opts),
		newLeadsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}
