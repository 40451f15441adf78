package main

import (
	"fmt"

	"jobmatch/internal/config"
	"jobmatch/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "jobmatch"

type rootOptions struct {
	configFile string
	debug      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "jobmatch scores job postings against candidate profiles and serves recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml); environment uses the JOBMATCH_ prefix")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newEnsureDefaultCmd(opts),
		newMigrateCmd(opts),
		newSweepCmd(opts),
		newSeedCmd(opts),
		newIssueTokenCmd(opts),
	)
	return cmd
}

// load reads the configuration and builds the logger. Flags override the
// log section of the config.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	if o.json {
		cfg.Log.JSON = true
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log.Named(appName), nil
}
