package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// AddGlobalFlags adds the flags every controller reads to the root command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().StringP("work-dir", "w", "",
		"Work directory (default: ~/.phpmgr, or $"+entities.WorkDirEnv+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
}

// loadSettings reads the config file named by --config, or the first one
// found in the default locations, and applies --work-dir on top of it.
// Without any config file the defaults are used.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	workDir, _ := cmd.Flags().GetString("work-dir")

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		} else {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, err
	}
	if workDir != "" {
		if dirErr := settings.SetWorkDir(workDir); dirErr != nil {
			return nil, dirErr
		}
	}
	logger.Debugf("Using work dir: %s", settings.WorkDir)
	return settings, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
