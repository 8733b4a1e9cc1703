// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/coursegate/internal/config"
	"github.com/holomush/coursegate/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the coursegate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursegate",
		Short: "coursegate - course platform API with role-separated auth",
		Long: `coursegate serves the course platform API: admin and user signup and
signin, per-role bearer tokens, and the gated course routes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig reads configuration for cmd from defaults, the config file,
// the environment and any flags set on the command line. Without --config
// the file is $XDG_CONFIG_HOME/coursegate/config.yaml when it exists.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		var err error
		if path, err = xdg.DefaultConfigFile(); err != nil {
			return nil, err
		}
	}
	return config.NewLoader(
		config.WithConfigFile(path),
		config.WithFlags(cmd.Flags()),
	).Load()
}
