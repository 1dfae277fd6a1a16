// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the AreaGuard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "areaguard",
		Short: "AreaGuard - protected area permissions for multiplayer worlds",
		Long: `AreaGuard manages named protected regions in a shared 3D world:
who may enter them, leave them, and change anything inside them. The serve
command runs the permission engine standalone for inspection and maintenance;
migrate and status manage the PostgreSQL backing store.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewRegionsCmd())

	return cmd
}
