// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/areaguard/areaguard/internal/area/postgres"
	"github.com/areaguard/areaguard/internal/config"
	"github.com/areaguard/areaguard/internal/store"
)

// StoreStatus describes the backing store as seen by the status command.
type StoreStatus struct {
	Reachable     bool   `json:"reachable"`
	SchemaVersion uint   `json:"schema_version"`
	Dirty         bool   `json:"dirty,omitempty"`
	Regions       int    `json:"regions"`
	Error         string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the region store",
		Long:  `Check database reachability, the schema version, and the number of stored regions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	status := queryStoreStatus(ctx, appCfg.DatabaseURL)

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return oops.Wrapf(err, "marshaling status")
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(formatStatus(status))
	return nil
}

func queryStoreStatus(ctx context.Context, databaseURL string) StoreStatus {
	var status StoreStatus

	pool, err := store.NewPool(ctx, databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer pool.Close()
	status.Reachable = true

	if m, err := store.NewMigrator(databaseURL); err == nil {
		version, dirty, versionErr := m.Version()
		if versionErr == nil {
			status.SchemaVersion = version
			status.Dirty = dirty
		}
		_ = m.Close()
	}

	regions, err := postgres.NewRegionRepository(pool).List(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Regions = len(regions)
	return status
}

func formatStatus(status StoreStatus) string {
	if !status.Reachable {
		return fmt.Sprintf("Database: unreachable (%s)", status.Error)
	}
	out := fmt.Sprintf("Database: ok\nSchema version: %d", status.SchemaVersion)
	if status.Dirty {
		out += " (dirty)"
	}
	out += fmt.Sprintf("\nRegions: %d", status.Regions)
	if status.Error != "" {
		out += fmt.Sprintf("\nError: %s", status.Error)
	}
	return out
}
