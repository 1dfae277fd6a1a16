// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/area/postgres"
	"github.com/areaguard/areaguard/internal/config"
	"github.com/areaguard/areaguard/internal/preset"
	"github.com/areaguard/areaguard/internal/store"
)

// NewRegionsCmd creates the regions subcommand and its verbs.
func NewRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Inspect stored regions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [pattern]",
		Short: "List regions, optionally filtered by a name glob",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRegionsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one region with its overrides",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegionsShow,
	})

	return cmd
}

// withRepositories loads config, connects, and hands the repositories to fn.
func withRepositories(cmd *cobra.Command, fn func(ctx context.Context, regions *postgres.RegionRepository, overrides *postgres.OverrideRepository) error) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, postgres.NewRegionRepository(pool), postgres.NewOverrideRepository(pool))
}

func runRegionsList(cmd *cobra.Command, args []string) error {
	return withRepositories(cmd, func(ctx context.Context, regions *postgres.RegionRepository, _ *postgres.OverrideRepository) error {
		all, err := regions.List(ctx)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			g, err := glob.Compile(strings.ToLower(args[0]))
			if err != nil {
				return oops.Code("INVALID_PATTERN").With("pattern", args[0]).Wrap(err)
			}
			filtered := all[:0]
			for _, r := range all {
				if g.Match(strings.ToLower(r.Name)) {
					filtered = append(filtered, r)
				}
			}
			all = filtered
		}

		presets := preset.Builtins()
		var b strings.Builder
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEXTENT\tSIZE\tDEFAULT")
		for _, r := range all {
			size := r.Extent.Size()
			fmt.Fprintf(w, "%d\t%s\t%s\t%dx%dx%d\t%s\n",
				r.ID, r.Name, r.Extent, size.X, size.Y, size.Z,
				presetLabel(presets, r.Default))
		}
		w.Flush()
		cmd.Print(b.String())
		return nil
	})
}

func runRegionsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return oops.Code("INVALID_ARGUMENT").With("argument", args[0]).Wrap(err)
	}

	return withRepositories(cmd, func(ctx context.Context, regions *postgres.RegionRepository, overrides *postgres.OverrideRepository) error {
		all, err := regions.List(ctx)
		if err != nil {
			return err
		}
		var region *area.Region
		for _, r := range all {
			if r.ID == area.RegionID(id) {
				region = r
				break
			}
		}
		if region == nil {
			return oops.Code("REGION_NOT_FOUND").With("region_id", id).Wrap(area.ErrNotFound)
		}

		actorRows, err := overrides.ActorOverrides(ctx, region.ID)
		if err != nil {
			return err
		}
		groupRows, err := overrides.GroupOverrides(ctx, region.ID)
		if err != nil {
			return err
		}

		presets := preset.Builtins()
		cmd.Printf("Region %d: %s\n", region.ID, region.Name)
		cmd.Printf("Extent: %s\n", region.Extent)
		cmd.Printf("Default: %s\n", presetLabel(presets, region.Default))

		cmd.Printf("Actor overrides: %d\n", len(actorRows))
		for _, actorID := range sortedKeys(actorRows) {
			cmd.Printf("  actor %d: %s\n", actorID, presetLabel(presets, actorRows[area.ActorID(actorID)]))
		}
		cmd.Printf("Group overrides: %d\n", len(groupRows))
		for _, groupID := range sortedKeys(groupRows) {
			cmd.Printf("  group %d: %s\n", groupID, presetLabel(presets, groupRows[area.GroupID(groupID)]))
		}
		return nil
	})
}

// presetLabel shows a bitset by its preset name when one matches, with the
// raw capability list for custom sets.
func presetLabel(presets *preset.Set, p area.Permission) string {
	name := presets.NameFor(p)
	if name == preset.CustomName {
		return p.String()
	}
	return name
}

func sortedKeys[K ~int64](m map[K]area.Permission) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, int64(k))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
