// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package engine implements the area permission engine: the in-memory region
// store, the permission resolver, actor session upkeep, and the region
// mutation API. It is the single writer for all permission state.
//
// Concurrency model: the host delivers boundary and mutation events from one
// callback goroutine. The engine nevertheless guards every public entry
// point with one mutex so that a multi-threaded host cannot corrupt state;
// with a serialized host the lock is uncontended.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/session"
)

// ActorInfo is the host's view of a connected actor.
type ActorInfo struct {
	ID       area.ActorID
	Name     string
	Group    string // host permission-group name, empty if none
	Position area.Vec3
	IsAdmin  bool
}

// Host is the world-engine collaborator. It owns actors and geometry; the
// engine only asks it to register region extents and to report actor
// positions for mutation-time containment scans.
type Host interface {
	// RegisterExtent registers region geometry with the host and returns
	// an opaque spatial handle.
	RegisterExtent(id area.RegionID, extent area.Extent) (int64, error)

	// UnregisterExtent removes a previous registration.
	UnregisterExtent(handle int64)

	// PermissionGroups returns the host's permission-group names.
	PermissionGroups() []string

	// ConnectedActors returns all currently connected actors.
	ConnectedActors() []ActorInfo

	// ActorPosition returns an actor's current position, false if the
	// actor is not connected.
	ActorPosition(id area.ActorID) (area.Vec3, bool)
}

// NullHost is a Host with no spatial backend. Used when the engine runs
// standalone, outside a live world process, for inspection and maintenance.
type NullHost struct{}

// RegisterExtent always succeeds with a zero handle.
func (NullHost) RegisterExtent(_ area.RegionID, _ area.Extent) (int64, error) { return 0, nil }

// UnregisterExtent does nothing.
func (NullHost) UnregisterExtent(_ int64) {}

// PermissionGroups always returns nil.
func (NullHost) PermissionGroups() []string { return nil }

// ConnectedActors always returns nil.
func (NullHost) ConnectedActors() []ActorInfo { return nil }

// ActorPosition always reports not connected.
func (NullHost) ActorPosition(_ area.ActorID) (area.Vec3, bool) { return area.Vec3{}, false }

// ActorDirectory resolves actor names for actors that are not necessarily
// connected, backed by the host's player records. Results are cached by the
// engine until InvalidateActorNames is called.
type ActorDirectory interface {
	ActorNames(ctx context.Context) (map[area.ActorID]string, error)
}

// Repositories bundles the persistence contracts the engine writes through.
// Audit may be nil; audit records are then dropped.
type Repositories struct {
	Regions   area.RegionRepository
	Overrides area.OverrideRepository
	Groups    area.GroupRepository
	Audit     area.AuditRepository
}

// Config holds engine policy knobs.
type Config struct {
	// AdminBypass makes administrators transparent to all checks: every
	// resolved bitset reads as PermAll and boundary vetoes never apply.
	// Session bookkeeping still records unbypassed values so the flag can
	// be disabled mid-session.
	AdminBypass bool
}

// Engine is the permission engine. Construct with New, then feed it host
// events and mutation calls.
type Engine struct {
	mu   sync.Mutex
	cfg  Config
	log  *slog.Logger
	host Host
	repo Repositories

	regions  *regionIndex
	sessions *session.Manager

	groupIDs   map[string]area.GroupID
	groupNames map[area.GroupID]string

	directory  ActorDirectory
	actorNames map[area.ActorID]string // lazy, nil until first use
}

// New constructs the engine and performs the startup load: the host's
// permission groups are given persistent IDs, all regions are read from
// persistence with their overrides attached, and their extents are
// registered with the host. Individual unreadable regions are skipped with a
// warning so one bad row cannot prevent the whole store from loading.
func New(ctx context.Context, cfg Config, host Host, repo Repositories, directory ActorDirectory, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		cfg:        cfg,
		log:        log,
		host:       host,
		repo:       repo,
		regions:    newRegionIndex(),
		sessions:   session.NewManager(),
		groupIDs:   make(map[string]area.GroupID),
		groupNames: make(map[area.GroupID]string),
		directory:  directory,
	}
	if err := e.loadGroups(ctx); err != nil {
		return nil, err
	}
	if err := e.loadRegions(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Close unregisters all region geometry from the host. Persistence handles
// are owned by the caller.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.regions.all() {
		if r.SpatialHandle != 0 {
			e.host.UnregisterExtent(r.SpatialHandle)
			r.SpatialHandle = 0
		}
	}
}

// RegionCount returns the number of regions held in memory.
func (e *Engine) RegionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.regions.byID)
}

// SessionCount returns the number of connected actor sessions.
func (e *Engine) SessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions.Len()
}

// loadGroups merges the host's permission groups with the persisted group
// table so every group name has a stable numeric ID.
func (e *Engine) loadGroups(ctx context.Context) error {
	known, err := e.repo.Groups.All(ctx)
	if err != nil {
		return oops.With("operation", "load groups").Wrap(err)
	}
	for id, name := range known {
		e.groupIDs[name] = id
		e.groupNames[id] = name
	}
	for _, name := range e.host.PermissionGroups() {
		if _, ok := e.groupIDs[name]; ok {
			continue
		}
		id, err := e.repo.Groups.Ensure(ctx, name)
		if err != nil {
			return oops.With("operation", "ensure group").With("group", name).Wrap(err)
		}
		e.groupIDs[name] = id
		e.groupNames[id] = name
	}
	return nil
}

// loadRegions populates the in-memory indices from persistence.
func (e *Engine) loadRegions(ctx context.Context) error {
	regions, err := e.repo.Regions.List(ctx)
	if err != nil {
		return oops.With("operation", "load regions").Wrap(err)
	}
	for _, r := range regions {
		r.Extent.Normalize()
		if err := e.attachOverrides(ctx, r); err != nil {
			e.log.Warn("skipping unreadable region",
				"region_id", int64(r.ID), "name", r.Name, "error", err)
			continue
		}
		handle, err := e.host.RegisterExtent(r.ID, r.Extent)
		if err != nil {
			e.log.Warn("spatial registration failed",
				"region_id", int64(r.ID), "error", err)
		} else {
			r.SpatialHandle = handle
		}
		e.regions.insert(r)
	}
	e.log.Info("region store loaded", "regions", e.regions.len())
	return nil
}

// attachOverrides fills a region's override maps from persistence.
func (e *Engine) attachOverrides(ctx context.Context, r *area.Region) error {
	actors, err := e.repo.Overrides.ActorOverrides(ctx, r.ID)
	if err != nil {
		return err
	}
	groups, err := e.repo.Overrides.GroupOverrides(ctx, r.ID)
	if err != nil {
		return err
	}
	r.ActorOverrides = actors
	r.GroupOverrides = groups
	return nil
}

// GroupID returns the persistent ID for a host group name, zero if unknown.
func (e *Engine) GroupID(name string) area.GroupID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groupIDs[name]
}

// GroupName returns the name for a group ID, empty if unknown.
func (e *Engine) GroupName(id area.GroupID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groupNames[id]
}

// ActorName returns the display name for an actor, consulting the lazily
// loaded directory cache for actors that are not connected. Returns "" when
// the actor is unknown.
func (e *Engine) ActorName(ctx context.Context, id area.ActorID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := e.sessions.Get(id); s != nil {
		return s.Name
	}
	if e.actorNames == nil && e.directory != nil {
		names, err := e.directory.ActorNames(ctx)
		if err != nil {
			e.log.Warn("actor directory load failed", "error", err)
			return ""
		}
		e.actorNames = names
	}
	return e.actorNames[id]
}

// InvalidateActorNames drops the cached actor-name table. Called when the
// host's player list changes.
func (e *Engine) InvalidateActorNames() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actorNames = nil
}

// bypassed reports whether permission checks are transparent for this
// session's actor.
func (e *Engine) bypassed(s *session.Session) bool {
	return e.cfg.AdminBypass && s.IsAdmin()
}

// groupIDFor resolves an actor's group name to its persistent ID, inserting
// the group if the host reports one the engine has not seen yet.
func (e *Engine) groupIDFor(ctx context.Context, groupName string) area.GroupID {
	if groupName == "" {
		return 0
	}
	if id, ok := e.groupIDs[groupName]; ok {
		return id
	}
	id, err := e.repo.Groups.Ensure(ctx, groupName)
	if err != nil {
		e.log.Warn("ensure group failed", "group", groupName, "error", err)
		return 0
	}
	e.groupIDs[groupName] = id
	e.groupNames[id] = groupName
	return id
}
