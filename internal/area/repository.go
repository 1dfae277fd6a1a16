// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package area

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// RegionRepository manages region persistence. Implementations provide
// row-level durability only; in-memory indexing is the engine's concern.
type RegionRepository interface {
	// List returns all persisted regions ordered case-insensitively by
	// name. Override maps are not populated.
	List(ctx context.Context) ([]*Region, error)

	// Create persists a new region and assigns its ID.
	Create(ctx context.Context, r *Region) error

	// Update rewrites the row for r.ID. Returns ErrNotFound if no such
	// row exists.
	Update(ctx context.Context, r *Region) error

	// Delete removes the region row. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id RegionID) error
}

// OverrideRepository manages the actor and group override tables. Both
// tables have unique-key upsert semantics per (subject, region) pair.
type OverrideRepository interface {
	// ActorOverrides returns all actor overrides for one region.
	ActorOverrides(ctx context.Context, regionID RegionID) (map[ActorID]Permission, error)

	// GroupOverrides returns all group overrides for one region.
	GroupOverrides(ctx context.Context, regionID RegionID) (map[GroupID]Permission, error)

	// RegionsForActor returns every region-specific override held by an
	// actor, including the manager pseudo-region if granted.
	RegionsForActor(ctx context.Context, actorID ActorID) (map[RegionID]Permission, error)

	// UpsertActor writes an actor override, last write wins.
	UpsertActor(ctx context.Context, regionID RegionID, actorID ActorID, perm Permission) error

	// DeleteActor removes an actor override. Deleting an absent override
	// is a no-op.
	DeleteActor(ctx context.Context, regionID RegionID, actorID ActorID) error

	// UpsertGroup writes a group override, last write wins.
	UpsertGroup(ctx context.Context, regionID RegionID, groupID GroupID, perm Permission) error

	// DeleteGroup removes a group override. Deleting an absent override
	// is a no-op.
	DeleteGroup(ctx context.Context, regionID RegionID, groupID GroupID) error

	// DeleteForRegion removes every override row, actor and group, tied
	// to a region. Used when the region itself is deleted.
	DeleteForRegion(ctx context.Context, regionID RegionID) error
}

// GroupRepository maps host permission-group names to persistent IDs.
type GroupRepository interface {
	// All returns all known groups.
	All(ctx context.Context) (map[GroupID]string, error)

	// Ensure returns the ID for a group name, inserting it first if the
	// name is not yet known.
	Ensure(ctx context.Context, name string) (GroupID, error)
}

// AuditEvent records one region or grant mutation for the audit trail.
type AuditEvent struct {
	ID        ulid.ULID
	Kind      string
	RegionID  RegionID
	ActorID   ActorID
	Detail    string
	CreatedAt time.Time
}

// Audit event kinds.
const (
	AuditRegionCreated = "region.created"
	AuditRegionUpdated = "region.updated"
	AuditRegionDeleted = "region.deleted"
	AuditActorGranted  = "grant.actor"
	AuditActorRevoked  = "revoke.actor"
	AuditGroupGranted  = "grant.group"
	AuditGroupRevoked  = "revoke.group"
)

// AuditRepository appends mutation records. Appends are best-effort: the
// engine logs failures but never rolls back the mutation.
type AuditRepository interface {
	Append(ctx context.Context, event AuditEvent) error
}
