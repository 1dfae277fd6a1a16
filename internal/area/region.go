// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package area

// RegionID is the persistent identity of a region. Zero means "not yet
// persisted".
type RegionID int64

// ManagerRegionID is the reserved pseudo-region for world-wide manager
// grants. It has no geometry; an actor override against it promotes the
// actor to administrator regardless of position.
const ManagerRegionID RegionID = -1

// ActorID identifies a player in the host world database.
type ActorID int64

// GroupID identifies a host permission group, as persisted in the groups
// table.
type GroupID int64

// Region is a named axis-aligned box carrying a default permission bitset
// and per-actor / per-group overrides.
type Region struct {
	ID     RegionID
	Name   string
	Extent Extent

	// Default applies to any actor with no more specific grant.
	Default Permission

	// ActorOverrides take precedence over group overrides and Default.
	ActorOverrides map[ActorID]Permission

	// GroupOverrides take precedence over Default only.
	GroupOverrides map[GroupID]Permission

	// SpatialHandle is the host's opaque token for this region's geometry
	// registration. Zero when not registered.
	SpatialHandle int64
}

// NewRegion builds an in-memory region with a normalized extent and empty
// override maps. The region is unpersisted until the store assigns an ID.
func NewRegion(extent Extent, name string, def Permission) *Region {
	extent.Normalize()
	return &Region{
		Name:           name,
		Extent:         extent,
		Default:        def,
		ActorOverrides: make(map[ActorID]Permission),
		GroupOverrides: make(map[GroupID]Permission),
	}
}

// Contains reports whether p lies inside the region's extent.
func (r *Region) Contains(p Vec3) bool {
	return r.Extent.ContainsPoint(p)
}

// Intersects reports whether the region's extent overlaps the given box.
func (r *Region) Intersects(e Extent) bool {
	return r.Extent.Intersects(e)
}
