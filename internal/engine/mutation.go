// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"context"
	"fmt"

	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/session"
)

// Region mutation API. All writes are write-through: persistence first, then
// the in-memory indices and the live sessions. On a persistence failure the
// in-memory state is left untouched and the error is reported; there is no
// transactional rollback across rows.

// CreateRegion persists a new region, registers its geometry with the host,
// and synthesizes EnterRegion for every connected actor already positioned
// inside the new extent.
func (e *Engine) CreateRegion(ctx context.Context, extent area.Extent, name string, perm area.Permission) (*area.Region, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := area.NewRegion(extent, name, perm)
	if err := e.repo.Regions.Create(ctx, r); err != nil {
		return nil, oops.Code("PERSISTENCE_FAILURE").
			With("operation", "create region").With("name", name).Wrap(err)
	}
	handle, err := e.host.RegisterExtent(r.ID, r.Extent)
	if err != nil {
		e.log.Warn("spatial registration failed", "region_id", int64(r.ID), "error", err)
	} else {
		r.SpatialHandle = handle
	}
	e.regions.insert(r)
	e.audit(ctx, area.AuditRegionCreated, r.ID, 0, fmt.Sprintf("name=%q perm=%s", r.Name, r.Default))

	for _, s := range e.sessions.All() {
		if pos, ok := e.host.ActorPosition(s.ActorID); ok && r.Contains(pos) {
			e.enter(s, r)
		}
	}
	e.log.Info("region created", "region_id", int64(r.ID), "name", r.Name)
	return r, nil
}

// UpdateRegion rewrites a region's name, extent, and default permissions.
// Overrides are untouched. If the extent changed, the old spatial
// registration is replaced under the same region ID, and every connected
// actor whose containment flips gets a synthetic transition: expansion runs
// the gated Enter, shrinking evicts unconditionally.
func (e *Engine) UpdateRegion(ctx context.Context, id area.RegionID, extent area.Extent, name string, perm area.Permission) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == 0 {
		return oops.With("operation", "update region").Wrap(area.ErrInvalidArgument)
	}
	old := e.regions.get(id)
	if old == nil {
		return oops.With("operation", "update region").With("region_id", int64(id)).Wrap(area.ErrNotFound)
	}
	extent.Normalize()

	updated := &area.Region{
		ID:             id,
		Name:           name,
		Extent:         extent,
		Default:        perm,
		ActorOverrides: old.ActorOverrides,
		GroupOverrides: old.GroupOverrides,
		SpatialHandle:  old.SpatialHandle,
	}
	if err := e.repo.Regions.Update(ctx, updated); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "update region").With("region_id", int64(id)).Wrap(err)
	}

	// The host cannot resize a registration in place; replace it.
	extentChanged := old.Extent != updated.Extent
	if extentChanged {
		if old.SpatialHandle != 0 {
			e.host.UnregisterExtent(old.SpatialHandle)
			updated.SpatialHandle = 0
		}
		handle, err := e.host.RegisterExtent(id, updated.Extent)
		if err != nil {
			e.log.Warn("spatial re-registration failed", "region_id", int64(id), "error", err)
		} else {
			updated.SpatialHandle = handle
		}
	}
	e.regions.replace(updated)
	e.audit(ctx, area.AuditRegionUpdated, id, 0, fmt.Sprintf("name=%q perm=%s", name, perm))

	if extentChanged {
		for _, s := range e.sessions.All() {
			pos, ok := e.host.ActorPosition(s.ActorID)
			if !ok {
				continue
			}
			wasInside := old.Contains(pos)
			nowInside := updated.Contains(pos)
			switch {
			case nowInside && !wasInside:
				e.enter(s, updated)
			case !nowInside && wasInside:
				// The extent moved, not the actor: there is no crossing
				// for the Leave gate to veto.
				s.ForceLeave(id)
			}
		}
	}
	return nil
}

// DeleteRegion removes a region from persistence, from both indices, and
// from every session cache referencing it. Actors occupying the region leave
// it unconditionally: deletion cannot be vetoed.
func (e *Engine) DeleteRegion(ctx context.Context, id area.RegionID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.regions.get(id)
	if r == nil {
		return oops.With("operation", "delete region").With("region_id", int64(id)).Wrap(area.ErrNotFound)
	}
	if err := e.repo.Overrides.DeleteForRegion(ctx, id); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "delete region overrides").With("region_id", int64(id)).Wrap(err)
	}
	if err := e.repo.Regions.Delete(ctx, id); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "delete region").With("region_id", int64(id)).Wrap(err)
	}
	if r.SpatialHandle != 0 {
		e.host.UnregisterExtent(r.SpatialHandle)
	}
	for _, s := range e.sessions.All() {
		s.RegionDeleted(id)
	}
	e.regions.remove(id)
	e.audit(ctx, area.AuditRegionDeleted, id, 0, fmt.Sprintf("name=%q", r.Name))
	e.log.Info("region deleted", "region_id", int64(id), "name", r.Name)
	return nil
}

// GrantActorPermission writes an actor-specific override. The Owner bit is
// stripped unless the grantor is an administrator (or the system, grantor
// zero): ownership is not transitively delegable. A grant against the
// manager pseudo-region promotes the target actor world-wide.
func (e *Engine) GrantActorPermission(ctx context.Context, grantor area.ActorID, regionID area.RegionID, actorID area.ActorID, perm area.Permission) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.grantorIsAdmin(grantor) {
		perm = perm.Without(area.PermOwner)
	}
	var r *area.Region
	if regionID != area.ManagerRegionID {
		if r = e.regions.get(regionID); r == nil {
			return oops.With("operation", "grant actor").With("region_id", int64(regionID)).Wrap(area.ErrNotFound)
		}
	}
	if err := e.repo.Overrides.UpsertActor(ctx, regionID, actorID, perm); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "grant actor").With("region_id", int64(regionID)).
			With("actor_id", int64(actorID)).Wrap(err)
	}
	if r != nil {
		r.ActorOverrides[actorID] = perm
	}
	e.audit(ctx, area.AuditActorGranted, regionID, actorID, fmt.Sprintf("perm=%s", perm))

	s := e.sessions.Get(actorID)
	if s == nil {
		return nil
	}
	if regionID == area.ManagerRegionID {
		s.SetManagerGrant(true)
		return nil
	}
	s.SetSpecific(regionID, perm)
	e.grantChanged(s, r)
	return nil
}

// RevokeActorPermission removes an actor-specific override. Revoking an
// override that does not exist is a no-op.
func (e *Engine) RevokeActorPermission(ctx context.Context, regionID area.RegionID, actorID area.ActorID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var r *area.Region
	if regionID != area.ManagerRegionID {
		if r = e.regions.get(regionID); r == nil {
			return oops.With("operation", "revoke actor").With("region_id", int64(regionID)).Wrap(area.ErrNotFound)
		}
	}
	if err := e.repo.Overrides.DeleteActor(ctx, regionID, actorID); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "revoke actor").With("region_id", int64(regionID)).
			With("actor_id", int64(actorID)).Wrap(err)
	}
	if r != nil {
		delete(r.ActorOverrides, actorID)
	}
	e.audit(ctx, area.AuditActorRevoked, regionID, actorID, "")

	s := e.sessions.Get(actorID)
	if s == nil {
		return nil
	}
	if regionID == area.ManagerRegionID {
		// Demotion falls back to the host-level admin flag.
		s.SetManagerGrant(false)
		return nil
	}
	s.RemoveSpecific(regionID)
	e.grantChanged(s, r)
	return nil
}

// GrantGroupPermission writes a group-specific override and refreshes every
// connected member of the group.
func (e *Engine) GrantGroupPermission(ctx context.Context, regionID area.RegionID, groupID area.GroupID, perm area.Permission) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.regions.get(regionID)
	if r == nil {
		return oops.With("operation", "grant group").With("region_id", int64(regionID)).Wrap(area.ErrNotFound)
	}
	if err := e.repo.Overrides.UpsertGroup(ctx, regionID, groupID, perm); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "grant group").With("region_id", int64(regionID)).
			With("group_id", int64(groupID)).Wrap(err)
	}
	r.GroupOverrides[groupID] = perm
	e.audit(ctx, area.AuditGroupGranted, regionID, 0, fmt.Sprintf("group=%d perm=%s", groupID, perm))
	e.refreshGroupMembers(r, groupID)
	return nil
}

// RevokeGroupPermission removes a group-specific override. Idempotent.
func (e *Engine) RevokeGroupPermission(ctx context.Context, regionID area.RegionID, groupID area.GroupID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.regions.get(regionID)
	if r == nil {
		return oops.With("operation", "revoke group").With("region_id", int64(regionID)).Wrap(area.ErrNotFound)
	}
	if err := e.repo.Overrides.DeleteGroup(ctx, regionID, groupID); err != nil {
		return oops.Code("PERSISTENCE_FAILURE").
			With("operation", "revoke group").With("region_id", int64(regionID)).
			With("group_id", int64(groupID)).Wrap(err)
	}
	delete(r.GroupOverrides, groupID)
	e.audit(ctx, area.AuditGroupRevoked, regionID, 0, fmt.Sprintf("group=%d", groupID))
	e.refreshGroupMembers(r, groupID)
	return nil
}

// grantChanged re-resolves the actor's cached permission for a region after
// an override change. If the actor occupies the region the cache refreshes
// in place, without the Enter gate; if the actor is geometrically inside but
// was never admitted (a previously vetoed entry), a synthetic Enter runs so
// a newly granted Enter bit takes effect immediately.
func (e *Engine) grantChanged(s *session.Session, r *area.Region) {
	if s.Occupies(r.ID) {
		s.RefreshGrant(r.ID, e.effectiveUnbypassed(s, r))
		return
	}
	if pos, ok := e.host.ActorPosition(s.ActorID); ok && r.Contains(pos) {
		e.enter(s, r)
	}
}

// refreshGroupMembers applies grantChanged to every connected member of a
// group.
func (e *Engine) refreshGroupMembers(r *area.Region, groupID area.GroupID) {
	for _, s := range e.sessions.All() {
		if s.GroupID == groupID {
			e.grantChanged(s, r)
		}
	}
}

// grantorIsAdmin reports whether a grantor may delegate ownership. Grantor
// zero is the system (CLI, startup import) and is always trusted.
func (e *Engine) grantorIsAdmin(grantor area.ActorID) bool {
	if grantor == 0 {
		return true
	}
	s := e.sessions.Get(grantor)
	return s != nil && s.IsAdmin()
}
