// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"context"

	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/session"
)

// Host-facing event hooks. Boundary hooks return allow/deny; a deny means
// the host must veto the crossing or the action. Denials are expected
// control flow and are never surfaced as errors to the host event loop.

// OnActorConnect creates the actor's session: region-specific grants are
// loaded from persistence, a manager pseudo-region grant promotes the actor,
// and all regions geometrically containing the actor's position are entered
// synthetically. The geometric seeding covers the host's missed-enter-event
// bug for actors that connect already inside a region.
func (e *Engine) OnActorConnect(ctx context.Context, info ActorInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	specific, err := e.repo.Overrides.RegionsForActor(ctx, info.ID)
	if err != nil {
		return oops.With("operation", "load actor overrides").
			With("actor_id", int64(info.ID)).Wrap(err)
	}
	manager := false
	if _, ok := specific[area.ManagerRegionID]; ok {
		manager = true
		delete(specific, area.ManagerRegionID)
	}

	s := session.New(info.ID, info.Name, e.groupIDFor(ctx, info.Group), info.IsAdmin, specific)
	s.SetManagerGrant(manager)
	e.sessions.Add(s)

	for _, r := range e.regions.ordered {
		if r.Contains(info.Position) {
			e.enter(s, r)
		}
	}
	e.log.Info("actor connected",
		"actor_id", int64(info.ID), "name", info.Name,
		"admin", s.IsAdmin(), "occupied", len(s.OccupiedIDs()))
	return nil
}

// OnActorDisconnect tears down the actor's session.
func (e *Engine) OnActorDisconnect(actorID area.ActorID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions.Remove(actorID)
}

// OnEnterRegion handles an actor crossing into a region. Returns false to
// veto the crossing. Unknown actors and unknown regions are allowed through:
// the engine only vetoes what it can resolve.
func (e *Engine) OnEnterRegion(actorID area.ActorID, regionID area.RegionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	r := e.regions.get(regionID)
	if s == nil || r == nil {
		return true
	}
	allowed := e.enter(s, r)
	observeBoundary("enter", allowed)
	return allowed
}

// OnLeaveRegion handles an actor crossing out of a region. Returns false to
// veto the crossing.
func (e *Engine) OnLeaveRegion(actorID area.ActorID, regionID area.RegionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	r := e.regions.get(regionID)
	if s == nil || r == nil {
		return true
	}
	allowed := e.leave(s, r)
	observeBoundary("leave", allowed)
	return allowed
}

// OnWorldMutationAttempt gates a single world mutation (block place, chest
// access, ...) by capability bit. The decision reads the session's cached
// cumulative bitset: O(1), no allocation, safe to call on every world event.
// The position parameter documents where the attempt happened; containment
// is already folded into the cumulative value by boundary tracking.
func (e *Engine) OnWorldMutationAttempt(actorID area.ActorID, _ area.Vec3, capability area.Permission) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return true
	}
	allowed := e.cumulativeFor(s).Has(capability)
	if !allowed {
		mutationDenials.Inc()
	}
	return allowed
}

// OnVolumeQuery gates a bulk operation over an axis-aligned volume, such as
// blueprint creation: every region intersecting the volume contributes to
// the resolved bitset.
func (e *Engine) OnVolumeQuery(actorID area.ActorID, minCorner, maxCorner area.Vec3, capability area.Permission) bool {
	return e.PermissionForVolume(actorID, minCorner, maxCorner).Has(capability)
}

// enter applies the EnterRegion transition for one session. Bypassed admins
// are never vetoed but their bookkeeping records the unbypassed permission.
func (e *Engine) enter(s *session.Session, r *area.Region) bool {
	perm := e.effectiveUnbypassed(s, r)
	if e.bypassed(s) {
		s.ForceEnter(r.ID, perm)
		return true
	}
	return s.Enter(r.ID, perm) == nil
}

// leave applies the LeaveRegion transition for one session.
func (e *Engine) leave(s *session.Session, r *area.Region) bool {
	if e.bypassed(s) {
		s.ForceLeave(r.ID)
		return true
	}
	return s.Leave(r.ID) == nil
}
