// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"time"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/session"
)

// Resolution precedence for one (actor, region) pair: actor-specific
// override, then group override, then the region default. Overlapping
// regions combine by bitwise OR: overlaps are additive grants, a more
// permissive region is never shadowed by a stricter one. The strictest-wins
// AND policy was deliberately abandoned.

// effective resolves the permission for one session and region, with admin
// bypass applied first.
func (e *Engine) effective(s *session.Session, r *area.Region) area.Permission {
	if e.bypassed(s) {
		return area.PermAll
	}
	return e.effectiveUnbypassed(s, r)
}

// effectiveUnbypassed resolves override precedence without the admin
// shortcut. Session bookkeeping caches this value so bypass can be toggled
// at runtime.
func (e *Engine) effectiveUnbypassed(s *session.Session, r *area.Region) area.Permission {
	if perm, ok := s.Specific(r.ID); ok {
		return perm
	}
	if s.GroupID != 0 {
		if perm, ok := r.GroupOverrides[s.GroupID]; ok {
			return perm
		}
	}
	return r.Default
}

// EffectivePermission resolves the bitset for one (actor, region) pair.
// Returns area.ErrNotFound if the actor is not connected or the region does
// not exist.
func (e *Engine) EffectivePermission(actorID area.ActorID, regionID area.RegionID) (area.Permission, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return area.PermNone, area.ErrNotFound
	}
	r := e.regions.get(regionID)
	if r == nil {
		return area.PermNone, area.ErrNotFound
	}
	return e.effective(s, r), nil
}

// PermissionAtPoint resolves the cumulative bitset for an arbitrary point:
// the OR of the actor's effective permission in every region containing the
// point, or PermAll when no region contains it (open world). Unknown actors
// resolve to PermAll. Never fails.
func (e *Engine) PermissionAtPoint(actorID area.ActorID, p area.Vec3) area.Permission {
	defer observeResolve("point", time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return area.PermAll
	}
	if e.bypassed(s) {
		return area.PermAll
	}
	cumulative := area.PermAll
	matched := false
	for _, r := range e.regions.ordered {
		if !r.Contains(p) {
			continue
		}
		if !matched {
			cumulative = area.PermNone
			matched = true
		}
		cumulative |= e.effectiveUnbypassed(s, r)
	}
	return cumulative
}

// PermissionForVolume resolves the cumulative bitset for an axis-aligned
// volume: every region intersecting the box contributes via OR. Used for
// blueprint-style bulk checks.
func (e *Engine) PermissionForVolume(actorID area.ActorID, minCorner, maxCorner area.Vec3) area.Permission {
	defer observeResolve("volume", time.Now())
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return area.PermAll
	}
	if e.bypassed(s) {
		return area.PermAll
	}
	box := area.NewExtent(minCorner, maxCorner)
	cumulative := area.PermAll
	matched := false
	for _, r := range e.regions.ordered {
		if !r.Intersects(box) {
			continue
		}
		if !matched {
			cumulative = area.PermNone
			matched = true
		}
		cumulative |= e.effectiveUnbypassed(s, r)
	}
	return cumulative
}

// CumulativePermissions returns the actor's current cumulative bitset: the
// OR of the permissions cached for every occupied region, PermAll when
// occupying none, and PermAll for bypassed admins regardless of occupancy.
func (e *Engine) CumulativePermissions(actorID area.ActorID) area.Permission {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return area.PermAll
	}
	return e.cumulativeFor(s)
}

func (e *Engine) cumulativeFor(s *session.Session) area.Permission {
	if e.bypassed(s) {
		return area.PermAll
	}
	return s.CumulativeRaw()
}

// OccupiedRegionNames returns the names of the regions the actor currently
// occupies, in entry order, for on-screen display.
func (e *Engine) OccupiedRegionNames(actorID area.ActorID) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return nil
	}
	var names []string
	for _, id := range s.OccupiedIDs() {
		if r := e.regions.get(id); r != nil {
			names = append(names, r.Name)
		}
	}
	return names
}
