// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package session tracks per-actor permission state: the set of regions the
// actor currently occupies, the cumulative permission bitset derived from
// that set, and the actor's region-specific grants loaded at connect.
//
// Sessions are plain state machines with no locking of their own; the engine
// serializes all access.
package session

import "github.com/areaguard/areaguard/internal/area"

// Session is the per-connected-actor permission state.
//
// The occupied set caches the effective permission computed at entry time;
// it is not recomputed continuously. GrantChanged and RegionDeleted keep the
// cache consistent when grants or regions change underneath a stationary
// actor.
type Session struct {
	ActorID area.ActorID
	Name    string
	GroupID area.GroupID

	hostAdmin    bool
	managerGrant bool

	occupied map[area.RegionID]area.Permission
	order    []area.RegionID // entry order, for the occupied-name listing
	specific map[area.RegionID]area.Permission

	cumulative area.Permission
}

// New creates a session for a connecting actor. specific is the actor's
// region-specific override map loaded from persistence; the session takes
// ownership of it. A grant against the manager pseudo-region must be applied
// via SetManagerGrant by the caller, not left in the specific map.
func New(actorID area.ActorID, name string, groupID area.GroupID, hostAdmin bool, specific map[area.RegionID]area.Permission) *Session {
	if specific == nil {
		specific = make(map[area.RegionID]area.Permission)
	}
	return &Session{
		ActorID:    actorID,
		Name:       name,
		GroupID:    groupID,
		hostAdmin:  hostAdmin,
		occupied:   make(map[area.RegionID]area.Permission),
		specific:   specific,
		cumulative: area.PermAll,
	}
}

// IsAdmin reports whether the actor has administrative standing, either from
// the host-level flag or from a manager pseudo-region grant.
func (s *Session) IsAdmin() bool {
	return s.hostAdmin || s.managerGrant
}

// SetManagerGrant toggles the manager pseudo-region promotion.
func (s *Session) SetManagerGrant(granted bool) {
	s.managerGrant = granted
}

// Enter records a boundary crossing into a region with the given effective
// permission. Returns area.ErrCannotEnter, without mutating state, if perm
// lacks the Enter bit. Re-entering an occupied region refreshes the cached
// permission.
func (s *Session) Enter(regionID area.RegionID, perm area.Permission) error {
	if !perm.Has(area.PermEnter) {
		return area.ErrCannotEnter
	}
	s.put(regionID, perm)
	s.recompute()
	return nil
}

// Leave records a boundary crossing out of a region, judged against the
// permission cached at entry time so that a just-deleted or just-edited
// region cannot trap the actor. Returns area.ErrCannotLeave, without
// mutating state, if the cached permission lacks the Leave bit. Leaving a
// region the session does not track is a no-op.
func (s *Session) Leave(regionID area.RegionID) error {
	perm, ok := s.occupied[regionID]
	if !ok {
		return nil
	}
	if !perm.Has(area.PermLeave) {
		return area.ErrCannotLeave
	}
	s.remove(regionID)
	s.recompute()
	return nil
}

// ForceEnter records a crossing without the Enter gate. Used for bypassed
// admins: the veto never applies to them, but the cached permission is still
// the unbypassed value so that disabling bypass mid-session needs no replay.
func (s *Session) ForceEnter(regionID area.RegionID, perm area.Permission) {
	s.put(regionID, perm)
	s.recompute()
}

// ForceLeave records a crossing out without the Leave gate. Counterpart of
// ForceEnter for bypassed admins.
func (s *Session) ForceLeave(regionID area.RegionID) {
	s.remove(regionID)
	s.recompute()
}

// RefreshGrant re-applies the entry bookkeeping for an occupied region after
// a grant change, bypassing the Enter gate: the actor is already inside and
// must not be ejected by a narrower grant. No-op if the region is not
// occupied.
func (s *Session) RefreshGrant(regionID area.RegionID, perm area.Permission) {
	if _, ok := s.occupied[regionID]; !ok {
		return
	}
	s.occupied[regionID] = perm
	s.recompute()
}

// RegionDeleted removes a deleted region from both the occupied set and the
// specific grant map. Deletion is never vetoable.
func (s *Session) RegionDeleted(regionID area.RegionID) {
	s.remove(regionID)
	delete(s.specific, regionID)
	s.recompute()
}

// Occupies reports whether the actor currently occupies the region.
func (s *Session) Occupies(regionID area.RegionID) bool {
	_, ok := s.occupied[regionID]
	return ok
}

// OccupiedIDs returns the occupied regions in entry order.
func (s *Session) OccupiedIDs() []area.RegionID {
	ids := make([]area.RegionID, len(s.order))
	copy(ids, s.order)
	return ids
}

// CumulativeRaw returns the OR of the cached permissions of all occupied
// regions, or PermAll when the actor occupies none. Administrative bypass is
// applied by the engine on top of this value, so that toggling bypass
// mid-session needs no event replay.
func (s *Session) CumulativeRaw() area.Permission {
	return s.cumulative
}

// Specific returns the actor-specific override for a region, if any.
func (s *Session) Specific(regionID area.RegionID) (area.Permission, bool) {
	perm, ok := s.specific[regionID]
	return perm, ok
}

// SetSpecific records an actor-specific override in the session cache.
func (s *Session) SetSpecific(regionID area.RegionID, perm area.Permission) {
	s.specific[regionID] = perm
}

// RemoveSpecific drops an actor-specific override from the session cache.
func (s *Session) RemoveSpecific(regionID area.RegionID) {
	delete(s.specific, regionID)
}

func (s *Session) put(regionID area.RegionID, perm area.Permission) {
	if _, ok := s.occupied[regionID]; !ok {
		s.order = append(s.order, regionID)
	}
	s.occupied[regionID] = perm
}

func (s *Session) remove(regionID area.RegionID) {
	if _, ok := s.occupied[regionID]; !ok {
		return
	}
	delete(s.occupied, regionID)
	for i, id := range s.order {
		if id == regionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Session) recompute() {
	if len(s.occupied) == 0 {
		s.cumulative = area.PermAll
		return
	}
	cumulative := area.PermNone
	for _, perm := range s.occupied {
		cumulative |= perm
	}
	s.cumulative = cumulative
}
