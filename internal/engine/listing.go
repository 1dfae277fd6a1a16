// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
)

// Listing surface consumed by the UI collaborator and the CLI.

// Region returns the region with the given ID, or nil.
func (e *Engine) Region(id area.RegionID) *area.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regions.get(id)
}

// Regions returns all regions in case-insensitive name order.
func (e *Engine) Regions() []*area.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regions.all()
}

// RegionsMatching returns the regions whose name matches a glob pattern,
// case-insensitively, in name order.
func (e *Engine) RegionsMatching(pattern string) ([]*area.Region, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	regions, err := e.regions.matching(pattern)
	if err != nil {
		return nil, oops.With("operation", "match regions").With("pattern", pattern).Wrap(err)
	}
	return regions, nil
}

// RegionsOwnedBy returns the regions the actor administers: those where the
// actor's effective permission carries the Owner or AddPlayer bit. Admins
// own every region.
func (e *Engine) RegionsOwnedBy(actorID area.ActorID) []*area.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions.Get(actorID)
	if s == nil {
		return nil
	}
	if s.IsAdmin() {
		return e.regions.all()
	}
	var owned []*area.Region
	for _, r := range e.regions.ordered {
		if e.effectiveUnbypassed(s, r)&(area.PermOwner|area.PermAddPlayer) != 0 {
			owned = append(owned, r)
		}
	}
	return owned
}
