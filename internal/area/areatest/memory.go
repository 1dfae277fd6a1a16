// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package areatest provides in-memory repository implementations for tests.
package areatest

import (
	"context"
	"sort"
	"strings"

	"github.com/areaguard/areaguard/internal/area"
)

type overrideKey struct {
	region  area.RegionID
	subject int64
}

// MemoryStore implements every area repository interface in memory. It is
// not safe for concurrent use; tests drive it from one goroutine, like the
// engine does.
type MemoryStore struct {
	nextRegionID area.RegionID
	nextGroupID  area.GroupID

	Regions        map[area.RegionID]*area.Region
	ActorRows      map[overrideKey]area.Permission
	GroupRows      map[overrideKey]area.Permission
	Groups         map[area.GroupID]string
	Events         []area.AuditEvent
	FailNextCreate error // returned once by Create when set
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Regions:   make(map[area.RegionID]*area.Region),
		ActorRows: make(map[overrideKey]area.Permission),
		GroupRows: make(map[overrideKey]area.Permission),
		Groups:    make(map[area.GroupID]string),
	}
}

// List implements area.RegionRepository.
func (m *MemoryStore) List(_ context.Context) ([]*area.Region, error) {
	out := make([]*area.Region, 0, len(m.Regions))
	for _, r := range m.Regions {
		clone := *r
		clone.ActorOverrides = nil
		clone.GroupOverrides = nil
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Create implements area.RegionRepository.
func (m *MemoryStore) Create(_ context.Context, r *area.Region) error {
	if err := m.FailNextCreate; err != nil {
		m.FailNextCreate = nil
		return err
	}
	m.nextRegionID++
	r.ID = m.nextRegionID
	clone := *r
	m.Regions[r.ID] = &clone
	return nil
}

// Update implements area.RegionRepository.
func (m *MemoryStore) Update(_ context.Context, r *area.Region) error {
	if _, ok := m.Regions[r.ID]; !ok {
		return area.ErrNotFound
	}
	clone := *r
	m.Regions[r.ID] = &clone
	return nil
}

// Delete implements area.RegionRepository.
func (m *MemoryStore) Delete(_ context.Context, id area.RegionID) error {
	if _, ok := m.Regions[id]; !ok {
		return area.ErrNotFound
	}
	delete(m.Regions, id)
	return nil
}

// ActorOverrides implements area.OverrideRepository.
func (m *MemoryStore) ActorOverrides(_ context.Context, regionID area.RegionID) (map[area.ActorID]area.Permission, error) {
	out := make(map[area.ActorID]area.Permission)
	for key, perm := range m.ActorRows {
		if key.region == regionID {
			out[area.ActorID(key.subject)] = perm
		}
	}
	return out, nil
}

// GroupOverrides implements area.OverrideRepository.
func (m *MemoryStore) GroupOverrides(_ context.Context, regionID area.RegionID) (map[area.GroupID]area.Permission, error) {
	out := make(map[area.GroupID]area.Permission)
	for key, perm := range m.GroupRows {
		if key.region == regionID {
			out[area.GroupID(key.subject)] = perm
		}
	}
	return out, nil
}

// RegionsForActor implements area.OverrideRepository.
func (m *MemoryStore) RegionsForActor(_ context.Context, actorID area.ActorID) (map[area.RegionID]area.Permission, error) {
	out := make(map[area.RegionID]area.Permission)
	for key, perm := range m.ActorRows {
		if key.subject == int64(actorID) {
			out[key.region] = perm
		}
	}
	return out, nil
}

// UpsertActor implements area.OverrideRepository.
func (m *MemoryStore) UpsertActor(_ context.Context, regionID area.RegionID, actorID area.ActorID, perm area.Permission) error {
	m.ActorRows[overrideKey{regionID, int64(actorID)}] = perm
	return nil
}

// DeleteActor implements area.OverrideRepository.
func (m *MemoryStore) DeleteActor(_ context.Context, regionID area.RegionID, actorID area.ActorID) error {
	delete(m.ActorRows, overrideKey{regionID, int64(actorID)})
	return nil
}

// UpsertGroup implements area.OverrideRepository.
func (m *MemoryStore) UpsertGroup(_ context.Context, regionID area.RegionID, groupID area.GroupID, perm area.Permission) error {
	m.GroupRows[overrideKey{regionID, int64(groupID)}] = perm
	return nil
}

// DeleteGroup implements area.OverrideRepository.
func (m *MemoryStore) DeleteGroup(_ context.Context, regionID area.RegionID, groupID area.GroupID) error {
	delete(m.GroupRows, overrideKey{regionID, int64(groupID)})
	return nil
}

// DeleteForRegion implements area.OverrideRepository.
func (m *MemoryStore) DeleteForRegion(_ context.Context, regionID area.RegionID) error {
	for key := range m.ActorRows {
		if key.region == regionID {
			delete(m.ActorRows, key)
		}
	}
	for key := range m.GroupRows {
		if key.region == regionID {
			delete(m.GroupRows, key)
		}
	}
	return nil
}

// All implements area.GroupRepository.
func (m *MemoryStore) All(_ context.Context) (map[area.GroupID]string, error) {
	out := make(map[area.GroupID]string, len(m.Groups))
	for id, name := range m.Groups {
		out[id] = name
	}
	return out, nil
}

// Ensure implements area.GroupRepository.
func (m *MemoryStore) Ensure(_ context.Context, name string) (area.GroupID, error) {
	for id, existing := range m.Groups {
		if existing == name {
			return id, nil
		}
	}
	m.nextGroupID++
	m.Groups[m.nextGroupID] = name
	return m.nextGroupID, nil
}

// Append implements area.AuditRepository.
func (m *MemoryStore) Append(_ context.Context, event area.AuditEvent) error {
	m.Events = append(m.Events, event)
	return nil
}
