// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package enginetest provides a scriptable fake world host for engine tests.
package enginetest

import (
	"context"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/engine"
)

// FakeHost implements engine.Host with in-memory state. Tests move actors by
// assigning Positions and deliver the corresponding boundary events
// themselves, like the real host does.
type FakeHost struct {
	nextHandle int64

	Groups      []string
	Actors      map[area.ActorID]engine.ActorInfo
	Registered  map[int64]area.RegionID // handle → region
	RegisterErr error                   // returned by RegisterExtent when set
}

// NewFakeHost creates an empty host.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Actors:     make(map[area.ActorID]engine.ActorInfo),
		Registered: make(map[int64]area.RegionID),
	}
}

// AddActor registers a connected actor with the host.
func (h *FakeHost) AddActor(info engine.ActorInfo) {
	h.Actors[info.ID] = info
}

// MoveActor updates an actor's position.
func (h *FakeHost) MoveActor(id area.ActorID, pos area.Vec3) {
	info := h.Actors[id]
	info.Position = pos
	h.Actors[id] = info
}

// RegisterExtent implements engine.Host.
func (h *FakeHost) RegisterExtent(id area.RegionID, _ area.Extent) (int64, error) {
	if h.RegisterErr != nil {
		return 0, h.RegisterErr
	}
	h.nextHandle++
	h.Registered[h.nextHandle] = id
	return h.nextHandle, nil
}

// UnregisterExtent implements engine.Host.
func (h *FakeHost) UnregisterExtent(handle int64) {
	delete(h.Registered, handle)
}

// PermissionGroups implements engine.Host.
func (h *FakeHost) PermissionGroups() []string {
	return h.Groups
}

// ConnectedActors implements engine.Host.
func (h *FakeHost) ConnectedActors() []engine.ActorInfo {
	out := make([]engine.ActorInfo, 0, len(h.Actors))
	for _, info := range h.Actors {
		out = append(out, info)
	}
	return out
}

// ActorPosition implements engine.Host.
func (h *FakeHost) ActorPosition(id area.ActorID) (area.Vec3, bool) {
	info, ok := h.Actors[id]
	return info.Position, ok
}

// Directory is a static engine.ActorDirectory.
type Directory map[area.ActorID]string

// ActorNames implements engine.ActorDirectory.
func (d Directory) ActorNames(_ context.Context) (map[area.ActorID]string, error) {
	return d, nil
}
