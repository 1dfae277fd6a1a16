// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/area/areatest"
	"github.com/areaguard/areaguard/internal/engine"
	"github.com/areaguard/areaguard/internal/engine/enginetest"
)

func regionNames(regions []*area.Region) []string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	return names
}

func TestRegions_NameOrder(t *testing.T) {
	ctx := context.Background()
	store := areatest.NewMemoryStore()
	e := newEngine(t, enginetest.NewFakeHost(), store)

	for _, name := range []string{"Zoo", "alpha", "Beta"} {
		_, err := e.CreateRegion(ctx, area.NewExtent(area.Vec3{}, area.Vec3{X: 10, Y: 10, Z: 10}), name, area.PermDefault)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"alpha", "Beta", "Zoo"}, regionNames(e.Regions()),
		"listing is case-insensitive name order")

	// A rename moves the region to its new slot.
	r := e.Regions()[2]
	require.NoError(t, e.UpdateRegion(ctx, r.ID, r.Extent, "Aardvark", r.Default))
	assert.Equal(t, []string{"Aardvark", "alpha", "Beta"}, regionNames(e.Regions()))
}

func TestRegionsMatching(t *testing.T) {
	ctx := context.Background()
	store := areatest.NewMemoryStore()
	e := newEngine(t, enginetest.NewFakeHost(), store)

	for _, name := range []string{"Farm North", "farm south", "Harbor"} {
		_, err := e.CreateRegion(ctx, area.NewExtent(area.Vec3{}, area.Vec3{X: 10, Y: 10, Z: 10}), name, area.PermDefault)
		require.NoError(t, err)
	}

	matched, err := e.RegionsMatching("farm*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Farm North", "farm south"}, regionNames(matched),
		"matching is case-insensitive")

	matched, err = e.RegionsMatching("*")
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	matched, err = e.RegionsMatching("dungeon*")
	require.NoError(t, err)
	assert.Empty(t, matched)

	_, err = e.RegionsMatching("[")
	assert.Error(t, err, "a malformed pattern is reported, not ignored")
}

func TestRegionsOwnedBy(t *testing.T) {
	ctx := context.Background()
	store := areatest.NewMemoryStore()
	host := enginetest.NewFakeHost()
	e := newEngine(t, host, store)

	estate, err := e.CreateRegion(ctx, area.NewExtent(area.Vec3{}, area.Vec3{X: 10, Y: 10, Z: 10}), "estate", area.PermDefault)
	require.NoError(t, err)
	shared, err := e.CreateRegion(ctx, area.NewExtent(area.Vec3{X: 20}, area.Vec3{X: 30, Y: 10, Z: 10}), "shared", area.PermDefault)
	require.NoError(t, err)
	_, err = e.CreateRegion(ctx, area.NewExtent(area.Vec3{X: 40}, area.Vec3{X: 50, Y: 10, Z: 10}), "commons", area.PermDefault)
	require.NoError(t, err)

	connect(t, e, host, engine.ActorInfo{ID: 1, Name: "owner"})
	connect(t, e, host, engine.ActorInfo{ID: 2, Name: "root", IsAdmin: true})
	connect(t, e, host, engine.ActorInfo{ID: 3, Name: "guest"})

	// Owner bit on one region, AddPlayer on another: both count.
	require.NoError(t, e.GrantActorPermission(ctx, 0, estate.ID, 1, area.PermDefault|area.PermOwner))
	require.NoError(t, e.GrantActorPermission(ctx, 0, shared.ID, 1, area.PermDefault|area.PermAddPlayer))

	assert.Equal(t, []string{"estate", "shared"}, regionNames(e.RegionsOwnedBy(1)))
	assert.Len(t, e.RegionsOwnedBy(2), 3, "admins administer everything")
	assert.Empty(t, e.RegionsOwnedBy(3))
	assert.Nil(t, e.RegionsOwnedBy(99), "unknown actor")
}
