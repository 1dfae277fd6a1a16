// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package area contains the protected-area domain types: permission bitsets,
// integer block geometry, and the Region entity.
package area

import "strings"

// Permission is a 64-bit capability set. Each bit gates one world action
// inside a protected region. Bit positions are part of the persistent format
// and must not be renumbered.
type Permission uint64

// Capability bits.
const (
	PermEnter Permission = 1 << iota
	PermLeave
	PermPlaceBlocks
	PermDestroyBlocks
	PermPlaceConstructions
	PermRemoveConstructions
	PermDestroyConstructions
	PermPlaceObjects
	PermRemoveObjects
	PermDestroyObjects
	PermPlaceTerrain
	PermDestroyTerrain
	PermPlaceVegetation
	PermRemoveVegetation
	PermDestroyVegetation
	PermPlaceGrass
	PermRemoveGrass
	PermPlaceWater
	PermRemoveWater
	PermCreateBlueprint
	PermPlaceBlueprint
	PermCreativePlaceBlocks
	PermCreativePlaceVegetation
	PermCreativeTerrainEdit
	PermPutToChest
	PermGetFromChest
	PermDoorInteract
	PermFurnaceInteract
	PermOtherInteract
	PermExplosion
)

// Administrative bits live at the top of the word, away from capability bits
// so new capabilities can be appended without colliding.
const (
	PermAddPlayer Permission = 1 << 62
	PermOwner     Permission = 1 << 63
)

// Aggregate permission values.
const (
	// PermAll grants every capability. It is the resolved value for admins
	// with bypass enabled and for any point outside all regions.
	PermAll Permission = ^Permission(0)
	// PermNone grants nothing.
	PermNone Permission = 0
	// PermDefault is the permission set newly created regions start with.
	PermDefault = PermEnter | PermLeave
)

// permissionNames lists every named bit in display order. The order is used
// by String and by preset round-tripping.
var permissionNames = []struct {
	Name string
	Bit  Permission
}{
	{"Enter", PermEnter},
	{"Leave", PermLeave},
	{"PlaceBlocks", PermPlaceBlocks},
	{"DestroyBlocks", PermDestroyBlocks},
	{"PlaceConstructions", PermPlaceConstructions},
	{"RemoveConstructions", PermRemoveConstructions},
	{"DestroyConstructions", PermDestroyConstructions},
	{"PlaceObjects", PermPlaceObjects},
	{"RemoveObjects", PermRemoveObjects},
	{"DestroyObjects", PermDestroyObjects},
	{"PlaceTerrain", PermPlaceTerrain},
	{"DestroyTerrain", PermDestroyTerrain},
	{"PlaceVegetation", PermPlaceVegetation},
	{"RemoveVegetation", PermRemoveVegetation},
	{"DestroyVegetation", PermDestroyVegetation},
	{"PlaceGrass", PermPlaceGrass},
	{"RemoveGrass", PermRemoveGrass},
	{"PlaceWater", PermPlaceWater},
	{"RemoveWater", PermRemoveWater},
	{"CreateBlueprint", PermCreateBlueprint},
	{"PlaceBlueprint", PermPlaceBlueprint},
	{"CreativePlaceBlocks", PermCreativePlaceBlocks},
	{"CreativePlaceVegetation", PermCreativePlaceVegetation},
	{"CreativeTerrainEdit", PermCreativeTerrainEdit},
	{"PutToChest", PermPutToChest},
	{"GetFromChest", PermGetFromChest},
	{"DoorInteract", PermDoorInteract},
	{"FurnaceInteract", PermFurnaceInteract},
	{"OtherInteract", PermOtherInteract},
	{"Explosion", PermExplosion},
	{"AddPlayer", PermAddPlayer},
	{"Owner", PermOwner},
}

// Has reports whether every bit in mask is set in p.
func (p Permission) Has(mask Permission) bool {
	return p&mask == mask
}

// With returns p with all bits in mask set.
func (p Permission) With(mask Permission) Permission {
	return p | mask
}

// Without returns p with all bits in mask cleared.
func (p Permission) Without(mask Permission) Permission {
	return p &^ mask
}

// String renders the set bits as a pipe-separated list of capability names.
// PermAll renders as "All", PermNone as "None". Bits without a name are
// ignored.
func (p Permission) String() string {
	if p == PermAll {
		return "All"
	}
	if p == PermNone {
		return "None"
	}
	var names []string
	for _, entry := range permissionNames {
		if p.Has(entry.Bit) {
			names = append(names, entry.Name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// PermissionByName returns the capability bit for a capability name.
// Matching is case-insensitive. Returns (PermNone, false) for unknown names.
func PermissionByName(name string) (Permission, bool) {
	for _, entry := range permissionNames {
		if strings.EqualFold(entry.Name, name) {
			return entry.Bit, true
		}
	}
	return PermNone, false
}

// PermissionNames returns the capability names in display order.
func PermissionNames() []string {
	names := make([]string, len(permissionNames))
	for i, entry := range permissionNames {
		names[i] = entry.Name
	}
	return names
}
