// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/areaguard/areaguard/internal/area"
)

// regionIndex keeps all regions in two views: an ID map for O(1) lookup and
// a slice kept in case-insensitive name order for listing.
type regionIndex struct {
	byID    map[area.RegionID]*area.Region
	ordered []*area.Region
}

func newRegionIndex() *regionIndex {
	return &regionIndex{byID: make(map[area.RegionID]*area.Region)}
}

func (ix *regionIndex) len() int {
	return len(ix.ordered)
}

func (ix *regionIndex) get(id area.RegionID) *area.Region {
	return ix.byID[id]
}

// insert adds a region at its sorted name position.
func (ix *regionIndex) insert(r *area.Region) {
	key := strings.ToLower(r.Name)
	pos := sort.Search(len(ix.ordered), func(i int) bool {
		return strings.ToLower(ix.ordered[i].Name) > key
	})
	ix.ordered = append(ix.ordered, nil)
	copy(ix.ordered[pos+1:], ix.ordered[pos:])
	ix.ordered[pos] = r
	ix.byID[r.ID] = r
}

// remove drops a region from both views. No-op if absent.
func (ix *regionIndex) remove(id area.RegionID) {
	r, ok := ix.byID[id]
	if !ok {
		return
	}
	delete(ix.byID, id)
	for i, candidate := range ix.ordered {
		if candidate == r {
			ix.ordered = append(ix.ordered[:i], ix.ordered[i+1:]...)
			return
		}
	}
}

// replace swaps the stored region for updated, re-sorting if the name
// changed.
func (ix *regionIndex) replace(updated *area.Region) {
	ix.remove(updated.ID)
	ix.insert(updated)
}

// all returns the name-ordered regions. The slice is a snapshot; the regions
// are shared.
func (ix *regionIndex) all() []*area.Region {
	out := make([]*area.Region, len(ix.ordered))
	copy(out, ix.ordered)
	return out
}

// matching returns name-ordered regions whose name matches the glob
// pattern, case-insensitively.
func (ix *regionIndex) matching(pattern string) ([]*area.Region, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, err
	}
	var out []*area.Region
	for _, r := range ix.ordered {
		if g.Match(strings.ToLower(r.Name)) {
			out = append(out, r)
		}
	}
	return out, nil
}
