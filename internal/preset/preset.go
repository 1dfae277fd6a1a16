// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package preset

import (
	"sort"
	"strings"

	"github.com/areaguard/areaguard/internal/area"

	"github.com/samber/oops"
)

// CustomName is reported by NameFor when no preset matches a bitset.
const CustomName = "Custom"

// Preset is a named permission bundle offered when granting access to
// a region, so operators do not have to compose bitsets by hand.
type Preset struct {
	Name       string
	Expression string
	Permission area.Permission
}

// Set is an ordered collection of presets. Lookup by name is
// case-insensitive; NameFor resolution prefers earlier entries.
type Set struct {
	presets []Preset
	byName  map[string]int
}

// NewSet compiles the given name/expression pairs in order.
// A later preset with an already-used name replaces the earlier one
// in lookups but keeps the original position.
func NewSet(defs []Definition) (*Set, error) {
	s := &Set{byName: make(map[string]int, len(defs))}
	for _, d := range defs {
		perm, err := Compile(d.Expression)
		if err != nil {
			return nil, oops.With("preset", d.Name).Wrapf(err, "compiling preset")
		}
		key := strings.ToLower(d.Name)
		if i, ok := s.byName[key]; ok {
			s.presets[i] = Preset{Name: d.Name, Expression: d.Expression, Permission: perm}
			continue
		}
		s.byName[key] = len(s.presets)
		s.presets = append(s.presets, Preset{Name: d.Name, Expression: d.Expression, Permission: perm})
	}
	return s, nil
}

// Definition is an uncompiled preset as read from configuration.
type Definition struct {
	Name       string
	Expression string
}

// builtinDefs are always available, in display order. Loaded preset
// files may override entries by reusing a name.
var builtinDefs = []Definition{
	{"Visitor", "Default"},
	{"Guest", "Default | DoorInteract | OtherInteract"},
	{"Farmer", "Default | PlaceVegetation | RemoveVegetation | PlaceGrass | RemoveGrass | DoorInteract"},
	{"Builder", "Default | PlaceBlocks | DestroyBlocks | PlaceConstructions | RemoveConstructions | " +
		"PlaceObjects | RemoveObjects | PlaceTerrain | DestroyTerrain | DoorInteract"},
	{"Trusted", "All & ~(Explosion | AddPlayer | Owner)"},
	{"Manager", "All & ~Owner"},
	{"Owner", "All"},
}

// Builtins returns the built-in preset set. The set always compiles;
// the expressions are covered by tests.
func Builtins() *Set {
	s, err := NewSet(builtinDefs)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns the presets in display order.
func (s *Set) All() []Preset {
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// ByName looks up a preset case-insensitively.
func (s *Set) ByName(name string) (Preset, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return Preset{}, false
	}
	return s.presets[i], true
}

// NameFor returns the name of the first preset whose bitset equals p,
// or CustomName when none matches.
func (s *Set) NameFor(p area.Permission) string {
	for _, pr := range s.presets {
		if pr.Permission == p {
			return pr.Name
		}
	}
	return CustomName
}

// Names returns all preset names sorted case-insensitively.
func (s *Set) Names() []string {
	names := make([]string, len(s.presets))
	for i, pr := range s.presets {
		names[i] = pr.Name
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
