// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package preset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/preset"
)

func TestCompile(t *testing.T) {
	trusted := area.PermAll.Without(area.PermExplosion | area.PermAddPlayer | area.PermOwner)

	tests := []struct {
		name string
		expr string
		want area.Permission
	}{
		{"single capability", "Enter", area.PermEnter},
		{"union", "Enter | Leave", area.PermDefault},
		{"aliases", "default", area.PermDefault},
		{"all alias", "ALL", area.PermAll},
		{"none alias", "none", area.PermNone},
		{"complement", "~Owner", area.PermAll.Without(area.PermOwner)},
		{"intersection with complement", "All & ~Owner", area.PermAll.Without(area.PermOwner)},
		{"grouped complement", "All & ~(Explosion | AddPlayer | Owner)", trusted},
		{"union binds looser than intersection", "Enter | Leave & Leave", area.PermEnter | area.PermLeave},
		{"parentheses override", "(Enter | Leave) & Leave", area.PermLeave},
		{"whitespace is free", "  Default|PlaceBlocks ", area.PermDefault | area.PermPlaceBlocks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := preset.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{
		"",
		"Enter |",
		"Enter & & Leave",
		"(Enter",
		"Fly", // no such capability
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := preset.Compile(expr)
			assert.Error(t, err)
		})
	}
}

func TestBuiltins(t *testing.T) {
	s := preset.Builtins()

	visitor, ok := s.ByName("visitor")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, area.PermDefault, visitor.Permission)

	owner, ok := s.ByName("Owner")
	require.True(t, ok)
	assert.Equal(t, area.PermAll, owner.Permission)

	manager, ok := s.ByName("Manager")
	require.True(t, ok)
	assert.Equal(t, area.PermAll.Without(area.PermOwner), manager.Permission)

	trusted, ok := s.ByName("Trusted")
	require.True(t, ok)
	assert.False(t, trusted.Permission.Has(area.PermExplosion))
	assert.False(t, trusted.Permission.Has(area.PermAddPlayer))
	assert.False(t, trusted.Permission.Has(area.PermOwner))
	assert.True(t, trusted.Permission.Has(area.PermPlaceBlocks))

	_, ok = s.ByName("landlord")
	assert.False(t, ok)

	assert.Equal(t, "Visitor", s.All()[0].Name, "display order follows definition order")
}

func TestSet_NameFor(t *testing.T) {
	s := preset.Builtins()
	assert.Equal(t, "Visitor", s.NameFor(area.PermDefault))
	assert.Equal(t, "Owner", s.NameFor(area.PermAll))
	assert.Equal(t, preset.CustomName, s.NameFor(area.PermDefault|area.PermExplosion))
}

func TestNewSet_ReplacesByName(t *testing.T) {
	s, err := preset.NewSet([]preset.Definition{
		{Name: "Visitor", Expression: "Default"},
		{Name: "Builder", Expression: "Default | PlaceBlocks"},
		{Name: "visitor", Expression: "Default | DoorInteract"},
	})
	require.NoError(t, err)

	got, ok := s.ByName("Visitor")
	require.True(t, ok)
	assert.Equal(t, area.PermDefault|area.PermDoorInteract, got.Permission, "same name replaces")
	assert.Len(t, s.All(), 2, "replacement keeps the original position")
	assert.Equal(t, "visitor", s.All()[0].Name)
}

func TestNewSet_CompileError(t *testing.T) {
	_, err := preset.NewSet([]preset.Definition{{Name: "Broken", Expression: "Enter |"}})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	// Two files: lexical order decides which override wins.
	writeFile(t, dir, "10-custom.yaml", `
presets:
  Shopkeeper: "Default | DoorInteract | PutToChest | GetFromChest"
  Visitor: "Default | DoorInteract"
`)
	writeFile(t, dir, "20-extra.yml", `
presets:
  Visitor: "Default | OtherInteract"
`)
	writeFile(t, dir, "ignored.txt", "not a preset file")

	s, err := preset.Load(dir)
	require.NoError(t, err)

	shopkeeper, ok := s.ByName("Shopkeeper")
	require.True(t, ok)
	assert.Equal(t, area.PermDefault|area.PermDoorInteract|area.PermPutToChest|area.PermGetFromChest,
		shopkeeper.Permission)

	visitor, ok := s.ByName("Visitor")
	require.True(t, ok)
	assert.Equal(t, area.PermDefault|area.PermOtherInteract, visitor.Permission,
		"the later file overrides the earlier one and the builtin")

	_, ok = s.ByName("Owner")
	assert.True(t, ok, "builtins are always present")
}

func TestLoad_MissingDir(t *testing.T) {
	s, err := preset.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	_, ok := s.ByName("Visitor")
	assert.True(t, ok)
}

func TestLoad_EmptyDirName(t *testing.T) {
	s, err := preset.Load("")
	require.NoError(t, err)
	assert.Equal(t, preset.Builtins().Names(), s.Names())
}

func TestLoad_BadExpression(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
presets:
  Broken: "Enter &"
`)
	_, err := preset.Load(dir)
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
