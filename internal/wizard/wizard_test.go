// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/wizard"
)

var worldLimits = wizard.Limits{HeightBottom: -1000, HeightTop: 1000}

func TestNew(t *testing.T) {
	anchor := area.Vec3{X: 10, Y: 64, Z: -5}
	w := wizard.New(7, anchor, worldLimits)

	assert.Equal(t, area.ActorID(7), w.ActorID())
	assert.Equal(t, wizard.StateSelectingExtent, w.State())
	assert.Equal(t, area.Extent{Min: anchor, Max: anchor}, w.Extent(), "starts as the single anchor block")
}

func TestSetCorner(t *testing.T) {
	w := wizard.New(7, area.Vec3{X: 10, Y: 10, Z: 10}, worldLimits)

	// Corners may be given in any order relative to the anchor.
	require.NoError(t, w.SetCorner(area.Vec3{X: 2, Y: 20, Z: 4}))
	assert.Equal(t, area.Vec3{X: 2, Y: 10, Z: 4}, w.Extent().Min)
	assert.Equal(t, area.Vec3{X: 10, Y: 20, Z: 10}, w.Extent().Max)

	// A later corner replaces the earlier one, still spanning the anchor.
	require.NoError(t, w.SetCorner(area.Vec3{X: 30, Y: 5000, Z: 30}))
	assert.Equal(t, area.Vec3{X: 10, Y: 10, Z: 10}, w.Extent().Min)
	assert.Equal(t, area.Vec3{X: 30, Y: 1000, Z: 30}, w.Extent().Max, "vertical reach is clamped")
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name    string
		face    wizard.Face
		delta   int
		wantMin area.Vec3
		wantMax area.Vec3
	}{
		{"west grows min X outward", wizard.FaceWest, 3, area.Vec3{X: -3}, area.Vec3{X: 10, Y: 10, Z: 10}},
		{"east grows max X outward", wizard.FaceEast, 3, area.Vec3{}, area.Vec3{X: 13, Y: 10, Z: 10}},
		{"bottom grows min Y outward", wizard.FaceBottom, 3, area.Vec3{Y: -3}, area.Vec3{X: 10, Y: 10, Z: 10}},
		{"top grows max Y outward", wizard.FaceTop, 3, area.Vec3{}, area.Vec3{X: 10, Y: 13, Z: 10}},
		{"north grows min Z outward", wizard.FaceNorth, 3, area.Vec3{Z: -3}, area.Vec3{X: 10, Y: 10, Z: 10}},
		{"south grows max Z outward", wizard.FaceSouth, 3, area.Vec3{}, area.Vec3{X: 10, Y: 10, Z: 13}},
		{"negative delta shrinks", wizard.FaceEast, -4, area.Vec3{}, area.Vec3{X: 6, Y: 10, Z: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wizard.New(7, area.Vec3{}, worldLimits)
			require.NoError(t, w.SetCorner(area.Vec3{X: 10, Y: 10, Z: 10}))
			require.NoError(t, w.Adjust(tt.face, tt.delta))
			assert.Equal(t, tt.wantMin, w.Extent().Min)
			assert.Equal(t, tt.wantMax, w.Extent().Max)
		})
	}
}

func TestAdjust_Invalid(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, worldLimits)
	require.NoError(t, w.SetCorner(area.Vec3{X: 10, Y: 10, Z: 10}))

	before := w.Extent()
	err := w.Adjust(wizard.FaceEast, -20)
	assert.ErrorIs(t, err, area.ErrInvalidArgument, "a face may not cross its opposite")
	assert.Equal(t, before, w.Extent(), "a rejected adjustment changes nothing")

	assert.ErrorIs(t, w.Adjust(wizard.Face(42), 1), area.ErrInvalidArgument)
}

func TestAdjust_ClampsHeight(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, wizard.Limits{HeightBottom: -50, HeightTop: 50})
	require.NoError(t, w.Adjust(wizard.FaceTop, 500))
	require.NoError(t, w.Adjust(wizard.FaceBottom, 500))
	assert.Equal(t, -50, w.Extent().Min.Y)
	assert.Equal(t, 50, w.Extent().Max.Y)
}

func TestFullFlow(t *testing.T) {
	w := wizard.New(7, area.Vec3{X: 5, Y: 5, Z: 5}, worldLimits)
	require.NoError(t, w.SetCorner(area.Vec3{X: 15, Y: 15, Z: 15}))
	require.NoError(t, w.ConfirmExtent())
	assert.Equal(t, wizard.StateConfirmingMetadata, w.State())

	require.NoError(t, w.SetName("  Harbor  "))
	require.NoError(t, w.SetDefault(area.PermDefault|area.PermDoorInteract))

	result, err := w.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "Harbor", result.Name, "name is trimmed")
	assert.Equal(t, area.PermDefault|area.PermDoorInteract, result.Default)
	assert.Equal(t, area.NewExtent(area.Vec3{X: 5, Y: 5, Z: 5}, area.Vec3{X: 15, Y: 15, Z: 15}), result.Extent)
	assert.Equal(t, wizard.StateDone, w.State())
}

func TestConfirm_RequiresName(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, worldLimits)
	require.NoError(t, w.ConfirmExtent())

	_, err := w.Confirm()
	assert.ErrorIs(t, err, wizard.ErrUnnamed)

	require.NoError(t, w.SetName("   "))
	_, err = w.Confirm()
	assert.ErrorIs(t, err, wizard.ErrUnnamed, "a blank name does not count")

	assert.Equal(t, wizard.StateConfirmingMetadata, w.State(), "the flow stays open")
}

func TestConfirm_DefaultPermission(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, worldLimits)
	require.NoError(t, w.ConfirmExtent())
	require.NoError(t, w.SetName("camp"))

	result, err := w.Confirm()
	require.NoError(t, err)
	assert.Equal(t, area.PermDefault, result.Default, "Enter|Leave unless chosen otherwise")
}

func TestStateGates(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, worldLimits)

	assert.ErrorIs(t, w.SetName("early"), wizard.ErrWrongState)
	assert.ErrorIs(t, w.SetDefault(area.PermAll), wizard.ErrWrongState)
	_, err := w.Confirm()
	assert.ErrorIs(t, err, wizard.ErrWrongState)

	require.NoError(t, w.ConfirmExtent())
	assert.ErrorIs(t, w.SetCorner(area.Vec3{X: 1}), wizard.ErrWrongState)
	assert.ErrorIs(t, w.Adjust(wizard.FaceEast, 1), wizard.ErrWrongState)
	assert.ErrorIs(t, w.ConfirmExtent(), wizard.ErrWrongState)
}

func TestAbort(t *testing.T) {
	w := wizard.New(7, area.Vec3{}, worldLimits)
	require.NoError(t, w.Abort())
	assert.Equal(t, wizard.StateAborted, w.State())
	assert.ErrorIs(t, w.Abort(), wizard.ErrWrongState, "aborted is terminal")

	done := wizard.New(7, area.Vec3{}, worldLimits)
	require.NoError(t, done.ConfirmExtent())
	require.NoError(t, done.SetName("camp"))
	_, err := done.Confirm()
	require.NoError(t, err)
	assert.ErrorIs(t, done.Abort(), wizard.ErrWrongState, "done is terminal")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "selecting-extent", wizard.StateSelectingExtent.String())
	assert.Equal(t, "confirming-metadata", wizard.StateConfirmingMetadata.String())
	assert.Equal(t, "done", wizard.StateDone.String())
	assert.Equal(t, "aborted", wizard.StateAborted.String())
	assert.Equal(t, "unknown", wizard.State(99).String())
}
