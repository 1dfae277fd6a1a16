// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package wizard implements the interactive region-creation flow: an
// actor anchors a selection at their position, grows it face by face,
// then names it and picks a default permission before the region is
// handed to the engine for creation.
package wizard

import (
	"errors"
	"strings"

	"github.com/areaguard/areaguard/internal/area"
)

// Wizard errors.
var (
	// ErrWrongState is returned when an event arrives in a state that
	// does not accept it.
	ErrWrongState = errors.New("wizard: event not valid in current state")
	// ErrUnnamed is returned by Confirm when no name has been set.
	ErrUnnamed = errors.New("wizard: region name required")
)

// State is a phase of the creation flow.
type State int

// Creation flow states. Done and Aborted are terminal.
const (
	StateSelectingExtent State = iota
	StateConfirmingMetadata
	StateDone
	StateAborted
)

// String returns the state name for logs and prompts.
func (s State) String() string {
	switch s {
	case StateSelectingExtent:
		return "selecting-extent"
	case StateConfirmingMetadata:
		return "confirming-metadata"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Face identifies one boundary plane of the selection.
type Face int

// Selection faces. Bottom and Top are the vertical boundaries and are
// clamped to the configured world height range.
const (
	FaceWest   Face = iota // min X
	FaceEast               // max X
	FaceBottom             // min Y
	FaceTop                // max Y
	FaceNorth              // min Z
	FaceSouth              // max Z
)

// Limits bounds the vertical reach of a selection.
type Limits struct {
	HeightBottom int
	HeightTop    int
}

// Result is the finished selection produced by Confirm.
type Result struct {
	Extent  area.Extent
	Name    string
	Default area.Permission
}

// Wizard tracks one actor's in-progress region creation. It is not
// safe for concurrent use; the engine serializes host callbacks.
type Wizard struct {
	actorID area.ActorID
	state   State
	limits  Limits

	anchor area.Vec3
	extent area.Extent

	name    string
	defperm area.Permission
}

// New starts a selection anchored at the actor's position. The initial
// extent is the single block at the anchor, clamped to limits.
func New(actorID area.ActorID, anchor area.Vec3, limits Limits) *Wizard {
	w := &Wizard{
		actorID: actorID,
		state:   StateSelectingExtent,
		limits:  limits,
		anchor:  anchor,
		defperm: area.PermDefault,
	}
	w.extent = w.clamp(area.Extent{Min: anchor, Max: anchor})
	return w
}

// ActorID returns the owning actor.
func (w *Wizard) ActorID() area.ActorID { return w.actorID }

// State returns the current flow state.
func (w *Wizard) State() State { return w.state }

// Extent returns the current selection.
func (w *Wizard) Extent() area.Extent { return w.extent }

// SetCorner replaces the selection with the box spanned by the anchor
// and pos. Only valid while selecting.
func (w *Wizard) SetCorner(pos area.Vec3) error {
	if w.state != StateSelectingExtent {
		return ErrWrongState
	}
	w.extent = w.clamp(area.NewExtent(w.anchor, pos))
	return nil
}

// Adjust moves one face of the selection outward by delta blocks;
// negative delta shrinks. A face never crosses its opposite, and the
// vertical faces are clamped to limits.
func (w *Wizard) Adjust(face Face, delta int) error {
	if w.state != StateSelectingExtent {
		return ErrWrongState
	}

	e := w.extent
	switch face {
	case FaceWest:
		e.Min.X -= delta
	case FaceEast:
		e.Max.X += delta
	case FaceBottom:
		e.Min.Y -= delta
	case FaceTop:
		e.Max.Y += delta
	case FaceNorth:
		e.Min.Z -= delta
	case FaceSouth:
		e.Max.Z += delta
	default:
		return area.ErrInvalidArgument
	}

	e = w.clamp(e)
	if e.Min.X > e.Max.X || e.Min.Y > e.Max.Y || e.Min.Z > e.Max.Z {
		return area.ErrInvalidArgument
	}
	w.extent = e
	return nil
}

// ConfirmExtent freezes the selection and moves to metadata entry.
func (w *Wizard) ConfirmExtent() error {
	if w.state != StateSelectingExtent {
		return ErrWrongState
	}
	w.state = StateConfirmingMetadata
	return nil
}

// SetName sets the region name. Surrounding whitespace is trimmed.
func (w *Wizard) SetName(name string) error {
	if w.state != StateConfirmingMetadata {
		return ErrWrongState
	}
	w.name = strings.TrimSpace(name)
	return nil
}

// SetDefault sets the region's default permission.
func (w *Wizard) SetDefault(p area.Permission) error {
	if w.state != StateConfirmingMetadata {
		return ErrWrongState
	}
	w.defperm = p
	return nil
}

// Confirm completes the flow and returns the selection. The wizard is
// terminal afterwards.
func (w *Wizard) Confirm() (Result, error) {
	if w.state != StateConfirmingMetadata {
		return Result{}, ErrWrongState
	}
	if w.name == "" {
		return Result{}, ErrUnnamed
	}
	w.state = StateDone
	return Result{Extent: w.extent, Name: w.name, Default: w.defperm}, nil
}

// Abort cancels the flow from any non-terminal state.
func (w *Wizard) Abort() error {
	if w.state == StateDone || w.state == StateAborted {
		return ErrWrongState
	}
	w.state = StateAborted
	return nil
}

// clamp restricts the vertical span to the configured limits.
func (w *Wizard) clamp(e area.Extent) area.Extent {
	if e.Min.Y < w.limits.HeightBottom {
		e.Min.Y = w.limits.HeightBottom
	}
	if e.Max.Y > w.limits.HeightTop {
		e.Max.Y = w.limits.HeightTop
	}
	return e
}
