// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package area

import "fmt"

// Vec3 is a 3D point in integer block coordinates.
type Vec3 struct {
	X, Y, Z int
}

// String returns the point as "(x, y, z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Extent is an axis-aligned box with inclusive bounds. A normalized extent
// has Min ≤ Max on every axis; every constructor and mutation path must go
// through Normalize so the rest of the code can rely on that.
type Extent struct {
	Min, Max Vec3
}

// NewExtent builds a normalized extent from two opposite corners, in any
// order.
func NewExtent(a, b Vec3) Extent {
	e := Extent{Min: a, Max: b}
	e.Normalize()
	return e
}

// Normalize swaps bounds per axis so that Min ≤ Max component-wise.
// The spanned volume is unchanged.
func (e *Extent) Normalize() {
	if e.Min.X > e.Max.X {
		e.Min.X, e.Max.X = e.Max.X, e.Min.X
	}
	if e.Min.Y > e.Max.Y {
		e.Min.Y, e.Max.Y = e.Max.Y, e.Min.Y
	}
	if e.Min.Z > e.Max.Z {
		e.Min.Z, e.Max.Z = e.Max.Z, e.Min.Z
	}
}

// ContainsPoint reports whether p lies inside the extent, bounds inclusive.
func (e Extent) ContainsPoint(p Vec3) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X &&
		p.Y >= e.Min.Y && p.Y <= e.Max.Y &&
		p.Z >= e.Min.Z && p.Z <= e.Max.Z
}

// Intersects reports whether the two extents overlap. Two axis-aligned boxes
// intersect iff their projections overlap on all three axes, with inclusive
// bounds: touching faces count as intersecting.
func (e Extent) Intersects(other Extent) bool {
	return e.Min.X <= other.Max.X && other.Min.X <= e.Max.X &&
		e.Min.Y <= other.Max.Y && other.Min.Y <= e.Max.Y &&
		e.Min.Z <= other.Max.Z && other.Min.Z <= e.Max.Z
}

// Center returns the block nearest the geometric centre of the extent.
func (e Extent) Center() Vec3 {
	return Vec3{
		X: (e.Min.X + e.Max.X) / 2,
		Y: (e.Min.Y + e.Max.Y) / 2,
		Z: (e.Min.Z + e.Max.Z) / 2,
	}
}

// Size returns the span of the extent in blocks per axis. Bounds are
// inclusive, so a degenerate extent has size (1, 1, 1).
func (e Extent) Size() Vec3 {
	return Vec3{
		X: e.Max.X - e.Min.X + 1,
		Y: e.Max.Y - e.Min.Y + 1,
		Z: e.Max.Z - e.Min.Z + 1,
	}
}

// String returns the extent as "min..max".
func (e Extent) String() string {
	return e.Min.String() + ".." + e.Max.String()
}
