// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
)

// RegionRepository implements area.RegionRepository using PostgreSQL.
type RegionRepository struct {
	db DB
}

// NewRegionRepository creates a new RegionRepository.
func NewRegionRepository(db DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// List retrieves all regions ordered case-insensitively by name.
// Override maps are left empty; the engine attaches them separately.
func (r *RegionRepository) List(ctx context.Context) ([]*area.Region, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, min_x, min_y, min_z, max_x, max_y, max_z, default_perm
		FROM regions ORDER BY lower(name), id
	`)
	if err != nil {
		return nil, oops.With("operation", "list regions").Wrap(err)
	}
	defer rows.Close()

	return scanRegions(rows)
}

// Create persists a new region and assigns its ID.
func (r *RegionRepository) Create(ctx context.Context, reg *area.Region) error {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO regions (name, min_x, min_y, min_z, max_x, max_y, max_z, default_perm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, reg.Name,
		reg.Extent.Min.X, reg.Extent.Min.Y, reg.Extent.Min.Z,
		reg.Extent.Max.X, reg.Extent.Max.Y, reg.Extent.Max.Z,
		int64(reg.Default)).Scan(&id)
	if err != nil {
		return oops.With("operation", "create region").With("name", reg.Name).Wrap(err)
	}
	reg.ID = area.RegionID(id)
	return nil
}

// Update rewrites the row for reg.ID.
func (r *RegionRepository) Update(ctx context.Context, reg *area.Region) error {
	result, err := r.db.Exec(ctx, `
		UPDATE regions SET name = $2, min_x = $3, min_y = $4, min_z = $5,
		max_x = $6, max_y = $7, max_z = $8, default_perm = $9
		WHERE id = $1
	`, int64(reg.ID), reg.Name,
		reg.Extent.Min.X, reg.Extent.Min.Y, reg.Extent.Min.Z,
		reg.Extent.Max.X, reg.Extent.Max.Y, reg.Extent.Max.Z,
		int64(reg.Default))
	if err != nil {
		return oops.With("operation", "update region").With("id", int64(reg.ID)).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("REGION_NOT_FOUND").With("id", int64(reg.ID)).Wrap(area.ErrNotFound)
	}
	return nil
}

// Delete removes a region row by ID.
func (r *RegionRepository) Delete(ctx context.Context, id area.RegionID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM regions WHERE id = $1`, int64(id))
	if err != nil {
		return oops.With("operation", "delete region").With("id", int64(id)).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("REGION_NOT_FOUND").With("id", int64(id)).Wrap(area.ErrNotFound)
	}
	return nil
}

func scanRegions(rows pgx.Rows) ([]*area.Region, error) {
	regions := make([]*area.Region, 0)
	for rows.Next() {
		var (
			id, perm int64
			name     string
			min, max area.Vec3
		)
		if err := rows.Scan(&id, &name,
			&min.X, &min.Y, &min.Z, &max.X, &max.Y, &max.Z, &perm); err != nil {
			return nil, oops.With("operation", "scan region").Wrap(err)
		}

		// A hand-edited row may carry inverted corners.
		ext := area.Extent{Min: min, Max: max}
		ext.Normalize()

		regions = append(regions, &area.Region{
			ID:             area.RegionID(id),
			Name:           name,
			Extent:         ext,
			Default:        area.Permission(perm),
			ActorOverrides: make(map[area.ActorID]area.Permission),
			GroupOverrides: make(map[area.GroupID]area.Permission),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate regions").Wrap(err)
	}

	return regions, nil
}

// Compile-time interface check.
var _ area.RegionRepository = (*RegionRepository)(nil)
