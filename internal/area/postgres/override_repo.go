// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
)

// OverrideRepository implements area.OverrideRepository using PostgreSQL.
// The manager pseudo-region (-1) is stored like any other region ID, so
// the override tables carry no foreign key to regions.
type OverrideRepository struct {
	db DB
}

// NewOverrideRepository creates a new OverrideRepository.
func NewOverrideRepository(db DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// ActorOverrides returns all actor overrides for one region.
func (r *OverrideRepository) ActorOverrides(ctx context.Context, regionID area.RegionID) (map[area.ActorID]area.Permission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT actor_id, perm FROM actor_overrides WHERE region_id = $1`,
		int64(regionID))
	if err != nil {
		return nil, oops.With("operation", "list actor overrides").With("region_id", int64(regionID)).Wrap(err)
	}
	defer rows.Close()

	out := make(map[area.ActorID]area.Permission)
	for rows.Next() {
		var subject, perm int64
		if err := rows.Scan(&subject, &perm); err != nil {
			return nil, oops.With("operation", "scan actor override").Wrap(err)
		}
		out[area.ActorID(subject)] = area.Permission(perm)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate actor overrides").Wrap(err)
	}
	return out, nil
}

// GroupOverrides returns all group overrides for one region.
func (r *OverrideRepository) GroupOverrides(ctx context.Context, regionID area.RegionID) (map[area.GroupID]area.Permission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT group_id, perm FROM group_overrides WHERE region_id = $1`,
		int64(regionID))
	if err != nil {
		return nil, oops.With("operation", "list group overrides").With("region_id", int64(regionID)).Wrap(err)
	}
	defer rows.Close()

	out := make(map[area.GroupID]area.Permission)
	for rows.Next() {
		var subject, perm int64
		if err := rows.Scan(&subject, &perm); err != nil {
			return nil, oops.With("operation", "scan group override").Wrap(err)
		}
		out[area.GroupID(subject)] = area.Permission(perm)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate group overrides").Wrap(err)
	}
	return out, nil
}

// RegionsForActor returns every override held by one actor, keyed by
// region. The manager pseudo-region appears here when granted.
func (r *OverrideRepository) RegionsForActor(ctx context.Context, actorID area.ActorID) (map[area.RegionID]area.Permission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT region_id, perm FROM actor_overrides WHERE actor_id = $1`,
		int64(actorID))
	if err != nil {
		return nil, oops.With("operation", "list regions for actor").With("actor_id", int64(actorID)).Wrap(err)
	}
	defer rows.Close()

	out := make(map[area.RegionID]area.Permission)
	for rows.Next() {
		var regionID, perm int64
		if err := rows.Scan(&regionID, &perm); err != nil {
			return nil, oops.With("operation", "scan actor override").Wrap(err)
		}
		out[area.RegionID(regionID)] = area.Permission(perm)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate actor overrides").Wrap(err)
	}
	return out, nil
}

// UpsertActor writes an actor override, last write wins.
func (r *OverrideRepository) UpsertActor(ctx context.Context, regionID area.RegionID, actorID area.ActorID, perm area.Permission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO actor_overrides (region_id, actor_id, perm)
		VALUES ($1, $2, $3)
		ON CONFLICT (region_id, actor_id) DO UPDATE SET perm = EXCLUDED.perm
	`, int64(regionID), int64(actorID), int64(perm))
	if err != nil {
		return oops.With("operation", "upsert actor override").
			With("region_id", int64(regionID)).With("actor_id", int64(actorID)).Wrap(err)
	}
	return nil
}

// DeleteActor removes an actor override. Absent rows are a no-op.
func (r *OverrideRepository) DeleteActor(ctx context.Context, regionID area.RegionID, actorID area.ActorID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM actor_overrides WHERE region_id = $1 AND actor_id = $2`,
		int64(regionID), int64(actorID))
	if err != nil {
		return oops.With("operation", "delete actor override").
			With("region_id", int64(regionID)).With("actor_id", int64(actorID)).Wrap(err)
	}
	return nil
}

// UpsertGroup writes a group override, last write wins.
func (r *OverrideRepository) UpsertGroup(ctx context.Context, regionID area.RegionID, groupID area.GroupID, perm area.Permission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_overrides (region_id, group_id, perm)
		VALUES ($1, $2, $3)
		ON CONFLICT (region_id, group_id) DO UPDATE SET perm = EXCLUDED.perm
	`, int64(regionID), int64(groupID), int64(perm))
	if err != nil {
		if isForeignKeyViolation(err) {
			return oops.Code("GROUP_NOT_FOUND").With("group_id", int64(groupID)).Wrap(area.ErrNotFound)
		}
		return oops.With("operation", "upsert group override").
			With("region_id", int64(regionID)).With("group_id", int64(groupID)).Wrap(err)
	}
	return nil
}

// DeleteGroup removes a group override. Absent rows are a no-op.
func (r *OverrideRepository) DeleteGroup(ctx context.Context, regionID area.RegionID, groupID area.GroupID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM group_overrides WHERE region_id = $1 AND group_id = $2`,
		int64(regionID), int64(groupID))
	if err != nil {
		return oops.With("operation", "delete group override").
			With("region_id", int64(regionID)).With("group_id", int64(groupID)).Wrap(err)
	}
	return nil
}

// DeleteForRegion removes every override row tied to a region.
func (r *OverrideRepository) DeleteForRegion(ctx context.Context, regionID area.RegionID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM actor_overrides WHERE region_id = $1`, int64(regionID)); err != nil {
		return oops.With("operation", "delete actor overrides").With("region_id", int64(regionID)).Wrap(err)
	}
	if _, err := r.db.Exec(ctx,
		`DELETE FROM group_overrides WHERE region_id = $1`, int64(regionID)); err != nil {
		return oops.With("operation", "delete group overrides").With("region_id", int64(regionID)).Wrap(err)
	}
	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation. group_overrides references perm_groups.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// Compile-time interface check.
var _ area.OverrideRepository = (*OverrideRepository)(nil)
