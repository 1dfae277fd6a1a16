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

// GroupRepository implements area.GroupRepository using PostgreSQL.
type GroupRepository struct {
	db DB
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// All returns every known group keyed by ID.
func (r *GroupRepository) All(ctx context.Context) (map[area.GroupID]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM perm_groups`)
	if err != nil {
		return nil, oops.With("operation", "list groups").Wrap(err)
	}
	defer rows.Close()

	out := make(map[area.GroupID]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, oops.With("operation", "scan group").Wrap(err)
		}
		out[area.GroupID(id)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate groups").Wrap(err)
	}
	return out, nil
}

// Ensure returns the ID for a group name, inserting it first when the
// name is new. A concurrent insert of the same name loses the race on
// the unique index and falls back to reading the winner's row.
func (r *GroupRepository) Ensure(ctx context.Context, name string) (area.GroupID, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO perm_groups (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err == nil {
		return area.GroupID(id), nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return 0, oops.With("operation", "insert group").With("name", name).Wrap(err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT id FROM perm_groups WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, oops.With("operation", "select group").With("name", name).Wrap(err)
	}
	return area.GroupID(id), nil
}

// Compile-time interface check.
var _ area.GroupRepository = (*GroupRepository)(nil)
