// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
)

// AuditRepository implements area.AuditRepository using PostgreSQL.
// Events are append-only; nothing in the engine reads them back.
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append persists one audit event.
func (r *AuditRepository) Append(ctx context.Context, event area.AuditEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_events (id, kind, region_id, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID.String(), event.Kind, int64(event.RegionID), int64(event.ActorID),
		event.Detail, event.CreatedAt)
	if err != nil {
		return oops.With("operation", "append audit event").
			With("id", event.ID.String()).With("kind", event.Kind).Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ area.AuditRepository = (*AuditRepository)(nil)
