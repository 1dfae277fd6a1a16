// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package engine

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/areaguard/areaguard/internal/area"
)

// audit appends a mutation record. Appends are best-effort: a failed append
// is logged and never blocks or rolls back the mutation it describes.
func (e *Engine) audit(ctx context.Context, kind string, regionID area.RegionID, actorID area.ActorID, detail string) {
	if e.repo.Audit == nil {
		return
	}
	event := area.AuditEvent{
		ID:        ulid.Make(),
		Kind:      kind,
		RegionID:  regionID,
		ActorID:   actorID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.repo.Audit.Append(ctx, event); err != nil {
		e.log.Warn("audit append failed", "kind", kind, "region_id", int64(regionID), "error", err)
	}
}
