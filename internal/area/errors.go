// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package area

import "errors"

// Domain error taxonomy. Persistence failures are not sentinels: they are
// backend errors wrapped with context by the repositories.
var (
	// ErrInvalidArgument is returned for malformed mutation input, such as
	// updating a region with no ID.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a referenced region, actor, or group
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCannotEnter vetoes a boundary crossing into a region whose
	// effective permission lacks the Enter bit. It is expected control
	// flow, not a system error.
	ErrCannotEnter = errors.New("cannot enter region")

	// ErrCannotLeave vetoes a boundary crossing out of a region whose
	// effective permission lacks the Leave bit.
	ErrCannotLeave = errors.New("cannot leave region")
)
