// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"errors"
)

var (
	// ErrNotFound is returned when a looked-up resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrFilterNotSupported is returned when the directory rejects a
	// server-side account filter; callers fall back to client-side
	// filtering over the full snapshot.
	ErrFilterNotSupported = errors.New("server-side filter not supported")
)
