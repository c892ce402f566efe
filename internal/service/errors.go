// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a save races with another writer and
	// the stored content no longer matches the loaded version.
	ErrConflict = errors.New("content version conflict")

	// ErrPartialSave is returned when a content save left the stored block
	// set in an inconsistent state. The transactional save path should
	// never produce it; it survives in the taxonomy so API clients keep a
	// stable error code for storage-level save failures.
	ErrPartialSave = errors.New("partial save")

	// ErrInvalidBlockType is returned for an unrecognized block type.
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrInvalidContent is returned when block content fails validation.
	ErrInvalidContent = errors.New("invalid block content")
)
