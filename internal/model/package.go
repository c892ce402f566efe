// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain constants and types shared across the
// application: package statuses, block types and payloads, event types,
// and operator roles.
package model

// Package statuses
const (
	PackageStatusDraft     = "draft"
	PackageStatusPublished = "published"
)

// ValidPackageStatuses contains all valid package statuses.
var ValidPackageStatuses = []string{PackageStatusDraft, PackageStatusPublished}

// IsValidPackageStatus checks if a status is valid.
func IsValidPackageStatus(status string) bool {
	for _, s := range ValidPackageStatuses {
		if s == status {
			return true
		}
	}
	return false
}
