// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Operator roles. super_admin can manage other operator accounts;
// admin can manage content, the directory, and analytics.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// ValidRoles contains all valid operator roles.
var ValidRoles = []string{RoleSuperAdmin, RoleAdmin}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
