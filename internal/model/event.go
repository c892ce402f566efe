// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Audit event levels
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit event categories
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryPackage  = "package"
	AuditCategoryEmployee = "employee"
	AuditCategoryUser     = "user"
	AuditCategoryDelivery = "delivery"
	AuditCategorySystem   = "system"
)

// Analytics event types recorded against a package by the public viewer.
const (
	EventTypeOpen       = "open"
	EventTypeSubmitPoll = "submit_poll"
)
