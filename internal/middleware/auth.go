// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/dotment-go/internal/service"
	"github.com/olegiv/dotment-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionKeyUserID holds the authenticated operator's ID in the admin session.
const SessionKeyUserID = "user_id"

// Auth creates middleware that requires authentication.
// API clients get a 401 JSON-free response rather than a redirect.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request context.
// This should be used after Auth middleware.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// User not found or error - clear the stale session
				_ = sm.Destroy(r.Context())
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetUserIDPtr returns a pointer to the current user's ID from context, or nil if not found.
// Useful for optional user ID parameters in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// GetUserEmail returns the current user's email from context, or empty string if not found.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// User roles - must match model.Role* constants.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// roleLevel returns a numeric level for role hierarchy.
// Higher level = more permissions. Unauthenticated users have level 0.
func roleLevel(role string) int {
	switch role {
	case RoleSuperAdmin:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// RequireRole creates middleware that requires a minimum user role.
// Roles are hierarchical: super_admin > admin.
// For example, RequireRole("admin") allows both super_admin and admin users.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	return RequireRoleWithAudit(minRole, nil)
}

// RequireRoleWithAudit creates middleware that requires a minimum user role and
// records denied requests in the audit log.
func RequireRoleWithAudit(minRole string, audit *service.AuditService) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userLevel := roleLevel(user.Role)
			if userLevel < minLevel {
				// Log 403 for security monitoring (application logs)
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
					"remote_addr", r.RemoteAddr,
				)

				if audit != nil {
					userID := user.ID
					metadata := map[string]any{
						"method":        r.Method,
						"path":          r.URL.Path,
						"status":        http.StatusForbidden,
						"user_role":     user.Role,
						"required_role": minRole,
					}
					_ = audit.LogAuthEvent(r.Context(), "warning", "Access denied: insufficient permissions", &userID, GetClientIP(r), metadata)
				}

				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin creates middleware that requires the super_admin role.
// Shorthand for RequireRole(RoleSuperAdmin).
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleSuperAdmin)
}

// RequireAdmin creates middleware that requires at least admin role.
// Allows both super_admin and admin users.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin)
}
