// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/auth"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the authenticated operator.
type SessionResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{"email": "Email and password are required"})
		return
	}

	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Email); locked {
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Login attempt on locked account", nil, clientIP, map[string]any{"email": req.Email})
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account locked. Try again in %s.", remaining.Round(time.Second)), nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "email", req.Email)
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Login failed: user not found", nil, clientIP, map[string]any{"email": req.Email})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		h.recordFailedLogin(w, r, req.Email, nil)
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	if !valid {
		slog.Debug("invalid password attempt", "email", req.Email)
		_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Login failed: invalid password", &user.ID, clientIP, map[string]any{"email": req.Email})
		h.recordFailedLogin(w, r, req.Email, &user.ID)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Email)
	}

	// Re-hash password if it uses outdated parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, hashErr := auth.HashPassword(req.Password); hashErr == nil {
			if updErr := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); updErr != nil {
				slog.Error("failed to re-hash password", "error", updErr, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.TouchLastLogin(r.Context(), store.TouchLastLoginParams{
		LastLoginAt: time.Now(),
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
		WriteInternalError(w, "Failed to establish session")
		return
	}

	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelInfo, "User logged in", &user.ID, clientIP, map[string]any{"email": user.Email})

	WriteSuccess(w, SessionResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil)
}

// recordFailedLogin tracks the failure and writes the appropriate error response.
func (h *Handler) recordFailedLogin(w http.ResponseWriter, r *http.Request, email string, userID *int64) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Account locked due to failed attempts",
				userID, middleware.GetClientIP(r), map[string]any{"email": email, "duration": lockDuration.String()})
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Too many failed attempts. Locked for %s.", lockDuration.Round(time.Second)), nil)
			return
		}
	}
	WriteUnauthorized(w, "Invalid credentials")
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if userID > 0 {
		_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelInfo, "User logged out", &userID, middleware.GetClientIP(r), nil)
	}

	if err := h.sessions.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	WriteSuccess(w, SessionResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil)
}
