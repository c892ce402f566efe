// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/auth"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
)

// UserResponse represents an operator account in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// CreateUserRequest represents the request body for creating an operator.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the request body for updating an operator.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

const minPasswordLength = 8

func storeUserToResponse(u store.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, storeUserToResponse(u))
	}

	WriteSuccess(w, responses, nil)
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, storeUserToResponse(user), nil)
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	fieldErrors := make(map[string]string)
	if !isValidEmail(req.Email) {
		fieldErrors["email"] = "A valid email address is required"
	}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !model.IsValidRole(req.Role) {
		fieldErrors["role"] = "Role must be 'super_admin' or 'admin'"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.queries.GetUserByEmail(ctx, req.Email); err == nil {
		WriteValidationError(w, map[string]string{"email": "Email already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		WriteInternalError(w, "Failed to check email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}

	_ = h.audit.LogUserEvent(ctx, model.AuditLevelInfo, "User created",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"user_id": user.ID, "email": user.Email, "role": user.Role})

	WriteCreated(w, storeUserToResponse(user))
}

// UpdateUser handles PUT /api/v1/users/{id}.
// Demoting the last super_admin is rejected.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	params := store.UpdateUserParams{
		Email:     existing.Email,
		Name:      existing.Name,
		Role:      existing.Role,
		UpdatedAt: time.Now(),
		ID:        existing.ID,
	}
	if req.Email != nil {
		params.Email = *req.Email
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Role != nil {
		params.Role = *req.Role
	}

	fieldErrors := make(map[string]string)
	if !isValidEmail(params.Email) {
		fieldErrors["email"] = "A valid email address is required"
	}
	if params.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !model.IsValidRole(params.Role) {
		fieldErrors["role"] = "Role must be 'super_admin' or 'admin'"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if existing.Role == model.RoleSuperAdmin && params.Role != model.RoleSuperAdmin {
		if ok := h.guardLastSuperAdmin(w, ctx); !ok {
			return
		}
	}

	user, err := h.queries.UpdateUser(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update user")
		return
	}

	_ = h.audit.LogUserEvent(ctx, model.AuditLevelInfo, "User updated",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"user_id": user.ID, "role": user.Role})

	WriteSuccess(w, storeUserToResponse(user), nil)
}

// DeleteUser handles DELETE /api/v1/users/{id}.
// Deleting yourself or the last super_admin is rejected.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if user.ID == middleware.GetUserID(r) {
		WriteValidationError(w, map[string]string{"id": "You cannot delete your own account"})
		return
	}

	if user.Role == model.RoleSuperAdmin {
		if ok := h.guardLastSuperAdmin(w, ctx); !ok {
			return
		}
	}

	if err := h.queries.DeleteUser(ctx, user.ID); err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}

	_ = h.audit.LogUserEvent(ctx, model.AuditLevelWarning, "User deleted",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"user_id": user.ID, "email": user.Email})

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, storeUserToResponse(*user), nil)
}

// ChangePassword handles POST /api/v1/users/me/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if len(req.NewPassword) < minPasswordLength {
		WriteValidationError(w, map[string]string{"new_password": "Password must be at least 8 characters"})
		return
	}

	valid, err := auth.CheckPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !valid {
		WriteValidationError(w, map[string]string{"current_password": "Current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}

	if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	}); err != nil {
		WriteInternalError(w, "Failed to update password")
		return
	}

	_ = h.audit.LogUserEvent(ctx, model.AuditLevelInfo, "Password changed",
		&user.ID, middleware.GetClientIP(r), nil)

	w.WriteHeader(http.StatusNoContent)
}

// guardLastSuperAdmin writes a validation error and returns false when only
// one super_admin account remains.
func (h *Handler) guardLastSuperAdmin(w http.ResponseWriter, ctx context.Context) bool {
	count, err := h.queries.CountUsersByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		WriteInternalError(w, "Failed to count super admins")
		return false
	}
	if count <= 1 {
		WriteValidationError(w, map[string]string{"role": "At least one super_admin account must remain"})
		return false
	}
	return true
}

// requireUser fetches the operator addressed by the {id} URL parameter.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return store.User{}, false
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
		} else {
			WriteInternalError(w, "Failed to retrieve user")
		}
		return store.User{}, false
	}
	return user, true
}
