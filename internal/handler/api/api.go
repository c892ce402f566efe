// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides REST API handlers for the admin portal and the
// public delivery gate.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/dotment-go/internal/analytics"
	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/imaging"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/service"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/version"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db              *sql.DB
	queries         *store.Queries
	sessions        *scs.SessionManager
	editor          *service.EditorService
	delivery        *service.DeliveryService
	share           *service.ShareService
	audit           *service.AuditService
	reports         *analytics.Aggregator
	processor       *imaging.Processor
	cache           cache.Cache
	loginProtection *middleware.LoginProtection
}

// Deps bundles the services the API handlers depend on.
type Deps struct {
	DB              *sql.DB
	Sessions        *scs.SessionManager
	Editor          *service.EditorService
	Delivery        *service.DeliveryService
	Share           *service.ShareService
	Audit           *service.AuditService
	Reports         *analytics.Aggregator
	Processor       *imaging.Processor
	Cache           cache.Cache
	LoginProtection *middleware.LoginProtection
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		db:              deps.DB,
		queries:         store.New(deps.DB),
		sessions:        deps.Sessions,
		editor:          deps.Editor,
		delivery:        deps.Delivery,
		share:           deps.Share,
		audit:           deps.Audit,
		reports:         deps.Reports,
		processor:       deps.Processor,
		cache:           deps.Cache,
		loginProtection: deps.LoginProtection,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{
		Data: data,
		Meta: meta,
	})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{
		Data: data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: version.Version,
	}, nil)
}
