// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/service"
	"github.com/olegiv/dotment-go/internal/store"
)

// ShareLinkResponse represents a share link in API responses.
type ShareLinkResponse struct {
	ID         int64      `json:"id"`
	Token      string     `json:"token"`
	PackageID  int64      `json:"package_id"`
	EmployeeID string     `json:"employee_id"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MintShareLinkRequest represents the request body for minting a share link.
// TTL is in hours; zero falls back to the default.
type MintShareLinkRequest struct {
	EmployeeID string `json:"employee_id"`
	TTLHours   int64  `json:"ttl_hours,omitempty"`
}

func storeShareLinkToResponse(link store.ShareLink) ShareLinkResponse {
	resp := ShareLinkResponse{
		ID:         link.ID,
		Token:      link.Token,
		PackageID:  link.PackageID,
		EmployeeID: link.EmployeeID,
		ExpiresAt:  link.ExpiresAt,
		CreatedAt:  link.CreatedAt,
	}
	if link.RevokedAt.Valid {
		resp.RevokedAt = &link.RevokedAt.Time
	}
	return resp
}

// MintShareLink handles POST /api/v1/packages/{id}/share.
func (h *Handler) MintShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return
	}

	var req MintShareLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.EmployeeID == "" {
		WriteValidationError(w, map[string]string{"employee_id": "Employee ID is required"})
		return
	}
	if req.TTLHours < 0 {
		WriteValidationError(w, map[string]string{"ttl_hours": "TTL cannot be negative"})
		return
	}

	ttl := time.Duration(req.TTLHours) * time.Hour
	link, err := h.share.Mint(ctx, id, req.EmployeeID, ttl, middleware.GetUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Package or employee not found")
		} else {
			WriteInternalError(w, "Failed to mint share link")
		}
		return
	}

	_ = h.audit.LogDeliveryEvent(ctx, model.AuditLevelInfo, "Share link minted",
		middleware.GetClientIP(r),
		map[string]any{"package_id": id, "employee_id": req.EmployeeID, "link_id": link.ID})

	WriteCreated(w, storeShareLinkToResponse(link))
}

// ListShareLinks handles GET /api/v1/packages/{id}/share.
func (h *Handler) ListShareLinks(w http.ResponseWriter, r *http.Request) {
	pkg, ok := h.requirePackage(w, r)
	if !ok {
		return
	}

	links, err := h.share.List(r.Context(), pkg.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list share links")
		return
	}

	responses := make([]ShareLinkResponse, 0, len(links))
	for _, link := range links {
		responses = append(responses, storeShareLinkToResponse(link))
	}

	WriteSuccess(w, responses, nil)
}

// RevokeShareLink handles DELETE /api/v1/share-links/{id}.
func (h *Handler) RevokeShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid share link ID", nil)
		return
	}

	if err := h.share.Revoke(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Share link not found")
		} else {
			WriteInternalError(w, "Failed to revoke share link")
		}
		return
	}

	_ = h.audit.LogDeliveryEvent(ctx, model.AuditLevelInfo, "Share link revoked",
		middleware.GetClientIP(r), map[string]any{"link_id": id})

	w.WriteHeader(http.StatusNoContent)
}
