// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/util"
)

// PackageResponse represents a package in API responses.
type PackageResponse struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Status         string     `json:"status"`
	ContentVersion int64      `json:"content_version"`
	CreatedBy      *int64     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	BlockCount     *int64     `json:"block_count,omitempty"`
}

// CreatePackageRequest represents the request body for creating a package.
type CreatePackageRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
}

// UpdatePackageRequest represents the request body for updating a package.
type UpdatePackageRequest struct {
	Title *string `json:"title,omitempty"`
	Slug  *string `json:"slug,omitempty"`
}

// SetPackageStatusRequest represents the request body for the publish toggle.
type SetPackageStatusRequest struct {
	Status string `json:"status"`
}

// storePackageToResponse converts a store.Package to PackageResponse.
func storePackageToResponse(p store.Package) PackageResponse {
	resp := PackageResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Status:         p.Status,
		ContentVersion: p.ContentVersion,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.CreatedBy.Valid {
		resp.CreatedBy = &p.CreatedBy.Int64
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = &p.PublishedAt.Time
	}
	return resp
}

// validatePackageFields checks title and slug rules shared by create and update.
func validatePackageFields(title, slug string) map[string]string {
	fieldErrors := make(map[string]string)
	if len(title) < 3 {
		fieldErrors["title"] = "Title must be at least 3 characters"
	}
	if len(slug) < util.MinSlugLength {
		fieldErrors["slug"] = "Slug must be at least 3 characters"
	} else if !util.IsValidSlug(slug) {
		fieldErrors["slug"] = "Slug may only contain lowercase letters, digits and hyphens"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// ListPackages handles GET /api/v1/packages.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)
	offset := (page - 1) * perPage

	packages, err := h.queries.ListPackages(ctx, store.ListPackagesParams{
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list packages")
		return
	}

	total, err := h.queries.CountPackages(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count packages")
		return
	}

	responses := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		resp := storePackageToResponse(p)
		if count, countErr := h.queries.CountBlocksByPackage(ctx, p.ID); countErr == nil {
			resp.BlockCount = &count
		}
		responses = append(responses, resp)
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// RecentPackages handles GET /api/v1/packages/recent for the dashboard.
func (h *Handler) RecentPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.queries.ListPackages(r.Context(), store.ListPackagesParams{
		Limit:  5,
		Offset: 0,
	})
	if err != nil {
		WriteInternalError(w, "Failed to list packages")
		return
	}

	responses := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		responses = append(responses, storePackageToResponse(p))
	}

	WriteSuccess(w, responses, nil)
}

// GetPackage handles GET /api/v1/packages/{id}.
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := h.requirePackage(w, r)
	if !ok {
		return
	}

	resp := storePackageToResponse(pkg)
	if count, err := h.queries.CountBlocksByPackage(r.Context(), pkg.ID); err == nil {
		resp.BlockCount = &count
	}

	WriteSuccess(w, resp, nil)
}

// CreatePackage handles POST /api/v1/packages.
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	// Slug is generated from the title when omitted
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}

	if fieldErrors := validatePackageFields(req.Title, req.Slug); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	exists, err := h.queries.SlugExists(ctx, req.Slug)
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return
	}
	if exists != 0 {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return
	}

	now := time.Now()
	pkg, err := h.queries.CreatePackage(ctx, store.CreatePackageParams{
		Title:     req.Title,
		Slug:      req.Slug,
		Status:    model.PackageStatusDraft,
		CreatedBy: sql.NullInt64{Int64: middleware.GetUserID(r), Valid: middleware.GetUserID(r) != 0},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create package")
		return
	}

	_ = h.audit.LogPackageEvent(ctx, model.AuditLevelInfo, "Package created",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"package_id": pkg.ID, "slug": pkg.Slug})

	WriteCreated(w, storePackageToResponse(pkg))
}

// UpdatePackage handles PUT /api/v1/packages/{id}.
func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePackage(w, r)
	if !ok {
		return
	}

	var req UpdatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	title := existing.Title
	slug := existing.Slug
	if req.Title != nil {
		title = *req.Title
	}
	if req.Slug != nil {
		slug = *req.Slug
	}

	if fieldErrors := validatePackageFields(title, slug); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	if slug != existing.Slug {
		exists, err := h.queries.SlugExistsExcluding(ctx, store.SlugExistsExcludingParams{
			Slug: slug,
			ID:   existing.ID,
		})
		if err != nil {
			WriteInternalError(w, "Failed to check slug")
			return
		}
		if exists != 0 {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		}
	}

	pkg, err := h.queries.UpdatePackage(ctx, store.UpdatePackageParams{
		Title:     title,
		Slug:      slug,
		UpdatedAt: time.Now(),
		ID:        existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update package")
		return
	}

	// Renamed slugs leave a stale cached view behind
	if slug != existing.Slug {
		_ = cache.InvalidateView(ctx, h.cache, existing.Slug)
	}
	_ = cache.InvalidateView(ctx, h.cache, pkg.Slug)

	WriteSuccess(w, storePackageToResponse(pkg), nil)
}

// SetPackageStatus handles POST /api/v1/packages/{id}/status.
// Publishing and unpublishing never touch the content blocks.
func (h *Handler) SetPackageStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePackage(w, r)
	if !ok {
		return
	}

	var req SetPackageStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if !model.IsValidPackageStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Status must be 'draft' or 'published'"})
		return
	}

	publishedAt := existing.PublishedAt
	if req.Status == model.PackageStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	pkg, err := h.queries.SetPackageStatus(ctx, store.SetPackageStatusParams{
		Status:      req.Status,
		PublishedAt: publishedAt,
		UpdatedAt:   time.Now(),
		ID:          existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update package status")
		return
	}

	_ = cache.InvalidateView(ctx, h.cache, pkg.Slug)

	_ = h.audit.LogPackageEvent(ctx, model.AuditLevelInfo, "Package status changed",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"package_id": pkg.ID, "status": pkg.Status})

	WriteSuccess(w, storePackageToResponse(pkg), nil)
}

// DeletePackage handles DELETE /api/v1/packages/{id}.
// Blocks cascade; analytics events are kept.
func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pkg, ok := h.requirePackage(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePackage(ctx, pkg.ID); err != nil {
		WriteInternalError(w, "Failed to delete package")
		return
	}

	_ = cache.InvalidateView(ctx, h.cache, pkg.Slug)

	_ = h.audit.LogPackageEvent(ctx, model.AuditLevelInfo, "Package deleted",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"package_id": pkg.ID, "slug": pkg.Slug})

	w.WriteHeader(http.StatusNoContent)
}

// requirePackage parses the package ID from the URL and fetches the package.
// Returns the package and true, or writes the error response and returns false.
func (h *Handler) requirePackage(w http.ResponseWriter, r *http.Request) (store.Package, bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return store.Package{}, false
	}

	pkg, err := h.queries.GetPackageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Package not found")
		} else {
			WriteInternalError(w, "Failed to retrieve package")
		}
		return store.Package{}, false
	}
	return pkg, true
}
