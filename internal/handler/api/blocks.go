// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/model"
	"github.com/olegiv/dotment-go/internal/service"
)

// SaveBlocksRequest is the request body for PUT /api/v1/packages/{id}/blocks.
// The block list replaces the stored set wholesale; content_version must match
// the version the editor loaded or the save is rejected as a conflict.
type SaveBlocksRequest struct {
	ContentVersion int64              `json:"content_version"`
	Blocks         []SaveBlockRequest `json:"blocks"`
}

// SaveBlockRequest is one block in a save request, in working-set order.
type SaveBlockRequest struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// GetBlocks handles GET /api/v1/packages/{id}/blocks.
// Returns the stored content as a fresh working set.
func (h *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return
	}

	draft, err := h.editor.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Package not found")
		} else {
			WriteInternalError(w, "Failed to load package content")
		}
		return
	}

	WriteSuccess(w, draft, nil)
}

// SaveBlocks handles PUT /api/v1/packages/{id}/blocks.
func (h *Handler) SaveBlocks(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return
	}

	var req SaveBlocksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	draft := &service.Draft{
		PackageID:      id,
		ContentVersion: req.ContentVersion,
		Dirty:          true,
	}
	for i, b := range req.Blocks {
		content := b.Content
		if len(content) == 0 {
			content = model.DefaultContent(b.Type)
		}
		draft.Blocks = append(draft.Blocks, service.DraftBlock{
			Type:     b.Type,
			Content:  content,
			Position: i,
		})
	}

	if err := h.editor.Save(r.Context(), draft); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			WriteNotFound(w, "Package not found")
		case errors.Is(err, service.ErrConflict):
			WriteConflict(w, "Package content was modified by someone else. Reload and try again.")
		case errors.Is(err, service.ErrInvalidBlockType), errors.Is(err, service.ErrInvalidContent):
			WriteValidationError(w, map[string]string{"blocks": err.Error()})
		default:
			WriteInternalError(w, "Failed to save package content")
		}
		return
	}

	_ = h.audit.LogPackageEvent(r.Context(), model.AuditLevelInfo, "Package content saved",
		middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"package_id": id, "blocks": len(draft.Blocks), "content_version": draft.ContentVersion})

	WriteSuccess(w, draft, nil)
}
