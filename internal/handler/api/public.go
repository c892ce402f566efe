// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/service"
)

// ViewResponse is the public view payload: the rendered package plus the
// viewer the token resolved to.
type ViewResponse struct {
	View   *service.View   `json:"view"`
	Viewer *service.Viewer `json:"viewer"`
}

// SubmitPollRequest represents the request body for a poll response.
type SubmitPollRequest struct {
	Token          string `json:"token"`
	SelectedOption string `json:"selected_option"`
}

// SubmitPollResponse reports whether the response was recorded or suppressed
// as a session-local repeat.
type SubmitPollResponse struct {
	Recorded bool `json:"recorded"`
}

// ViewPackage handles GET /api/v1/view/{slug}. Both gate checks answer with
// the minimum the caller needs: a bad token is 401 and an unknown or
// unpublished slug is 404, with no further detail either way.
func (h *Handler) ViewPackage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	token := r.URL.Query().Get("token")

	view, viewer, err := h.delivery.ResolveView(r.Context(), slug, token, service.RequestMeta{
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			WriteUnauthorized(w, "Invalid access token")
		case errors.Is(err, service.ErrNotFound):
			WriteNotFound(w, "Package not found")
		default:
			WriteInternalError(w, "Failed to load package")
		}
		return
	}

	WriteSuccess(w, ViewResponse{View: view, Viewer: viewer}, nil)
}

// SubmitPollOption handles POST /api/v1/view/{slug}/polls/{id}. A repeat
// submission within the same browser session is acknowledged without
// recording another event.
func (h *Handler) SubmitPollOption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	blockID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid block ID", nil)
		return
	}

	var req SubmitPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.SelectedOption == "" {
		WriteValidationError(w, map[string]string{"selected_option": "An option is required"})
		return
	}

	sessionKey := fmt.Sprintf("poll_submitted_%d", blockID)
	if h.sessions.GetBool(ctx, sessionKey) {
		WriteSuccess(w, SubmitPollResponse{Recorded: false}, nil)
		return
	}

	if err := h.delivery.SubmitPoll(ctx, slug, req.Token, blockID, req.SelectedOption); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			WriteUnauthorized(w, "Invalid access token")
		case errors.Is(err, service.ErrNotFound):
			WriteNotFound(w, "Poll not found")
		case errors.Is(err, service.ErrNotPoll):
			WriteValidationError(w, map[string]string{"block_id": "Block is not a poll"})
		case errors.Is(err, service.ErrUnknownOption):
			WriteValidationError(w, map[string]string{"selected_option": "Option is not part of the poll"})
		default:
			WriteInternalError(w, "Failed to record response")
		}
		return
	}

	h.sessions.Put(ctx, sessionKey, true)

	WriteSuccess(w, SubmitPollResponse{Recorded: true}, nil)
}
