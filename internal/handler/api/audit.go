// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/store"
)

// AuditEventResponse represents an audit event in API responses.
type AuditEventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	IPAddress string    `json:"ip_address"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

func storeAuditEventToResponse(e store.AuditEvent) AuditEventResponse {
	resp := AuditEventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		IPAddress: e.IpAddress,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		resp.UserID = &e.UserID.Int64
	}
	return resp
}

// ListAuditEvents handles GET /api/v1/audit. Events are newest first and may
// be filtered by ?category=.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 50, 200)
	offset := int64((page - 1) * perPage)
	category := r.URL.Query().Get("category")

	var (
		events []store.AuditEvent
		err    error
	)
	if category != "" {
		events, err = h.queries.ListAuditEventsByCategory(ctx, store.ListAuditEventsByCategoryParams{
			Category: category,
			Limit:    int64(perPage),
			Offset:   offset,
		})
	} else {
		events, err = h.queries.ListAuditEvents(ctx, store.ListAuditEventsParams{
			Limit:  int64(perPage),
			Offset: offset,
		})
	}
	if err != nil {
		WriteInternalError(w, "Failed to list audit events")
		return
	}

	total, err := h.queries.CountAuditEvents(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count audit events")
		return
	}

	responses := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, storeAuditEventToResponse(e))
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}
