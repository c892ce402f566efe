// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/dotment-go/internal/analytics"
)

// GetAnalytics handles GET /api/v1/packages/{id}/analytics.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return
	}

	report, err := h.reports.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, analytics.ErrNotFound) {
			WriteNotFound(w, "Package not found")
		} else {
			WriteInternalError(w, "Failed to build report")
		}
		return
	}

	WriteSuccess(w, report, nil)
}

// ExportLedger handles GET /api/v1/packages/{id}/analytics/ledger.csv.
// The export carries one row per employee with their engagement status.
func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid package ID", nil)
		return
	}

	report, err := h.reports.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, analytics.ErrNotFound) {
			WriteNotFound(w, "Package not found")
		} else {
			WriteInternalError(w, "Failed to build report")
		}
		return
	}

	filename := fmt.Sprintf("ledger-%d-%s.csv", id, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"employee_id", "full_name", "department", "status", "last_interaction"})
	for _, entry := range report.Ledger {
		lastInteraction := ""
		if entry.LastInteraction != nil {
			lastInteraction = entry.LastInteraction.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			entry.EmployeeID,
			entry.FullName,
			entry.Department,
			entry.Status,
			lastInteraction,
		})
	}
	cw.Flush()
}
