// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParseIDParam parses the {id} URL parameter as an int64.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter %q", raw)
	}
	return id, nil
}

// ParsePageParam parses the "page" query parameter, defaulting to 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePerPageParam parses the "per_page" query parameter, clamped to maxPerPage.
func ParsePerPageParam(r *http.Request, defaultPerPage, maxPerPage int) int {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		return defaultPerPage
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

// totalPages computes page count for pagination metadata.
func totalPages(total int64, perPage int) int {
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

// isValidEmail reports whether s parses as a single RFC 5322 address.
func isValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
