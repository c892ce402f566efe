// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts block content into safe HTML for public delivery.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips unsafe HTML from rendered output.
// UGCPolicy allows safe formatting tags while removing scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown text to sanitized HTML.
func Markdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips unsafe markup from an HTML fragment.
func SanitizeHTML(html string) string {
	return htmlSanitizer.Sanitize(html)
}
