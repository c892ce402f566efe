// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds the slug rules for package URLs: slugs are derived
// from titles on create and validated on every write, with one definition
// of well-formed shared by both paths.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinSlugLength is the shortest slug the package endpoints accept.
const MinSlugLength = 3

var (
	// deaccenter decomposes accented characters and drops the combining marks
	deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	// hyphenRuns matches every run of characters a slug cannot contain
	hyphenRuns = regexp.MustCompile(`[^a-z0-9]+`)
	// wellFormed is the shape IsValidSlug accepts: lowercase alphanumeric
	// groups joined by single hyphens
	wellFormed = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a URL slug from a package title. Accents are stripped,
// the rest is lowercased, and every run of characters outside [a-z0-9]
// collapses into a single hyphen. The result satisfies IsValidSlug unless
// the title was too short or had no usable characters at all.
func Slugify(title string) string {
	s, _, _ := transform.String(deaccenter, title)
	s = hyphenRuns.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is a well-formed slug: at least
// MinSlugLength characters of lowercase letters, digits and hyphens, with
// no hyphen at either edge and no consecutive hyphens.
func IsValidSlug(s string) bool {
	return len(s) >= MinSlugLength && wellFormed.MatchString(s)
}
