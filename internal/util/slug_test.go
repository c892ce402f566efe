// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Q1 Town Hall Update", "q1-town-hall-update"},
		{"already slug", "benefits-enrollment", "benefits-enrollment"},
		{"accents", "Café Règlement", "cafe-reglement"},
		{"punctuation", "New! Policy: 2026?", "new-policy-2026"},
		{"multiple spaces", "annual   survey", "annual-survey"},
		{"underscore separates", "employee_survey", "employee-survey"},
		{"leading trailing", "  hello world  ", "hello-world"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"q1-town-hall", true},
		{"abc123", true},
		{"abc", true},
		{"ab", false},
		{"", false},
		{"Hello", false},
		{"has space", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}
