// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/mileusna/useragent"
)

// ParsedUA holds the browser, OS, and device type extracted from a user agent.
type ParsedUA struct {
	Browser    string
	OS         string
	DeviceType string
}

// parseUserAgent extracts browser, OS, and device type from a user agent string.
func parseUserAgent(uaString string) ParsedUA {
	ua := useragent.Parse(uaString)

	result := ParsedUA{
		Browser: ua.Name,
		OS:      ua.OS,
	}

	// Handle empty/unknown values
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	// Determine device type
	switch {
	case ua.Mobile:
		result.DeviceType = "mobile"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Bot:
		result.DeviceType = "bot"
	default:
		result.DeviceType = "desktop"
	}

	return result
}
