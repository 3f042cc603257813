package utils

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParseUserAgent extracts browser, OS and device type from a User-Agent
// string for session display names.
func ParseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}

	os = parsed.OS
	if os == "" {
		os = "Unknown OS"
	}

	device = "Desktop"
	if parsed.Mobile {
		device = "Mobile"
	} else if parsed.Tablet {
		device = "Tablet"
	}

	return strings.TrimSpace(browser), strings.TrimSpace(os), device
}

// GenerateSessionName creates a user-friendly session name like
// "Firefox on Linux".
func GenerateSessionName(userAgent string) string {
	browser, os, _ := ParseUserAgent(userAgent)
	return fmt.Sprintf("%s on %s", browser, os)
}
