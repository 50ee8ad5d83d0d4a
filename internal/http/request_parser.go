// Package http provides the dashboard HTTP server and its handlers.
//
// This file holds the query parsing shared by the page, chart and API
// handlers.

package http

import (
	"net/url"
	"strconv"
	"strings"

	"funding/internal/analysis"
	"funding/internal/services"
)

// maxNameLength bounds a picker selection; longer values cannot be names.
const maxNameLength = 200

// DashboardParams holds the view selections carried in the query string.
type DashboardParams struct {
	Mode  services.Mode
	Trend analysis.TrendKind
	// Year is zero when absent or invalid.
	Year int
	Name string
	// HasName is true when the name parameter was submitted, even blank.
	HasName bool
}

// ParseDashboardParams extracts the dashboard selections from query.
// Invalid values fall back to defaults instead of failing the request.
func ParseDashboardParams(query url.Values) DashboardParams {
	p := DashboardParams{
		Mode:    services.ParseMode(query.Get("mode")),
		Trend:   analysis.ParseTrend(query.Get("trend")),
		HasName: query.Has("name"),
		Name:    sanitizeInput(query.Get("name")),
	}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			p.Year = y
		}
	}
	return p
}

// sanitizeInput trims whitespace, drops control characters and caps the
// length of a free-text parameter.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	if len(s) > maxNameLength {
		s = strings.ToValidUTF8(s[:maxNameLength], "")
	}
	return s
}
