package services

import "strings"

// Mode is one of the dashboard's three views.
type Mode string

const (
	ModeOverall  Mode = "overall"
	ModeStartup  Mode = "startup"
	ModeInvestor Mode = "investor"
)

// Modes lists the views in sidebar order.
func Modes() []Mode {
	return []Mode{ModeOverall, ModeStartup, ModeInvestor}
}

// ParseMode maps a query value to a Mode. Unknown values select the
// overall view.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStartup:
		return ModeStartup
	case ModeInvestor:
		return ModeInvestor
	default:
		return ModeOverall
	}
}

// Title is the sidebar label for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeStartup:
		return "StartUp"
	case ModeInvestor:
		return "Investor"
	default:
		return "Overall Analysis"
	}
}
