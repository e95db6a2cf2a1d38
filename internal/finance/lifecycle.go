package finance

import (
	"strings"

	"agency-dashboard/internal/storage"
)

// IsActiveInMonth decides whether a client counts toward billing and
// capacity in month m: active clients always do, paused clients only for
// months strictly before the month they were paused in.
func IsActiveInMonth(status, pausedAt string, m Month) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case storage.StatusActive:
		return true
	case storage.StatusPaused:
		paused, ok := MonthFromDate(pausedAt)
		return ok && paused.After(m)
	default:
		return false
	}
}

func ProjectActiveInMonth(p storage.Project, m Month) bool {
	return IsActiveInMonth(p.Status, p.PausedAt, m)
}
