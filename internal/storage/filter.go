package storage

import "strings"

// Filter narrows list queries. Empty fields match everything; Month
// (YYYY-MM) is compared against the record's primary date.
type Filter struct {
	WorkspaceID string
	Month       string
}

func (f Filter) MatchWorkspace(workspaceID string) bool {
	return f.WorkspaceID == "" || workspaceID == "" || workspaceID == f.WorkspaceID
}

func (f Filter) MatchMonth(date string) bool {
	return f.Month == "" || strings.HasPrefix(strings.TrimSpace(date), f.Month)
}
