package finance

import "agency-dashboard/internal/storage"

// SalaryFor returns the record with the latest effective month not after m.
// On equal months the later record wins.
func SalaryFor(records []storage.SalaryRecord, employeeID string, m Month) (storage.SalaryRecord, bool) {
	var (
		best      storage.SalaryRecord
		bestMonth Month
		found     bool
	)

	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		eff, ok := MonthFromDate(r.EffectiveMonth)
		if !ok || eff.After(m) {
			continue
		}
		if !found || !eff.Before(bestMonth) {
			best, bestMonth, found = r, eff, true
		}
	}

	return best, found
}

// CurrentSalaries resolves the authoritative salary of every employee of the
// workspace for month m, in order of first appearance.
func CurrentSalaries(records []storage.SalaryRecord, workspaceID string, m Month) []storage.SalaryRecord {
	var (
		order []string
		seen  = make(map[string]bool)
		scope = make([]storage.SalaryRecord, 0, len(records))
	)

	for _, r := range records {
		if workspaceID != "" && r.WorkspaceID != workspaceID {
			continue
		}
		scope = append(scope, r)
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			order = append(order, r.EmployeeID)
		}
	}

	out := make([]storage.SalaryRecord, 0, len(order))
	for _, id := range order {
		if rec, ok := SalaryFor(scope, id, m); ok {
			out = append(out, rec)
		}
	}
	return out
}
