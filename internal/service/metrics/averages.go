package metrics

import (
	"agency-dashboard/internal/service/normalize"
	"agency-dashboard/internal/storage"
)

// Sample is one observation of how long a unit of work took.
type Sample struct {
	EmployeeID string
	Type       normalize.Type
	Hours      float64
}

// CollectSamples turns worklogs and completed tasks into samples. Records
// without positive hours are skipped.
func CollectSamples(worklogs []storage.WorklogRecord, tasks []storage.Task) []Sample {
	samples := make([]Sample, 0, len(worklogs)+len(tasks))
	for _, w := range worklogs {
		if w.Hours <= 0 {
			continue
		}
		samples = append(samples, Sample{EmployeeID: w.EmployeeID, Type: normalize.Normalize(w.WorkType), Hours: w.Hours})
	}
	for _, t := range tasks {
		if !t.IsCompleted() || t.EstimateHours <= 0 {
			continue
		}
		samples = append(samples, Sample{EmployeeID: t.AssigneeID, Type: normalize.Normalize(t.WorkType), Hours: t.EstimateHours})
	}
	return samples
}

// Averages are population averages over all history, independent of who did
// the work, so the cost model reflects how long a kind of work takes.
type Averages struct {
	SpecificTypeAvgHours map[string]float64            `json:"specificTypeAvgHours"`
	GeneralTypeAvg       map[string]float64            `json:"generalTypeAvg"`
	EmployeeTypeAvgHours map[string]map[string]float64 `json:"employeeTypeAvgHours"`
	SampleCount          int                           `json:"sampleCount"`
}

type running struct {
	sum   float64
	count int
}

func (r *running) add(h float64) {
	r.sum += h
	r.count++
}

func (r running) avg() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// ComputeAverages builds the per-type averages. roles maps employee id to
// role and feeds the informational per-employee-type table.
func ComputeAverages(samples []Sample, roles map[string]string) Averages {
	specific := make(map[string]*running)
	general := make(map[string]*running)
	byRole := make(map[string]map[string]*running)

	for _, s := range samples {
		if s.Hours <= 0 {
			continue
		}

		if specific[s.Type.Specific] == nil {
			specific[s.Type.Specific] = &running{}
		}
		specific[s.Type.Specific].add(s.Hours)

		if !normalize.IsBillable(s.Type.General) {
			continue
		}
		if general[s.Type.General] == nil {
			general[s.Type.General] = &running{}
		}
		general[s.Type.General].add(s.Hours)

		role := roles[s.EmployeeID]
		if role == "" {
			continue
		}
		if byRole[role] == nil {
			byRole[role] = make(map[string]*running)
		}
		if byRole[role][s.Type.General] == nil {
			byRole[role][s.Type.General] = &running{}
		}
		byRole[role][s.Type.General].add(s.Hours)
	}

	a := Averages{
		SpecificTypeAvgHours: make(map[string]float64, len(specific)),
		GeneralTypeAvg:       make(map[string]float64, len(normalize.Billable)),
		EmployeeTypeAvgHours: make(map[string]map[string]float64, len(byRole)),
	}

	for t, r := range specific {
		a.SpecificTypeAvgHours[t] = r.avg()
		a.SampleCount += r.count
	}
	for _, g := range normalize.Billable {
		if r, ok := general[g]; ok {
			a.GeneralTypeAvg[g] = r.avg()
		} else {
			a.GeneralTypeAvg[g] = 0
		}
	}
	for role, cats := range byRole {
		a.EmployeeTypeAvgHours[role] = make(map[string]float64, len(cats))
		for g, r := range cats {
			a.EmployeeTypeAvgHours[role][g] = r.avg()
		}
	}

	return a
}

// Specific returns the average for a specific type, 0 when never seen.
func (a Averages) Specific(t string) float64 {
	return a.SpecificTypeAvgHours[t]
}

func (a Averages) General(g string) float64 {
	return a.GeneralTypeAvg[g]
}
