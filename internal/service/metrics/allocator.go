package metrics

import (
	"sort"

	"agency-dashboard/internal/service/normalize"
	"agency-dashboard/internal/storage"
)

// SessionHours is the fixed cost of one recording session.
const SessionHours = 3.0

var (
	specificOrder = []string{"reel_corto", "reel_largo", "diseno_simple", "diseno_complejo", "foto_simple", "foto_elaborada"}
	generalOrder  = []string{normalize.GeneralVideo, normalize.GeneralDiseno, normalize.GeneralFoto}
)

type Employee struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	MonthlySalary float64 `json:"monthly_salary"`
	CostPerHour   float64 `json:"costoHoraReal"`
	CapacityHours float64 `json:"capacityHours"`
}

// NewEmployee derives the hourly cost from the monthly salary and capacity.
func NewEmployee(id, name, role string, salary, capacityHours float64) Employee {
	e := Employee{ID: id, Name: name, Role: role, MonthlySalary: salary, CapacityHours: capacityHours}
	if capacityHours > 0 {
		e.CostPerHour = salary / capacityHours
	}
	return e
}

type TypeHours struct {
	Type     string  `json:"type"`
	Count    float64 `json:"count"`
	AvgHours float64 `json:"avgHours"`
	Hours    float64 `json:"hours"`
}

type Allocation struct {
	ClientID      string      `json:"clientId"`
	RequiredHours float64     `json:"requiredHours"`
	Breakdown     []TypeHours `json:"breakdown"`
	EmployeeID    string      `json:"employeeId,omitempty"`
	CostPerHour   float64     `json:"costPerHour"`
	CostoLabor    float64     `json:"costoLabor"`
}

// EstimateHours converts a client's monthly targets into hours. Specific
// targets win; the general targets are only used when no specific target is
// set. A type with no history (average 0) contributes no hours.
func EstimateHours(p storage.Project, avg Averages) (float64, []TypeHours) {
	var (
		total     float64
		breakdown []TypeHours
	)

	specific := p.SpecificTargets()
	useSpecific := false
	for _, t := range specificOrder {
		if specific[t] > 0 {
			useSpecific = true
			break
		}
	}

	if useSpecific {
		for _, t := range specificOrder {
			count := specific[t]
			if count <= 0 {
				continue
			}
			a := avg.Specific(t)
			h := count * a
			total += h
			breakdown = append(breakdown, TypeHours{Type: t, Count: count, AvgHours: a, Hours: h})
		}
	} else {
		general := p.GeneralTargets()
		for _, g := range generalOrder {
			count := general[g]
			if count <= 0 {
				continue
			}
			a := avg.General(g)
			h := count * a
			total += h
			breakdown = append(breakdown, TypeHours{Type: g, Count: count, AvgHours: a, Hours: h})
		}
	}

	if p.MonthlySesiones > 0 {
		h := p.MonthlySesiones * SessionHours
		total += h
		breakdown = append(breakdown, TypeHours{Type: "sesion", Count: p.MonthlySesiones, AvgHours: SessionHours, Hours: h})
	}

	if breakdown == nil {
		breakdown = []TypeHours{}
	}
	return total, breakdown
}

// CheapestEmployee picks the lowest positive cost-per-hour; ties keep roster
// order.
func CheapestEmployee(roster []Employee) (Employee, bool) {
	sorted := append([]Employee(nil), roster...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CostPerHour < sorted[j].CostPerHour
	})

	for _, e := range sorted {
		if e.CostPerHour > 0 {
			return e, true
		}
	}
	return Employee{}, false
}

// Allocate assigns all of a client's hours to the cheapest employee. Without
// an eligible employee the labor cost is zero and ok is false.
func Allocate(p storage.Project, avg Averages, roster []Employee) (Allocation, bool) {
	hours, breakdown := EstimateHours(p, avg)
	alloc := Allocation{ClientID: p.ID, RequiredHours: hours, Breakdown: breakdown}

	e, ok := CheapestEmployee(roster)
	if !ok {
		return alloc, false
	}

	alloc.EmployeeID = e.ID
	alloc.CostPerHour = e.CostPerHour
	alloc.CostoLabor = hours * e.CostPerHour
	return alloc, true
}
