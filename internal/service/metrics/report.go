package metrics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
)

// DefaultHoursPerMonth is 6 hours/day × 5 days/week × 4 weeks.
const DefaultHoursPerMonth = 120.0

// Input is a snapshot of everything the report reads. No I/O happens while
// a report is built.
type Input struct {
	Month       finance.Month
	WorkspaceID string

	Users    []storage.User
	Projects []storage.Project
	Tasks    []storage.Task

	Salaries []storage.SalaryRecord
	Billings []storage.ClientBillingRecord
	Payments []storage.PaymentRecord
	Worklogs []storage.WorklogRecord
	Expenses []storage.ExpenseRecord
	Incomes  []storage.IncomeRecord
}

type Options struct {
	HoursPerMonth float64
}

type EmployeeMetrics struct {
	Employee
	HoursLogged     float64  `json:"hoursLogged"`
	HoursAllocated  float64  `json:"hoursAllocated"`
	CostoAsignado   float64  `json:"costoAsignado"`
	Utilization     *float64 `json:"utilization"`
	ClientsAssigned int      `json:"clientsAssigned"`
}

type ClientMetrics struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Status             string      `json:"status"`
	Revenue            float64     `json:"revenue"`
	RequiredHours      float64     `json:"requiredHours"`
	Breakdown          []TypeHours `json:"breakdown"`
	AssignedEmployeeID string      `json:"assignedEmployeeId,omitempty"`
	CostoLabor         float64     `json:"costoLabor"`
	MargenAbs          float64     `json:"margenAbs"`
	MargenPct          *float64    `json:"margenPct"`
}

type Totals struct {
	IngresosEsperados float64  `json:"ingresosEsperados"`
	PaymentsReceived  float64  `json:"paymentsReceived"`
	VariableIncomes   float64  `json:"variableIncomes"`
	Ingresos          float64  `json:"ingresos"`
	Payroll           float64  `json:"payroll"`
	FixedExpenses     float64  `json:"fixedExpenses"`
	VariableExpenses  float64  `json:"variableExpenses"`
	InstallmentDue    float64  `json:"installmentDue"`
	LaborCost         float64  `json:"laborCost"`
	CostoTotal        float64  `json:"costoTotal"`
	Utilidad          float64  `json:"utilidad"`
	MargenPct         *float64 `json:"margenPct"`
	TasaCobranza      *float64 `json:"tasaCobranza"`
}

type CapacityAnalysis struct {
	EmployeeCount              int      `json:"employeeCount"`
	ActiveClients              int      `json:"activeClients"`
	HoursPerEmployee           float64  `json:"hoursPerEmployee"`
	TeamCapacity               float64  `json:"teamCapacity"`
	TotalHoursRequired         float64  `json:"totalHoursRequired"`
	AvailableHours             float64  `json:"availableHours"`
	Utilization                *float64 `json:"utilization"`
	AvgHoursPerClient          float64  `json:"avgHoursPerClient"`
	MaxClientsCapacity         *int     `json:"maxClientsCapacity"`
	AdditionalClientsAvailable *int     `json:"additionalClientsAvailable"`
}

type Punctuality struct {
	Payments     int      `json:"payments"`
	OnTime       int      `json:"onTime"`
	Late         int      `json:"late"`
	OnTimeRate   *float64 `json:"onTimeRate"`
	AvgDelayDays float64  `json:"avgDelayDays"`
}

type Report struct {
	Month            string            `json:"month"`
	WorkspaceID      string            `json:"workspaceId"`
	Employees        []EmployeeMetrics `json:"employees"`
	Clients          []ClientMetrics   `json:"clients"`
	Totals           Totals            `json:"totals"`
	CapacityAnalysis CapacityAnalysis  `json:"capacityAnalysis"`
	Averages         Averages          `json:"averages"`
	Punctuality      Punctuality       `json:"punctuality"`
	Warnings         []string          `json:"warnings"`
	Error            string            `json:"error,omitempty"`
}

// EmptyReport is the zero-filled report served when building fails.
func EmptyReport(month finance.Month, workspaceID, errMsg string) Report {
	return Report{
		Month:       month.String(),
		WorkspaceID: workspaceID,
		Employees:   []EmployeeMetrics{},
		Clients:     []ClientMetrics{},
		Averages: Averages{
			SpecificTypeAvgHours: map[string]float64{},
			GeneralTypeAvg:       map[string]float64{"video": 0, "foto": 0, "diseno": 0},
			EmployeeTypeAvgHours: map[string]map[string]float64{},
		},
		Warnings: []string{},
		Error:    errMsg,
	}
}

// ratio returns num/den, or nil when the result would not be finite.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

func floorDiv(num, den float64) *int {
	r := ratio(num, den)
	if r == nil {
		return nil
	}
	v := int(math.Floor(*r))
	return &v
}

type money struct{ d decimal.Decimal }

func (m *money) add(v float64) { m.d = m.d.Add(decimal.NewFromFloat(v)) }

func (m money) float() float64 { return m.d.InexactFloat64() }

func sum(vs ...float64) float64 {
	var m money
	for _, v := range vs {
		m.add(v)
	}
	return m.float()
}

// BuildReport runs normalization, averaging, allocation and the capacity and
// margin roll-ups over one snapshot.
func BuildReport(in Input, opts Options) Report {
	hoursPerMonth := opts.HoursPerMonth
	if hoursPerMonth <= 0 {
		hoursPerMonth = DefaultHoursPerMonth
	}

	month := in.Month
	ws := in.WorkspaceID
	inWorkspace := func(id string) bool { return ws == "" || id == "" || id == ws }

	r := EmptyReport(month, ws, "")

	// Averages are global: every worklog of every workspace and month.
	roles := make(map[string]string, len(in.Users))
	for _, u := range in.Users {
		roles[u.ID] = u.Role
	}
	r.Averages = ComputeAverages(CollectSamples(in.Worklogs, in.Tasks), roles)

	roster := buildRoster(in, hoursPerMonth)
	employees := make([]EmployeeMetrics, len(roster))
	byEmployee := make(map[string]int, len(roster))
	for i, e := range roster {
		employees[i] = EmployeeMetrics{Employee: e}
		byEmployee[e.ID] = i
	}

	badDates := 0
	for _, w := range in.Worklogs {
		if !inWorkspace(w.WorkspaceID) {
			continue
		}
		if _, err := finance.ParseDate(w.Date); err != nil {
			badDates++
			continue
		}
		if !month.Contains(w.Date) {
			continue
		}
		if i, ok := byEmployee[w.EmployeeID]; ok && w.Hours > 0 {
			employees[i].HoursLogged += w.Hours
		}
	}
	for _, t := range in.Tasks {
		if !inWorkspace(t.WorkspaceID) || !t.IsCompleted() || !month.Contains(t.CompletedAt) {
			continue
		}
		if i, ok := byEmployee[t.AssigneeID]; ok && t.EstimateHours > 0 {
			employees[i].HoursLogged += t.EstimateHours
		}
	}

	revenueByProject := make(map[string]*money)
	for _, b := range in.Billings {
		if !inWorkspace(b.WorkspaceID) {
			continue
		}
		if revenueByProject[b.ProjectID] == nil {
			revenueByProject[b.ProjectID] = &money{}
		}
		revenueByProject[b.ProjectID].add(b.MonthlyAmount)
	}

	var (
		expected, labor money
		totalHours      float64
		unassigned      int
	)

	for _, p := range in.Projects {
		if !inWorkspace(p.WorkspaceID) || !finance.ProjectActiveInMonth(p, month) {
			continue
		}

		revenue := p.MonthlyFee
		if m, ok := revenueByProject[p.ID]; ok {
			revenue = m.float()
		}

		alloc, ok := Allocate(p, r.Averages, roster)
		if !ok && alloc.RequiredHours > 0 {
			unassigned++
		}

		c := ClientMetrics{
			ID:                 p.ID,
			Name:               p.Name,
			Status:             p.Status,
			Revenue:            revenue,
			RequiredHours:      alloc.RequiredHours,
			Breakdown:          alloc.Breakdown,
			AssignedEmployeeID: alloc.EmployeeID,
			CostoLabor:         alloc.CostoLabor,
			MargenAbs:          revenue - alloc.CostoLabor,
		}
		c.MargenPct = ratio(c.MargenAbs, revenue)
		r.Clients = append(r.Clients, c)

		if i, ok := byEmployee[alloc.EmployeeID]; ok {
			employees[i].HoursAllocated += alloc.RequiredHours
			employees[i].CostoAsignado += alloc.CostoLabor
			employees[i].ClientsAssigned++
		}

		expected.add(revenue)
		labor.add(alloc.CostoLabor)
		totalHours += alloc.RequiredHours
	}

	for i := range employees {
		employees[i].Utilization = ratio(employees[i].HoursAllocated, employees[i].CapacityHours)
	}
	r.Employees = employees

	if badDates > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"%d worklog row(s) with an unparseable date skipped", badDates))
	}
	if unassigned > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"no employee with a positive cost per hour: labor cost of %d client(s) counted as 0", unassigned))
	}

	r.CapacityAnalysis = capacity(len(roster), len(r.Clients), hoursPerMonth, totalHours)
	r.Totals = totals(in, month, inWorkspace, roster, expected.float(), labor.float())
	r.Punctuality = punctuality(in.Payments, month, inWorkspace)

	return r
}

// buildRoster lists employees with a salary effective in the month, in user
// order, then salaried people missing from the user list.
func buildRoster(in Input, hoursPerMonth float64) []Employee {
	current := finance.CurrentSalaries(in.Salaries, in.WorkspaceID, in.Month)
	salaries := make(map[string]storage.SalaryRecord, len(current))
	for _, s := range current {
		salaries[s.EmployeeID] = s
	}

	roster := make([]Employee, 0, len(current))
	placed := make(map[string]bool, len(current))
	for _, u := range in.Users {
		s, ok := salaries[u.ID]
		if !ok || placed[u.ID] {
			continue
		}
		placed[u.ID] = true
		roster = append(roster, NewEmployee(u.ID, u.Name, u.Role, s.MonthlySalary, hoursPerMonth))
	}
	for _, s := range current {
		if placed[s.EmployeeID] {
			continue
		}
		placed[s.EmployeeID] = true
		roster = append(roster, NewEmployee(s.EmployeeID, s.EmployeeName, "", s.MonthlySalary, hoursPerMonth))
	}

	return roster
}

func capacity(employees, clients int, hoursPerEmployee, totalHours float64) CapacityAnalysis {
	team := float64(employees) * hoursPerEmployee
	c := CapacityAnalysis{
		EmployeeCount:      employees,
		ActiveClients:      clients,
		HoursPerEmployee:   hoursPerEmployee,
		TeamCapacity:       team,
		TotalHoursRequired: totalHours,
		AvailableHours:     team - totalHours,
		Utilization:        ratio(totalHours, team),
	}

	if clients > 0 {
		c.AvgHoursPerClient = totalHours / float64(clients)
	}
	c.MaxClientsCapacity = floorDiv(team, c.AvgHoursPerClient)
	c.AdditionalClientsAvailable = floorDiv(team-totalHours, c.AvgHoursPerClient)

	return c
}

func totals(in Input, month finance.Month, inWorkspace func(string) bool, roster []Employee, expected, labor float64) Totals {
	var received, incomes, payroll money
	for _, p := range in.Payments {
		if inWorkspace(p.WorkspaceID) && month.Contains(p.PaidDate) {
			received.add(p.PaidAmount)
		}
	}
	for _, i := range in.Incomes {
		if inWorkspace(i.WorkspaceID) && month.Contains(i.Date) {
			incomes.add(i.Amount)
		}
	}
	for _, e := range roster {
		payroll.add(e.MonthlySalary)
	}

	expenses := make([]storage.ExpenseRecord, 0, len(in.Expenses))
	for _, e := range in.Expenses {
		if inWorkspace(e.WorkspaceID) {
			expenses = append(expenses, e)
		}
	}
	ex := finance.SumExpenses(expenses, month)

	t := Totals{
		IngresosEsperados: expected,
		PaymentsReceived:  received.float(),
		VariableIncomes:   incomes.float(),
		Payroll:           payroll.float(),
		FixedExpenses:     ex.Fixed,
		VariableExpenses:  ex.OneTime,
		InstallmentDue:    ex.Installment,
		LaborCost:         labor,
	}
	t.Ingresos = sum(t.PaymentsReceived, t.VariableIncomes)
	t.CostoTotal = sum(t.Payroll, t.FixedExpenses, t.VariableExpenses, t.InstallmentDue, t.LaborCost)
	t.Utilidad = sum(t.Ingresos, -t.CostoTotal)
	t.MargenPct = ratio(t.Utilidad, t.Ingresos)
	t.TasaCobranza = ratio(t.PaymentsReceived, t.IngresosEsperados)

	return t
}

func punctuality(payments []storage.PaymentRecord, month finance.Month, inWorkspace func(string) bool) Punctuality {
	var (
		p          Punctuality
		delaySum   int
		delayCount int
	)

	for _, pay := range payments {
		if !inWorkspace(pay.WorkspaceID) || !month.Contains(pay.PaidDate) {
			continue
		}

		onTime, delay, err := finance.Punctuality(pay.ExpectedDate, pay.PaidDate)
		if err != nil || onTime == nil {
			continue
		}

		p.Payments++
		if *onTime {
			p.OnTime++
			continue
		}
		p.Late++
		if delay != nil {
			delaySum += *delay
			delayCount++
		}
	}

	p.OnTimeRate = ratio(float64(p.OnTime), float64(p.Payments))
	if delayCount > 0 {
		p.AvgDelayDays = float64(delaySum) / float64(delayCount)
	}
	return p
}
