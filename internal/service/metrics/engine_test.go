package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
)

func month(t *testing.T, s string) finance.Month {
	t.Helper()
	m, err := finance.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestComputeAverages_PooledAcrossEmployees(t *testing.T) {
	worklogs := []storage.WorklogRecord{
		{EmployeeID: "u1", WorkType: "reel corto", Hours: 2},
		{EmployeeID: "u2", WorkType: "Reel-Corto", Hours: 4},
		{EmployeeID: "u1", WorkType: "diseño simple", Hours: 1},
		{EmployeeID: "u2", WorkType: "diseño complejo", Hours: 3},
		{EmployeeID: "u1", WorkType: "guion", Hours: 5},
		{EmployeeID: "u1", WorkType: "reel corto", Hours: 0},
	}
	tasks := []storage.Task{
		{AssigneeID: "u2", WorkType: "foto", Status: "done", EstimateHours: 1.5},
		{AssigneeID: "u2", WorkType: "foto", Status: "in_progress", EstimateHours: 10},
	}

	a := ComputeAverages(CollectSamples(worklogs, tasks), map[string]string{"u1": "editor", "u2": "disenador"})

	assert.Equal(t, 3.0, a.Specific("reel_corto"))
	assert.Equal(t, 1.0, a.Specific("diseno_simple"))
	assert.Equal(t, 5.0, a.Specific("guion"))
	assert.Equal(t, 1.5, a.Specific("foto"))
	assert.Equal(t, 0.0, a.Specific("reel_largo"))

	assert.Equal(t, 3.0, a.General("video"))
	assert.Equal(t, 2.0, a.General("diseno"))
	assert.Equal(t, 1.5, a.General("foto"))
	assert.NotContains(t, a.GeneralTypeAvg, "otro")

	assert.Equal(t, 2.0, a.EmployeeTypeAvgHours["editor"]["video"])
	assert.Equal(t, 4.0, a.EmployeeTypeAvgHours["disenador"]["video"])
	assert.Equal(t, 6, a.SampleCount)
}

func TestComputeAverages_EmptyHistory(t *testing.T) {
	a := ComputeAverages(nil, nil)
	for _, g := range []string{"video", "foto", "diseno"} {
		v, ok := a.GeneralTypeAvg[g]
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
		assert.False(t, math.IsNaN(v))
	}
	assert.Equal(t, 0.0, a.Specific("reel_corto"))
}

func TestEstimateHours(t *testing.T) {
	avg := Averages{
		SpecificTypeAvgHours: map[string]float64{"reel_corto": 2, "diseno_simple": 0.5},
		GeneralTypeAvg:       map[string]float64{"video": 4, "diseno": 1, "foto": 0},
	}

	t.Run("specific targets", func(t *testing.T) {
		h, br := EstimateHours(storage.Project{MonthlyReelCorto: 5, MonthlyDisenoSimple: 4, MonthlyVideos: 100}, avg)
		assert.Equal(t, 12.0, h)
		require.Len(t, br, 2)
		assert.Equal(t, TypeHours{Type: "reel_corto", Count: 5, AvgHours: 2, Hours: 10}, br[0])
	})

	t.Run("type without history allocates nothing", func(t *testing.T) {
		h, _ := EstimateHours(storage.Project{MonthlyReelLargo: 3}, avg)
		assert.Equal(t, 0.0, h)
	})

	t.Run("general fallback", func(t *testing.T) {
		h, br := EstimateHours(storage.Project{MonthlyVideos: 2, MonthlyDisenos: 3, MonthlyFotos: 9}, avg)
		assert.Equal(t, 11.0, h)
		assert.Len(t, br, 3)
	})

	t.Run("recording sessions", func(t *testing.T) {
		h, br := EstimateHours(storage.Project{MonthlyReelCorto: 1, MonthlySesiones: 2}, avg)
		assert.Equal(t, 8.0, h)
		assert.Equal(t, "sesion", br[len(br)-1].Type)
	})
}

func TestCheapestEmployee(t *testing.T) {
	roster := []Employee{
		NewEmployee("zero", "Zero", "", 0, 120),
		NewEmployee("a", "A", "", 24000, 120),
		NewEmployee("b", "B", "", 12000, 120),
		NewEmployee("c", "C", "", 12000, 120),
	}

	e, ok := CheapestEmployee(roster)
	require.True(t, ok)
	assert.Equal(t, "b", e.ID)
	assert.Equal(t, 100.0, e.CostPerHour)

	_, ok = CheapestEmployee([]Employee{NewEmployee("zero", "Zero", "", 0, 120)})
	assert.False(t, ok)
}

func TestNewEmployee_CostIsSalaryOverCapacity(t *testing.T) {
	for _, salary := range []float64{12000, 13337, 9999.99, 0} {
		e := NewEmployee("u", "U", "", salary, DefaultHoursPerMonth)
		assert.Equal(t, salary/120, e.CostPerHour)
	}
}

func TestAllocate_ScenarioReelCorto(t *testing.T) {
	worklogs := []storage.WorklogRecord{
		{EmployeeID: "u1", WorkType: "reel_corto", Hours: 2},
		{EmployeeID: "u1", WorkType: "reel_corto", Hours: 2},
	}
	avg := ComputeAverages(CollectSamples(worklogs, nil), nil)
	assert.Equal(t, 2.0, avg.SpecificTypeAvgHours["reel_corto"])

	roster := []Employee{NewEmployee("u1", "Ana", "", 12000, DefaultHoursPerMonth)}
	alloc, ok := Allocate(storage.Project{ID: "p1", MonthlyReelCorto: 5}, avg, roster)
	require.True(t, ok)
	assert.Equal(t, 10.0, alloc.RequiredHours)
	assert.Equal(t, 1000.0, alloc.CostoLabor)
	assert.Equal(t, "u1", alloc.EmployeeID)
}

func baseInput(t *testing.T, m string) Input {
	return Input{
		Month:       month(t, m),
		WorkspaceID: "w1",
		Users: []storage.User{
			{ID: "u1", Name: "Ana", Role: "editor"},
			{ID: "u2", Name: "Luis", Role: "disenador"},
		},
		Salaries: []storage.SalaryRecord{
			{EmployeeID: "u1", WorkspaceID: "w1", MonthlySalary: 12000, EffectiveMonth: "2024-01"},
			{EmployeeID: "u2", WorkspaceID: "w1", MonthlySalary: 24000, EffectiveMonth: "2024-01"},
		},
		Worklogs: []storage.WorklogRecord{
			{WorkspaceID: "w1", EmployeeID: "u1", WorkType: "reel corto", Hours: 2, Date: "2024-12-02"},
			{WorkspaceID: "w1", EmployeeID: "u2", WorkType: "reel corto", Hours: 2, Date: m + "-03"},
		},
	}
}

func TestBuildReport_ExpectedIncomeExcludesPausedClient(t *testing.T) {
	in := baseInput(t, "2025-02")
	in.Projects = []storage.Project{
		{ID: "p1", WorkspaceID: "w1", Name: "Activo", Status: "active"},
		{ID: "p2", WorkspaceID: "w1", Name: "Pausado", Status: "paused", PausedAt: "2025-01-15"},
	}
	in.Billings = []storage.ClientBillingRecord{
		{WorkspaceID: "w1", ProjectID: "p1", MonthlyAmount: 5000, PaymentDay: 5},
		{WorkspaceID: "w1", ProjectID: "p2", MonthlyAmount: 8000, PaymentDay: 5},
	}

	r := BuildReport(in, Options{})
	assert.Equal(t, 5000.0, r.Totals.IngresosEsperados)
	require.Len(t, r.Clients, 1)
	assert.Equal(t, "p1", r.Clients[0].ID)
	assert.Equal(t, 1, r.CapacityAnalysis.ActiveClients)
}

func TestBuildReport_MarginsAndCapacity(t *testing.T) {
	in := baseInput(t, "2025-03")
	in.Projects = []storage.Project{
		{ID: "p1", WorkspaceID: "w1", Name: "Cafe", Status: "active", MonthlyReelCorto: 5},
		{ID: "p2", WorkspaceID: "w1", Name: "Gratis", Status: "active", MonthlyReelCorto: 10},
		{ID: "p3", WorkspaceID: "other", Name: "Otro", Status: "active", MonthlyReelCorto: 10},
	}
	in.Billings = []storage.ClientBillingRecord{
		{WorkspaceID: "w1", ProjectID: "p1", MonthlyAmount: 3000, PaymentDay: 1},
	}

	r := BuildReport(in, Options{HoursPerMonth: 120})

	require.Len(t, r.Clients, 2)
	cafe, gratis := r.Clients[0], r.Clients[1]

	assert.Equal(t, 10.0, cafe.RequiredHours)
	assert.Equal(t, 1000.0, cafe.CostoLabor)
	assert.Equal(t, "u1", cafe.AssignedEmployeeID)
	assert.Equal(t, 2000.0, cafe.MargenAbs)
	require.NotNil(t, cafe.MargenPct)
	assert.InDelta(t, 2.0/3.0, *cafe.MargenPct, 1e-9)

	assert.Equal(t, 0.0, gratis.Revenue)
	assert.Nil(t, gratis.MargenPct)
	assert.Equal(t, -2000.0, gratis.MargenAbs)

	c := r.CapacityAnalysis
	assert.Equal(t, 2, c.EmployeeCount)
	assert.Equal(t, 240.0, c.TeamCapacity)
	assert.Equal(t, 30.0, c.TotalHoursRequired)
	require.NotNil(t, c.Utilization)
	assert.Equal(t, 0.125, *c.Utilization)
	assert.Equal(t, 15.0, c.AvgHoursPerClient)
	require.NotNil(t, c.MaxClientsCapacity)
	assert.Equal(t, 16, *c.MaxClientsCapacity)
	require.NotNil(t, c.AdditionalClientsAvailable)
	assert.Equal(t, 14, *c.AdditionalClientsAvailable)

	require.Len(t, r.Employees, 2)
	ana := r.Employees[0]
	assert.Equal(t, 100.0, ana.CostPerHour)
	assert.Equal(t, 30.0, ana.HoursAllocated)
	assert.Equal(t, 2, ana.ClientsAssigned)
	require.NotNil(t, ana.Utilization)
	assert.Equal(t, 0.25, *ana.Utilization)
	assert.Equal(t, 2.0, r.Employees[1].HoursLogged)

	assert.Empty(t, r.Warnings)
}

func TestBuildReport_ProfitAndLoss(t *testing.T) {
	in := baseInput(t, "2025-04")
	in.Projects = []storage.Project{{ID: "p1", WorkspaceID: "w1", Status: "active", MonthlyReelCorto: 5}}
	in.Billings = []storage.ClientBillingRecord{{WorkspaceID: "w1", ProjectID: "p1", MonthlyAmount: 50000}}
	in.Payments = []storage.PaymentRecord{
		{WorkspaceID: "w1", ProjectID: "p1", ExpectedDate: "2025-04-05", PaidDate: "2025-04-04", PaidAmount: 40000},
		{WorkspaceID: "w1", ProjectID: "p1", ExpectedDate: "2025-03-05", PaidDate: "2025-04-08", PaidAmount: 10000},
		{WorkspaceID: "w1", ProjectID: "p1", ExpectedDate: "2025-05-05", PaidDate: ""},
	}
	in.Incomes = []storage.IncomeRecord{
		{WorkspaceID: "w1", Amount: 2500, Date: "2025-04-20"},
		{WorkspaceID: "w1", Amount: 999, Date: "2025-05-20"},
	}
	in.Expenses = []storage.ExpenseRecord{
		{WorkspaceID: "w1", Amount: 3000, Date: "2025-01-01", IsFixed: true},
		{WorkspaceID: "w1", Amount: 700, Date: "2025-04-11"},
		{WorkspaceID: "w1", Amount: 1200, Date: "2024-06-01", IsInstallment: true, InstallmentMonths: 12, MonthlyPayment: 100},
	}

	r := BuildReport(in, Options{})
	tot := r.Totals

	assert.Equal(t, 50000.0, tot.PaymentsReceived)
	assert.Equal(t, 2500.0, tot.VariableIncomes)
	assert.Equal(t, 52500.0, tot.Ingresos)
	assert.Equal(t, 36000.0, tot.Payroll)
	assert.Equal(t, 3000.0, tot.FixedExpenses)
	assert.Equal(t, 700.0, tot.VariableExpenses)
	assert.Equal(t, 100.0, tot.InstallmentDue)
	assert.Equal(t, 1000.0, tot.LaborCost)
	assert.Equal(t, 40800.0, tot.CostoTotal)
	assert.Equal(t, 11700.0, tot.Utilidad)
	require.NotNil(t, tot.TasaCobranza)
	assert.Equal(t, 1.0, *tot.TasaCobranza)

	p := r.Punctuality
	assert.Equal(t, 2, p.Payments)
	assert.Equal(t, 1, p.OnTime)
	assert.Equal(t, 1, p.Late)
	assert.Equal(t, 34.0, p.AvgDelayDays)
	require.NotNil(t, p.OnTimeRate)
	assert.Equal(t, 0.5, *p.OnTimeRate)
}

func TestBuildReport_NoSalariesWarnsAndNullsRatios(t *testing.T) {
	in := Input{
		Month:    month(t, "2025-04"),
		Projects: []storage.Project{{ID: "p1", Status: "active", MonthlySesiones: 1}},
	}

	r := BuildReport(in, Options{})
	require.Len(t, r.Clients, 1)
	assert.Equal(t, 3.0, r.Clients[0].RequiredHours)
	assert.Equal(t, 0.0, r.Clients[0].CostoLabor)
	assert.Len(t, r.Warnings, 1)

	c := r.CapacityAnalysis
	assert.Equal(t, 0.0, c.TeamCapacity)
	assert.Nil(t, c.Utilization)
	require.NotNil(t, c.MaxClientsCapacity)
	assert.Equal(t, 0, *c.MaxClientsCapacity)

	assert.Nil(t, r.Totals.MargenPct)
	assert.Nil(t, r.Totals.TasaCobranza)
	assert.Nil(t, r.Punctuality.OnTimeRate)
}

func TestBuildReport_WarnsOnUnparseableWorklogDates(t *testing.T) {
	in := baseInput(t, "2025-03")
	in.Worklogs = append(in.Worklogs,
		storage.WorklogRecord{WorkspaceID: "w1", EmployeeID: "u1", Hours: 5, Date: "03/15/2025"},
		storage.WorklogRecord{WorkspaceID: "other", EmployeeID: "u1", Hours: 5, Date: "garbage"},
	)

	r := BuildReport(in, Options{})

	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "1 worklog row(s)")
	assert.Equal(t, 0.0, r.Employees[0].HoursLogged)
}

func TestBuildReport_EmptyInput(t *testing.T) {
	r := BuildReport(Input{Month: month(t, "2025-04")}, Options{})
	assert.NotNil(t, r.Employees)
	assert.NotNil(t, r.Clients)
	assert.NotNil(t, r.Warnings)
	assert.Nil(t, r.CapacityAnalysis.MaxClientsCapacity)
	assert.Nil(t, r.CapacityAnalysis.AdditionalClientsAvailable)
}
