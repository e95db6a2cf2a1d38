package generate_excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/service/metrics"
)

const (
	sheetSummary   = "Resumen"
	sheetClients   = "Clientes"
	sheetEmployees = "Empleados"
)

type ReportProvider interface {
	Report(ctx context.Context, workspaceID string, month finance.Month) (metrics.Report, error)
}

type GenerateExcelService struct {
	reports ReportProvider
}

func NewGenerateService(reports ReportProvider) *GenerateExcelService {
	return &GenerateExcelService{reports: reports}
}

// GenerateExcel renders the month's metrics report as an xlsx workbook with
// a summary, a clients and an employees sheet. Money is rounded to cents.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, workspaceID string, month finance.Month) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	report, err := g.reports.Report(ctx, workspaceID, month)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch report: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, name := range []string{sheetClients, sheetEmployees} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	writeSummary(f, report)
	writeClients(f, report.Clients)
	writeEmployees(f, report.Employees)

	for _, sheet := range []string{sheetSummary, sheetClients, sheetEmployees} {
		_ = f.SetCellStyle(sheet, "A1", cellName(12, 1), headerStyle)
		_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
		_ = f.SetColWidth(sheet, "A", "L", 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r metrics.Report) {
	t := r.Totals
	c := r.CapacityAnalysis
	rows := [][]any{
		{"Concepto", "Valor"},
		{"Mes", r.Month},
		{"Ingresos esperados", mxn(t.IngresosEsperados)},
		{"Pagos recibidos", mxn(t.PaymentsReceived)},
		{"Ingresos variables", mxn(t.VariableIncomes)},
		{"Ingresos", mxn(t.Ingresos)},
		{"Nómina", mxn(t.Payroll)},
		{"Gastos fijos", mxn(t.FixedExpenses)},
		{"Gastos variables", mxn(t.VariableExpenses)},
		{"MSI del mes", mxn(t.InstallmentDue)},
		{"Costo laboral asignado", mxn(t.LaborCost)},
		{"Costo total", mxn(t.CostoTotal)},
		{"Utilidad", mxn(t.Utilidad)},
		{"Margen", pct(t.MargenPct)},
		{"Tasa de cobranza", pct(t.TasaCobranza)},
		{"Empleados", c.EmployeeCount},
		{"Clientes activos", c.ActiveClients},
		{"Capacidad del equipo (h)", c.TeamCapacity},
		{"Horas requeridas", c.TotalHoursRequired},
		{"Utilización", pct(c.Utilization)},
		{"Clientes adicionales posibles", optInt(c.AdditionalClientsAvailable)},
	}
	for _, w := range r.Warnings {
		rows = append(rows, []any{"Aviso", w})
	}
	writeRows(f, sheetSummary, rows)
}

func writeClients(f *excelize.File, clients []metrics.ClientMetrics) {
	rows := [][]any{{"Cliente", "Estado", "Ingreso", "Horas requeridas", "Empleado asignado", "Costo laboral", "Margen", "Margen %"}}
	for _, c := range clients {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		rows = append(rows, []any{
			name, c.Status, mxn(c.Revenue), c.RequiredHours, c.AssignedEmployeeID,
			mxn(c.CostoLabor), mxn(c.MargenAbs), pct(c.MargenPct),
		})
	}
	writeRows(f, sheetClients, rows)
}

func writeEmployees(f *excelize.File, employees []metrics.EmployeeMetrics) {
	rows := [][]any{{"Empleado", "Rol", "Salario", "Costo/hora", "Horas registradas", "Horas asignadas", "Costo asignado", "Utilización", "Clientes"}}
	for _, e := range employees {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		rows = append(rows, []any{
			name, e.Role, mxn(e.MonthlySalary), mxn(e.CostPerHour), e.HoursLogged,
			e.HoursAllocated, mxn(e.CostoAsignado), pct(e.Utilization), e.ClientsAssigned,
		})
	}
	writeRows(f, sheetEmployees, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) {
	for i, row := range rows {
		values := row
		_ = f.SetSheetRow(sheet, cellName(1, i+1), &values)
	}
}

// mxn rounds to cents.
func mxn(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func pct(v *float64) any {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v * 100).Round(1).InexactFloat64()
}

func optInt(v *int) any {
	if v == nil {
		return "-"
	}
	return *v
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
