package sheets

import (
	"strconv"

	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/tabular"
)

// Sheet names.
const (
	SheetSalaries      = "salaries"
	SheetClientBilling = "client_billing"
	SheetPayments      = "payments"
	SheetWorklogs      = "worklogs"
	SheetExpenses      = "expenses"
	SheetIncomes       = "incomes"
	SheetProjects      = "projects"
	SheetUsers         = "users"
	SheetTasks         = "tasks"
)

func col(name string, aliases ...string) tabular.Column {
	return tabular.Column{Name: name, Aliases: aliases}
}

var (
	colID        = col("id", "ID", "uuid")
	colWorkspace = col("workspace_id", "workspaceId", "workspace")
	colProject   = col("project_id", "projectId", "client_id", "clientId", "cliente_id")
	colNotes     = col("notes", "notas")
)

var auditColumns = []tabular.Column{
	col("created_by", "createdBy"),
	col("created_at", "createdAt"),
	col("updated_by", "updatedBy"),
	col("updated_at", "updatedAt"),
}

func withAudit(cols ...tabular.Column) []tabular.Column {
	return append(cols, auditColumns...)
}

var (
	salariesSchema = tabular.Schema{Sheet: SheetSalaries, Columns: withAudit(
		colID,
		col("employee_id", "employeeId", "empleado_id", "user_id"),
		col("employee_name", "employeeName", "empleado", "nombre"),
		colWorkspace,
		col("monthly_salary", "monthlySalary", "salario_mensual", "salary", "sueldo"),
		col("effective_month", "effectiveMonth", "mes_efectivo", "month"),
		colNotes,
	)}

	billingSchema = tabular.Schema{Sheet: SheetClientBilling, Columns: withAudit(
		colID,
		colWorkspace,
		colProject,
		col("project_name", "projectName", "client_name", "clientName", "cliente"),
		col("monthly_amount", "monthlyAmount", "monto_mensual", "amount"),
		col("payment_day", "paymentDay", "dia_pago"),
		colNotes,
	)}

	paymentsSchema = tabular.Schema{Sheet: SheetPayments, Columns: withAudit(
		colID,
		colWorkspace,
		col("billing_id", "billingId"),
		colProject,
		col("expected_amount", "expectedAmount", "monto_esperado"),
		col("expected_date", "expectedDate", "fecha_esperada"),
		col("paid_amount", "paidAmount", "monto_pagado"),
		col("paid_date", "paidDate", "fecha_pago"),
		col("is_on_time", "isOnTime", "a_tiempo"),
		col("days_delay", "daysDelay", "dias_retraso"),
		colNotes,
	)}

	worklogsSchema = tabular.Schema{Sheet: SheetWorklogs, Columns: withAudit(
		colID,
		colWorkspace,
		col("employee_id", "employeeId", "empleado_id", "user_id"),
		col("employee_name", "employeeName", "empleado"),
		colProject,
		col("work_type", "workType", "type", "tipo"),
		col("hours", "horas"),
		col("date", "fecha"),
		col("description", "descripcion"),
	)}

	expensesSchema = tabular.Schema{Sheet: SheetExpenses, Columns: withAudit(
		colID,
		colWorkspace,
		col("concept", "concepto"),
		col("category", "categoria"),
		col("amount", "monto"),
		col("date", "fecha"),
		col("is_fixed", "isFixed", "fijo"),
		col("is_installment", "isInstallment", "msi"),
		col("installment_months", "installmentMonths", "meses"),
		col("monthly_payment", "monthlyPayment", "pago_mensual"),
		colNotes,
	)}

	incomesSchema = tabular.Schema{Sheet: SheetIncomes, Columns: withAudit(
		colID,
		colWorkspace,
		col("concept", "concepto"),
		col("amount", "monto"),
		col("date", "fecha"),
		colProject,
		colNotes,
	)}

	projectsSchema = tabular.Schema{Sheet: SheetProjects, Columns: []tabular.Column{
		colID,
		colWorkspace,
		col("name", "nombre"),
		col("status", "estado"),
		col("paused_at", "pausedAt"),
		col("monthly_fee", "monthlyFee", "fee"),
		col("monthly_reel_corto", "monthlyReelCorto"),
		col("monthly_reel_largo", "monthlyReelLargo"),
		col("monthly_diseno_simple", "monthlyDisenoSimple"),
		col("monthly_diseno_complejo", "monthlyDisenoComplejo"),
		col("monthly_foto_simple", "monthlyFotoSimple"),
		col("monthly_foto_elaborada", "monthlyFotoElaborada"),
		col("monthly_sesiones", "monthlySesiones"),
		col("monthly_videos", "monthlyVideos"),
		col("monthly_disenos", "monthlyDisenos"),
		col("monthly_fotos", "monthlyFotos"),
		col("version"),
	}}

	usersSchema = tabular.Schema{Sheet: SheetUsers, Columns: []tabular.Column{
		colID,
		col("name", "nombre"),
		col("email", "correo"),
		col("role", "rol"),
		col("active", "activo"),
	}}

	tasksSchema = tabular.Schema{Sheet: SheetTasks, Columns: []tabular.Column{
		colID,
		colWorkspace,
		colProject,
		col("title", "titulo"),
		col("work_type", "workType", "type", "tipo"),
		col("status", "estado"),
		col("assignee_id", "assigneeId", "assigned_to"),
		col("estimate_hours", "estimateHours", "estimated_hours", "horas_estimadas"),
		col("due_date", "dueDate"),
		col("completed_at", "completedAt"),
		col("version"),
		col("updated_by", "updatedBy"),
		col("updated_at", "updatedAt"),
	}}
)

// Schemas lists every table the dashboard owns.
func Schemas() []tabular.Schema {
	return []tabular.Schema{
		salariesSchema, billingSchema, paymentsSchema, worklogsSchema, expensesSchema,
		incomesSchema, projectsSchema, usersSchema, tasksSchema,
	}
}

func decodeAudit(r tabular.Record) storage.Audit {
	return storage.Audit{
		CreatedBy: r.String("created_by"),
		CreatedAt: r.String("created_at"),
		UpdatedBy: r.String("updated_by"),
		UpdatedAt: r.String("updated_at"),
	}
}

func encodeAudit(a storage.Audit, m map[string]string) map[string]string {
	m["created_by"] = a.CreatedBy
	m["created_at"] = a.CreatedAt
	m["updated_by"] = a.UpdatedBy
	m["updated_at"] = a.UpdatedAt
	return m
}

var salaries = table[storage.SalaryRecord]{
	schema: salariesSchema,
	id:     func(v storage.SalaryRecord) string { return v.ID },
	ws:     func(v storage.SalaryRecord) string { return v.WorkspaceID },
	date:   func(v storage.SalaryRecord) string { return v.EffectiveMonth },
	decode: func(r tabular.Record) storage.SalaryRecord {
		return storage.SalaryRecord{
			ID:             r.String("id"),
			EmployeeID:     r.String("employee_id"),
			EmployeeName:   r.String("employee_name"),
			WorkspaceID:    r.String("workspace_id"),
			MonthlySalary:  r.Float("monthly_salary"),
			EffectiveMonth: r.String("effective_month"),
			Notes:          r.String("notes"),
			Audit:          decodeAudit(r),
		}
	},
	encode: func(v storage.SalaryRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":              v.ID,
			"employee_id":     v.EmployeeID,
			"employee_name":   v.EmployeeName,
			"workspace_id":    v.WorkspaceID,
			"monthly_salary":  tabular.FormatFloat(v.MonthlySalary),
			"effective_month": v.EffectiveMonth,
			"notes":           v.Notes,
		})
	},
}

var billings = table[storage.ClientBillingRecord]{
	schema: billingSchema,
	id:     func(v storage.ClientBillingRecord) string { return v.ID },
	ws:     func(v storage.ClientBillingRecord) string { return v.WorkspaceID },
	decode: func(r tabular.Record) storage.ClientBillingRecord {
		return storage.ClientBillingRecord{
			ID:            r.String("id"),
			WorkspaceID:   r.String("workspace_id"),
			ProjectID:     r.String("project_id"),
			ProjectName:   r.String("project_name"),
			MonthlyAmount: r.Float("monthly_amount"),
			PaymentDay:    r.Int("payment_day"),
			Notes:         r.String("notes"),
			Audit:         decodeAudit(r),
		}
	},
	encode: func(v storage.ClientBillingRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":             v.ID,
			"workspace_id":   v.WorkspaceID,
			"project_id":     v.ProjectID,
			"project_name":   v.ProjectName,
			"monthly_amount": tabular.FormatFloat(v.MonthlyAmount),
			"payment_day":    strconv.Itoa(v.PaymentDay),
			"notes":          v.Notes,
		})
	},
}

var payments = table[storage.PaymentRecord]{
	schema: paymentsSchema,
	id:     func(v storage.PaymentRecord) string { return v.ID },
	ws:     func(v storage.PaymentRecord) string { return v.WorkspaceID },
	date:   func(v storage.PaymentRecord) string { return v.ExpectedDate },
	decode: func(r tabular.Record) storage.PaymentRecord {
		return storage.PaymentRecord{
			ID:             r.String("id"),
			WorkspaceID:    r.String("workspace_id"),
			BillingID:      r.String("billing_id"),
			ProjectID:      r.String("project_id"),
			ExpectedAmount: r.Float("expected_amount"),
			ExpectedDate:   r.String("expected_date"),
			PaidAmount:     r.Float("paid_amount"),
			PaidDate:       r.String("paid_date"),
			IsOnTime:       r.OptBool("is_on_time"),
			DaysDelay:      r.OptInt("days_delay"),
			Notes:          r.String("notes"),
			Audit:          decodeAudit(r),
		}
	},
	encode: func(v storage.PaymentRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":              v.ID,
			"workspace_id":    v.WorkspaceID,
			"billing_id":      v.BillingID,
			"project_id":      v.ProjectID,
			"expected_amount": tabular.FormatFloat(v.ExpectedAmount),
			"expected_date":   v.ExpectedDate,
			"paid_amount":     tabular.FormatFloat(v.PaidAmount),
			"paid_date":       v.PaidDate,
			"is_on_time":      tabular.FormatOptBool(v.IsOnTime),
			"days_delay":      tabular.FormatOptInt(v.DaysDelay),
			"notes":           v.Notes,
		})
	},
}

var worklogs = table[storage.WorklogRecord]{
	schema: worklogsSchema,
	id:     func(v storage.WorklogRecord) string { return v.ID },
	ws:     func(v storage.WorklogRecord) string { return v.WorkspaceID },
	date:   func(v storage.WorklogRecord) string { return v.Date },
	decode: func(r tabular.Record) storage.WorklogRecord {
		return storage.WorklogRecord{
			ID:           r.String("id"),
			WorkspaceID:  r.String("workspace_id"),
			EmployeeID:   r.String("employee_id"),
			EmployeeName: r.String("employee_name"),
			ProjectID:    r.String("project_id"),
			WorkType:     r.String("work_type"),
			Hours:        r.Float("hours"),
			Date:         r.String("date"),
			Description:  r.String("description"),
			Audit:        decodeAudit(r),
		}
	},
	encode: func(v storage.WorklogRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":            v.ID,
			"workspace_id":  v.WorkspaceID,
			"employee_id":   v.EmployeeID,
			"employee_name": v.EmployeeName,
			"project_id":    v.ProjectID,
			"work_type":     v.WorkType,
			"hours":         tabular.FormatFloat(v.Hours),
			"date":          v.Date,
			"description":   v.Description,
		})
	},
}

var expenses = table[storage.ExpenseRecord]{
	schema: expensesSchema,
	id:     func(v storage.ExpenseRecord) string { return v.ID },
	ws:     func(v storage.ExpenseRecord) string { return v.WorkspaceID },
	date:   func(v storage.ExpenseRecord) string { return v.Date },
	decode: func(r tabular.Record) storage.ExpenseRecord {
		return storage.ExpenseRecord{
			ID:                r.String("id"),
			WorkspaceID:       r.String("workspace_id"),
			Concept:           r.String("concept"),
			Category:          r.String("category"),
			Amount:            r.Float("amount"),
			Date:              r.String("date"),
			IsFixed:           r.Bool("is_fixed"),
			IsInstallment:     r.Bool("is_installment"),
			InstallmentMonths: r.Int("installment_months"),
			MonthlyPayment:    r.Float("monthly_payment"),
			Notes:             r.String("notes"),
			Audit:             decodeAudit(r),
		}
	},
	encode: func(v storage.ExpenseRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":                 v.ID,
			"workspace_id":       v.WorkspaceID,
			"concept":            v.Concept,
			"category":           v.Category,
			"amount":             tabular.FormatFloat(v.Amount),
			"date":               v.Date,
			"is_fixed":           tabular.FormatBool(v.IsFixed),
			"is_installment":     tabular.FormatBool(v.IsInstallment),
			"installment_months": strconv.Itoa(v.InstallmentMonths),
			"monthly_payment":    tabular.FormatFloat(v.MonthlyPayment),
			"notes":              v.Notes,
		})
	},
}

var incomes = table[storage.IncomeRecord]{
	schema: incomesSchema,
	id:     func(v storage.IncomeRecord) string { return v.ID },
	ws:     func(v storage.IncomeRecord) string { return v.WorkspaceID },
	date:   func(v storage.IncomeRecord) string { return v.Date },
	decode: func(r tabular.Record) storage.IncomeRecord {
		return storage.IncomeRecord{
			ID:          r.String("id"),
			WorkspaceID: r.String("workspace_id"),
			Concept:     r.String("concept"),
			Amount:      r.Float("amount"),
			Date:        r.String("date"),
			ProjectID:   r.String("project_id"),
			Notes:       r.String("notes"),
			Audit:       decodeAudit(r),
		}
	},
	encode: func(v storage.IncomeRecord) map[string]string {
		return encodeAudit(v.Audit, map[string]string{
			"id":           v.ID,
			"workspace_id": v.WorkspaceID,
			"concept":      v.Concept,
			"amount":       tabular.FormatFloat(v.Amount),
			"date":         v.Date,
			"project_id":   v.ProjectID,
			"notes":        v.Notes,
		})
	},
}

var projects = table[storage.Project]{
	schema: projectsSchema,
	id:     func(v storage.Project) string { return v.ID },
	ws:     func(v storage.Project) string { return v.WorkspaceID },
	decode: func(r tabular.Record) storage.Project {
		return storage.Project{
			ID:                    r.String("id"),
			WorkspaceID:           r.String("workspace_id"),
			Name:                  r.String("name"),
			Status:                r.String("status"),
			PausedAt:              r.String("paused_at"),
			MonthlyFee:            r.Float("monthly_fee"),
			MonthlyReelCorto:      r.Float("monthly_reel_corto"),
			MonthlyReelLargo:      r.Float("monthly_reel_largo"),
			MonthlyDisenoSimple:   r.Float("monthly_diseno_simple"),
			MonthlyDisenoComplejo: r.Float("monthly_diseno_complejo"),
			MonthlyFotoSimple:     r.Float("monthly_foto_simple"),
			MonthlyFotoElaborada:  r.Float("monthly_foto_elaborada"),
			MonthlySesiones:       r.Float("monthly_sesiones"),
			MonthlyVideos:         r.Float("monthly_videos"),
			MonthlyDisenos:        r.Float("monthly_disenos"),
			MonthlyFotos:          r.Float("monthly_fotos"),
			Version:               r.Int("version"),
		}
	},
	encode: func(v storage.Project) map[string]string {
		return map[string]string{
			"id":                      v.ID,
			"workspace_id":            v.WorkspaceID,
			"name":                    v.Name,
			"status":                  v.Status,
			"paused_at":               v.PausedAt,
			"monthly_fee":             tabular.FormatFloat(v.MonthlyFee),
			"monthly_reel_corto":      tabular.FormatFloat(v.MonthlyReelCorto),
			"monthly_reel_largo":      tabular.FormatFloat(v.MonthlyReelLargo),
			"monthly_diseno_simple":   tabular.FormatFloat(v.MonthlyDisenoSimple),
			"monthly_diseno_complejo": tabular.FormatFloat(v.MonthlyDisenoComplejo),
			"monthly_foto_simple":     tabular.FormatFloat(v.MonthlyFotoSimple),
			"monthly_foto_elaborada":  tabular.FormatFloat(v.MonthlyFotoElaborada),
			"monthly_sesiones":        tabular.FormatFloat(v.MonthlySesiones),
			"monthly_videos":          tabular.FormatFloat(v.MonthlyVideos),
			"monthly_disenos":         tabular.FormatFloat(v.MonthlyDisenos),
			"monthly_fotos":           tabular.FormatFloat(v.MonthlyFotos),
			"version":                 strconv.Itoa(v.Version),
		}
	},
}

var users = table[storage.User]{
	schema: usersSchema,
	id:     func(v storage.User) string { return v.ID },
	decode: func(r tabular.Record) storage.User {
		active := r.OptBool("active")
		return storage.User{
			ID:     r.String("id"),
			Name:   r.String("name"),
			Email:  r.String("email"),
			Role:   r.String("role"),
			Active: active == nil || *active,
		}
	},
	encode: func(v storage.User) map[string]string {
		return map[string]string{
			"id":     v.ID,
			"name":   v.Name,
			"email":  v.Email,
			"role":   v.Role,
			"active": tabular.FormatBool(v.Active),
		}
	},
}

var tasks = table[storage.Task]{
	schema: tasksSchema,
	id:     func(v storage.Task) string { return v.ID },
	ws:     func(v storage.Task) string { return v.WorkspaceID },
	decode: func(r tabular.Record) storage.Task {
		return storage.Task{
			ID:            r.String("id"),
			WorkspaceID:   r.String("workspace_id"),
			ProjectID:     r.String("project_id"),
			Title:         r.String("title"),
			WorkType:      r.String("work_type"),
			Status:        r.String("status"),
			AssigneeID:    r.String("assignee_id"),
			EstimateHours: r.Float("estimate_hours"),
			DueDate:       r.String("due_date"),
			CompletedAt:   r.String("completed_at"),
			Version:       r.Int("version"),
			UpdatedBy:     r.String("updated_by"),
			UpdatedAt:     r.String("updated_at"),
		}
	},
	encode: func(v storage.Task) map[string]string {
		return map[string]string{
			"id":             v.ID,
			"workspace_id":   v.WorkspaceID,
			"project_id":     v.ProjectID,
			"title":          v.Title,
			"work_type":      v.WorkType,
			"status":         v.Status,
			"assignee_id":    v.AssigneeID,
			"estimate_hours": tabular.FormatFloat(v.EstimateHours),
			"due_date":       v.DueDate,
			"completed_at":   v.CompletedAt,
			"version":        strconv.Itoa(v.Version),
			"updated_by":     v.UpdatedBy,
			"updated_at":     v.UpdatedAt,
		}
	},
}
