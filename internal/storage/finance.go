package storage

import "time"

// Audit is carried by every finance row; CreatedBy/UpdatedBy come from the
// current_user sent by the dashboard.
type Audit struct {
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func NewAudit(user string, now time.Time) Audit {
	ts := now.UTC().Format(time.RFC3339)
	return Audit{CreatedBy: user, CreatedAt: ts, UpdatedBy: user, UpdatedAt: ts}
}

func (a Audit) Touch(user string, now time.Time) Audit {
	a.UpdatedBy = user
	a.UpdatedAt = now.UTC().Format(time.RFC3339)
	return a
}

type SalaryRecord struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id" validate:"required"`
	EmployeeName   string  `json:"employee_name"`
	WorkspaceID    string  `json:"workspace_id" validate:"required"`
	MonthlySalary  float64 `json:"monthly_salary" validate:"gte=0"`
	EffectiveMonth string  `json:"effective_month" validate:"required,yearmonth"`
	Notes          string  `json:"notes"`
	Audit
}

type ClientBillingRecord struct {
	ID            string  `json:"id"`
	WorkspaceID   string  `json:"workspace_id" validate:"required"`
	ProjectID     string  `json:"project_id" validate:"required"`
	ProjectName   string  `json:"project_name"`
	MonthlyAmount float64 `json:"monthly_amount" validate:"gt=0"`
	PaymentDay    int     `json:"payment_day" validate:"min=1,max=31"`
	Notes         string  `json:"notes"`
	Audit
}

// PaymentRecord ties a billing arrangement to an actual payment. IsOnTime
// and DaysDelay are derived on every write and are nil while unpaid.
type PaymentRecord struct {
	ID             string  `json:"id"`
	WorkspaceID    string  `json:"workspace_id" validate:"required"`
	BillingID      string  `json:"billing_id"`
	ProjectID      string  `json:"project_id" validate:"required"`
	ExpectedAmount float64 `json:"expected_amount" validate:"gte=0"`
	ExpectedDate   string  `json:"expected_date" validate:"required,isodate"`
	PaidAmount     float64 `json:"paid_amount" validate:"gte=0"`
	PaidDate       string  `json:"paid_date" validate:"omitempty,isodate"`
	IsOnTime       *bool   `json:"is_on_time,omitempty"`
	DaysDelay      *int    `json:"days_delay,omitempty"`
	Notes          string  `json:"notes"`
	Audit
}

type WorklogRecord struct {
	ID           string  `json:"id"`
	WorkspaceID  string  `json:"workspace_id" validate:"required"`
	EmployeeID   string  `json:"employee_id" validate:"required"`
	EmployeeName string  `json:"employee_name"`
	ProjectID    string  `json:"project_id"`
	WorkType     string  `json:"work_type" validate:"required"`
	Hours        float64 `json:"hours" validate:"gt=0"`
	Date         string  `json:"date" validate:"required,isodate"`
	Description  string  `json:"description"`
	Audit
}

// ExpenseRecord is one-time by default. IsFixed repeats it every month from
// Date on; IsInstallment splits Amount over InstallmentMonths.
type ExpenseRecord struct {
	ID                string  `json:"id"`
	WorkspaceID       string  `json:"workspace_id" validate:"required"`
	Concept           string  `json:"concept" validate:"required"`
	Category          string  `json:"category"`
	Amount            float64 `json:"amount" validate:"gt=0"`
	Date              string  `json:"date" validate:"required,isodate"`
	IsFixed           bool    `json:"is_fixed"`
	IsInstallment     bool    `json:"is_installment"`
	InstallmentMonths int     `json:"installment_months" validate:"gte=0"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	Notes             string  `json:"notes"`
	Audit
}

type IncomeRecord struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id" validate:"required"`
	Concept     string  `json:"concept" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,isodate"`
	ProjectID   string  `json:"project_id"`
	Notes       string  `json:"notes"`
	Audit
}
