// Package table names the finance tables addressed by the {table} URL
// parameter.
package table

const (
	Salaries      = "salaries"
	ClientBilling = "client-billing"
	Payments      = "payments"
	Worklogs      = "worklogs"
	Expenses      = "expenses"
	Incomes       = "incomes"
)

// Param is the chi URL parameter holding the table name.
const Param = "table"

const UnknownMessage = "unknown finance table"
