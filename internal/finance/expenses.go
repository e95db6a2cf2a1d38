package finance

import (
	"errors"

	"github.com/shopspring/decimal"

	"agency-dashboard/internal/storage"
)

var ErrInstallmentMonths = errors.New("installment expenses need installment_months > 0")

// MonthlyInstallment splits amount into equal monthly payments.
func MonthlyInstallment(amount float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).Div(decimal.NewFromInt(int64(months))).InexactFloat64()
}

// PrepareExpense validates the installment settings and fills the derived
// monthly payment.
func PrepareExpense(e storage.ExpenseRecord) (storage.ExpenseRecord, error) {
	if !e.IsInstallment {
		e.InstallmentMonths = 0
		e.MonthlyPayment = 0
		return e, nil
	}
	if e.InstallmentMonths <= 0 {
		return e, ErrInstallmentMonths
	}
	e.MonthlyPayment = MonthlyInstallment(e.Amount, e.InstallmentMonths)
	return e, nil
}

// ExpenseShare is what one expense contributes to one month.
type ExpenseShare struct {
	Fixed       float64 `json:"fixed"`
	OneTime     float64 `json:"one_time"`
	Installment float64 `json:"installment"`
}

func (s ExpenseShare) Total() float64 {
	return decimal.NewFromFloat(s.Fixed).
		Add(decimal.NewFromFloat(s.OneTime)).
		Add(decimal.NewFromFloat(s.Installment)).
		InexactFloat64()
}

// ShareForMonth places an expense in month m: installments inside
// [start, start+N), fixed expenses from start on, one-time expenses only in
// their own month.
func ShareForMonth(e storage.ExpenseRecord, m Month) ExpenseShare {
	start, ok := MonthFromDate(e.Date)
	if !ok || m.Before(start) {
		return ExpenseShare{}
	}

	switch {
	case e.IsInstallment && e.InstallmentMonths > 0:
		if m.Before(start.AddMonths(e.InstallmentMonths)) {
			payment := e.MonthlyPayment
			if payment <= 0 {
				payment = MonthlyInstallment(e.Amount, e.InstallmentMonths)
			}
			return ExpenseShare{Installment: payment}
		}
	case e.IsFixed:
		return ExpenseShare{Fixed: e.Amount}
	case start == m:
		return ExpenseShare{OneTime: e.Amount}
	}

	return ExpenseShare{}
}

// MonthlyExpenses is the expense roll-up of one month.
type MonthlyExpenses struct {
	Month       string  `json:"month"`
	Fixed       float64 `json:"fixed"`
	OneTime     float64 `json:"one_time"`
	Installment float64 `json:"installment"`
	Total       float64 `json:"total"`
}

func SumExpenses(expenses []storage.ExpenseRecord, m Month) MonthlyExpenses {
	fixed, oneTime, installment := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range expenses {
		s := ShareForMonth(e, m)
		fixed = fixed.Add(decimal.NewFromFloat(s.Fixed))
		oneTime = oneTime.Add(decimal.NewFromFloat(s.OneTime))
		installment = installment.Add(decimal.NewFromFloat(s.Installment))
	}

	return MonthlyExpenses{
		Month:       m.String(),
		Fixed:       fixed.InexactFloat64(),
		OneTime:     oneTime.InexactFloat64(),
		Installment: installment.InexactFloat64(),
		Total:       fixed.Add(oneTime).Add(installment).InexactFloat64(),
	}
}

// ExpenseSeries rolls expenses up for every month in [from, to].
func ExpenseSeries(expenses []storage.ExpenseRecord, from, to Month) []MonthlyExpenses {
	if to.Before(from) {
		return []MonthlyExpenses{}
	}

	series := make([]MonthlyExpenses, 0, from.MonthsUntil(to))
	for m := from; !m.After(to); m = m.AddMonths(1) {
		series = append(series, SumExpenses(expenses, m))
	}
	return series
}
