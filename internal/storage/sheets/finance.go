package sheets

import (
	"context"
	"fmt"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
)

func (s *Storage) ListSalaries(ctx context.Context, f storage.Filter) ([]storage.SalaryRecord, error) {
	const op = "storage.sheets.ListSalaries"

	out, err := list(ctx, s, salaries, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) CreateSalary(ctx context.Context, rec storage.SalaryRecord, user string) (storage.SalaryRecord, error) {
	const op = "storage.sheets.CreateSalary"

	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, salaries, rec)
	if err != nil {
		return storage.SalaryRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) UpdateSalary(ctx context.Context, id string, rec storage.SalaryRecord, user string) (storage.SalaryRecord, error) {
	const op = "storage.sheets.UpdateSalary"

	out, err := update(ctx, s, salaries, id, func(existing storage.SalaryRecord) (storage.SalaryRecord, error) {
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.SalaryRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeleteSalary(ctx context.Context, id string) error {
	const op = "storage.sheets.DeleteSalary"

	if err := remove(ctx, s, salaries, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListClientBillings(ctx context.Context, f storage.Filter) ([]storage.ClientBillingRecord, error) {
	const op = "storage.sheets.ListClientBillings"

	out, err := list(ctx, s, billings, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) CreateClientBilling(ctx context.Context, rec storage.ClientBillingRecord, user string) (storage.ClientBillingRecord, error) {
	const op = "storage.sheets.CreateClientBilling"

	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, billings, rec)
	if err != nil {
		return storage.ClientBillingRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) UpdateClientBilling(ctx context.Context, id string, rec storage.ClientBillingRecord, user string) (storage.ClientBillingRecord, error) {
	const op = "storage.sheets.UpdateClientBilling"

	out, err := update(ctx, s, billings, id, func(existing storage.ClientBillingRecord) (storage.ClientBillingRecord, error) {
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.ClientBillingRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeleteClientBilling(ctx context.Context, id string) error {
	const op = "storage.sheets.DeleteClientBilling"

	if err := remove(ctx, s, billings, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListPayments(ctx context.Context, f storage.Filter) ([]storage.PaymentRecord, error) {
	const op = "storage.sheets.ListPayments"

	out, err := list(ctx, s, payments, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CreatePayment stores a payment with its punctuality derived from the
// expected and paid dates.
func (s *Storage) CreatePayment(ctx context.Context, rec storage.PaymentRecord, user string) (storage.PaymentRecord, error) {
	const op = "storage.sheets.CreatePayment"

	rec, err := finance.ApplyPunctuality(rec)
	if err != nil {
		return storage.PaymentRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, payments, rec)
	if err != nil {
		return storage.PaymentRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// UpdatePayment rewrites the payment and recomputes its punctuality, so
// marking a payment as paid later fills is_on_time and days_delay.
func (s *Storage) UpdatePayment(ctx context.Context, id string, rec storage.PaymentRecord, user string) (storage.PaymentRecord, error) {
	const op = "storage.sheets.UpdatePayment"

	out, err := update(ctx, s, payments, id, func(existing storage.PaymentRecord) (storage.PaymentRecord, error) {
		rec, err := finance.ApplyPunctuality(rec)
		if err != nil {
			return rec, err
		}
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.PaymentRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeletePayment(ctx context.Context, id string) error {
	const op = "storage.sheets.DeletePayment"

	if err := remove(ctx, s, payments, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListWorklogs(ctx context.Context, f storage.Filter) ([]storage.WorklogRecord, error) {
	const op = "storage.sheets.ListWorklogs"

	out, err := list(ctx, s, worklogs, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) CreateWorklog(ctx context.Context, rec storage.WorklogRecord, user string) (storage.WorklogRecord, error) {
	const op = "storage.sheets.CreateWorklog"

	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, worklogs, rec)
	if err != nil {
		return storage.WorklogRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) UpdateWorklog(ctx context.Context, id string, rec storage.WorklogRecord, user string) (storage.WorklogRecord, error) {
	const op = "storage.sheets.UpdateWorklog"

	out, err := update(ctx, s, worklogs, id, func(existing storage.WorklogRecord) (storage.WorklogRecord, error) {
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.WorklogRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeleteWorklog(ctx context.Context, id string) error {
	const op = "storage.sheets.DeleteWorklog"

	if err := remove(ctx, s, worklogs, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListExpenses(ctx context.Context, f storage.Filter) ([]storage.ExpenseRecord, error) {
	const op = "storage.sheets.ListExpenses"

	out, err := list(ctx, s, expenses, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) CreateExpense(ctx context.Context, rec storage.ExpenseRecord, user string) (storage.ExpenseRecord, error) {
	const op = "storage.sheets.CreateExpense"

	rec, err := finance.PrepareExpense(rec)
	if err != nil {
		return storage.ExpenseRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, expenses, rec)
	if err != nil {
		return storage.ExpenseRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) UpdateExpense(ctx context.Context, id string, rec storage.ExpenseRecord, user string) (storage.ExpenseRecord, error) {
	const op = "storage.sheets.UpdateExpense"

	out, err := update(ctx, s, expenses, id, func(existing storage.ExpenseRecord) (storage.ExpenseRecord, error) {
		rec, err := finance.PrepareExpense(rec)
		if err != nil {
			return rec, err
		}
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.ExpenseRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeleteExpense(ctx context.Context, id string) error {
	const op = "storage.sheets.DeleteExpense"

	if err := remove(ctx, s, expenses, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListIncomes(ctx context.Context, f storage.Filter) ([]storage.IncomeRecord, error) {
	const op = "storage.sheets.ListIncomes"

	out, err := list(ctx, s, incomes, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) CreateIncome(ctx context.Context, rec storage.IncomeRecord, user string) (storage.IncomeRecord, error) {
	const op = "storage.sheets.CreateIncome"

	rec.ID = s.newID()
	rec.Audit = storage.NewAudit(user, s.now())

	out, err := create(ctx, s, incomes, rec)
	if err != nil {
		return storage.IncomeRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) UpdateIncome(ctx context.Context, id string, rec storage.IncomeRecord, user string) (storage.IncomeRecord, error) {
	const op = "storage.sheets.UpdateIncome"

	out, err := update(ctx, s, incomes, id, func(existing storage.IncomeRecord) (storage.IncomeRecord, error) {
		rec.ID = id
		rec.Audit = existing.Audit.Touch(user, s.now())
		return rec, nil
	})
	if err != nil {
		return storage.IncomeRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) DeleteIncome(ctx context.Context, id string) error {
	const op = "storage.sheets.DeleteIncome"

	if err := remove(ctx, s, incomes, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
