package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"agency-dashboard/http-server/finance/table"
	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
)

type FinanceReader interface {
	ListSalaries(ctx context.Context, f storage.Filter) ([]storage.SalaryRecord, error)
	ListClientBillings(ctx context.Context, f storage.Filter) ([]storage.ClientBillingRecord, error)
	ListPayments(ctx context.Context, f storage.Filter) ([]storage.PaymentRecord, error)
	ListWorklogs(ctx context.Context, f storage.Filter) ([]storage.WorklogRecord, error)
	ListExpenses(ctx context.Context, f storage.Filter) ([]storage.ExpenseRecord, error)
	ListIncomes(ctx context.Context, f storage.Filter) ([]storage.IncomeRecord, error)
}

// Filter reads workspaceId and month from the query. An invalid month is a
// client error here, unlike the metrics endpoint.
func Filter(r *http.Request) (storage.Filter, error) {
	q := r.URL.Query()
	f := storage.Filter{WorkspaceID: q.Get("workspaceId")}
	if f.WorkspaceID == "" {
		f.WorkspaceID = q.Get("workspace_id")
	}

	if month := q.Get("month"); month != "" {
		m, err := finance.ParseMonth(month)
		if err != nil {
			return f, err
		}
		f.Month = m.String()
	}
	return f, nil
}

func GetFinance(log *slog.Logger, reader FinanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.finance.get.GetFinance"

		f, err := Filter(r)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		switch chi.URLParam(r, table.Param) {
		case table.Salaries:
			respond(ctx, w, r, log, op, f, reader.ListSalaries)
		case table.ClientBilling:
			respond(ctx, w, r, log, op, f, reader.ListClientBillings)
		case table.Payments:
			respond(ctx, w, r, log, op, f, reader.ListPayments)
		case table.Worklogs:
			respond(ctx, w, r, log, op, f, reader.ListWorklogs)
		case table.Expenses:
			respond(ctx, w, r, log, op, f, reader.ListExpenses)
		case table.Incomes:
			respond(ctx, w, r, log, op, f, reader.ListIncomes)
		default:
			response.Error(w, r, http.StatusNotFound, table.UnknownMessage)
		}
	}
}

func respond[T any](
	ctx context.Context, w http.ResponseWriter, r *http.Request, log *slog.Logger, op string,
	f storage.Filter, list func(context.Context, storage.Filter) ([]T, error),
) {
	records, err := list(ctx, f)
	if err != nil {
		response.FromError(w, r, log, op, err)
		return
	}
	if records == nil {
		records = []T{}
	}

	render.JSON(w, r, records)
}

type ExpenseReader interface {
	ListExpenses(ctx context.Context, f storage.Filter) ([]storage.ExpenseRecord, error)
}

// maxSeriesMonths bounds the from/to range of the expense series.
const maxSeriesMonths = 120

// GetExpenseSeries returns the monthly expense roll-up for [from, to].
// Without a range it covers the twelve months ending in the current one.
func GetExpenseSeries(log *slog.Logger, reader ExpenseReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.finance.get.GetExpenseSeries"

		q := r.URL.Query()
		to := finance.MonthOf(time.Now())
		if s := q.Get("to"); s != "" {
			m, err := finance.ParseMonth(s)
			if err != nil {
				response.FromError(w, r, log, op, err)
				return
			}
			to = m
		}
		from := to.AddMonths(-11)
		if s := q.Get("from"); s != "" {
			m, err := finance.ParseMonth(s)
			if err != nil {
				response.FromError(w, r, log, op, err)
				return
			}
			from = m
		}

		if to.Before(from) {
			response.Error(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		if from.MonthsUntil(to) > maxSeriesMonths {
			response.Error(w, r, http.StatusBadRequest, "range is limited to 120 months")
			return
		}

		f, err := Filter(r)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}
		f.Month = ""

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		expenses, err := reader.ListExpenses(ctx, f)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, finance.ExpenseSeries(expenses, from, to))
	}
}
