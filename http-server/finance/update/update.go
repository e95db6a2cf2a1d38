package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"agency-dashboard/http-server/finance/save"
	"agency-dashboard/http-server/finance/table"
	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/storage"
)

type FinanceUpdater interface {
	UpdateSalary(ctx context.Context, id string, rec storage.SalaryRecord, user string) (storage.SalaryRecord, error)
	UpdateClientBilling(ctx context.Context, id string, rec storage.ClientBillingRecord, user string) (storage.ClientBillingRecord, error)
	UpdatePayment(ctx context.Context, id string, rec storage.PaymentRecord, user string) (storage.PaymentRecord, error)
	UpdateWorklog(ctx context.Context, id string, rec storage.WorklogRecord, user string) (storage.WorklogRecord, error)
	UpdateExpense(ctx context.Context, id string, rec storage.ExpenseRecord, user string) (storage.ExpenseRecord, error)
	UpdateIncome(ctx context.Context, id string, rec storage.IncomeRecord, user string) (storage.IncomeRecord, error)
}

// UpdateFinance rewrites the whole row of {id} with the request body.
func UpdateFinance(log *slog.Logger, updater FinanceUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.finance.update.UpdateFinance"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		switch chi.URLParam(r, table.Param) {
		case table.Salaries:
			rewrite(ctx, w, r, log, op, updater.UpdateSalary)
		case table.ClientBilling:
			rewrite(ctx, w, r, log, op, updater.UpdateClientBilling)
		case table.Payments:
			rewrite(ctx, w, r, log, op, updater.UpdatePayment)
		case table.Worklogs:
			rewrite(ctx, w, r, log, op, updater.UpdateWorklog)
		case table.Expenses:
			rewrite(ctx, w, r, log, op, updater.UpdateExpense)
		case table.Incomes:
			rewrite(ctx, w, r, log, op, updater.UpdateIncome)
		default:
			response.Error(w, r, http.StatusNotFound, table.UnknownMessage)
		}
	}
}

func rewrite[T any](
	ctx context.Context, w http.ResponseWriter, r *http.Request, log *slog.Logger, op string,
	apply func(context.Context, string, T, string) (T, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, r, http.StatusBadRequest, "id is required")
		return
	}

	rec, user, err := save.Decode[T](r)
	if err != nil {
		if response.StatusFor(err) == http.StatusInternalServerError {
			response.Error(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		response.FromError(w, r, log, op, err)
		return
	}

	updated, err := apply(ctx, id, rec, user)
	if err != nil {
		response.FromError(w, r, log, op, err)
		return
	}

	render.JSON(w, r, updated)
}
