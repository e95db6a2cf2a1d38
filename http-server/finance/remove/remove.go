package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agency-dashboard/http-server/finance/table"
	"agency-dashboard/http-server/response"
)

type FinanceDeleter interface {
	DeleteSalary(ctx context.Context, id string) error
	DeleteClientBilling(ctx context.Context, id string) error
	DeletePayment(ctx context.Context, id string) error
	DeleteWorklog(ctx context.Context, id string) error
	DeleteExpense(ctx context.Context, id string) error
	DeleteIncome(ctx context.Context, id string) error
}

func DeleteFinance(log *slog.Logger, deleter FinanceDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.finance.remove.DeleteFinance"

		var del func(context.Context, string) error
		switch chi.URLParam(r, table.Param) {
		case table.Salaries:
			del = deleter.DeleteSalary
		case table.ClientBilling:
			del = deleter.DeleteClientBilling
		case table.Payments:
			del = deleter.DeletePayment
		case table.Worklogs:
			del = deleter.DeleteWorklog
		case table.Expenses:
			del = deleter.DeleteExpense
		case table.Incomes:
			del = deleter.DeleteIncome
		default:
			response.Error(w, r, http.StatusNotFound, table.UnknownMessage)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			response.Error(w, r, http.StatusBadRequest, "id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		if err := del(ctx, id); err != nil {
			response.FromError(w, r, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
