package save

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"agency-dashboard/http-server/finance/table"
	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/validation"
)

// DefaultUser is recorded in the audit columns when the request carries no
// current_user.
const DefaultUser = "system"

type FinanceCreator interface {
	CreateSalary(ctx context.Context, rec storage.SalaryRecord, user string) (storage.SalaryRecord, error)
	CreateClientBilling(ctx context.Context, rec storage.ClientBillingRecord, user string) (storage.ClientBillingRecord, error)
	CreatePayment(ctx context.Context, rec storage.PaymentRecord, user string) (storage.PaymentRecord, error)
	CreateWorklog(ctx context.Context, rec storage.WorklogRecord, user string) (storage.WorklogRecord, error)
	CreateExpense(ctx context.Context, rec storage.ExpenseRecord, user string) (storage.ExpenseRecord, error)
	CreateIncome(ctx context.Context, rec storage.IncomeRecord, user string) (storage.IncomeRecord, error)
}

// Decode reads a record and the current_user sent alongside it, then
// validates the record.
func Decode[T any](r *http.Request) (T, string, error) {
	var rec T

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return rec, "", err
	}

	var meta struct {
		CurrentUser string `json:"current_user"`
	}
	if err := render.DecodeJSON(bytes.NewReader(body), &meta); err != nil {
		return rec, "", err
	}
	if err := render.DecodeJSON(bytes.NewReader(body), &rec); err != nil {
		return rec, "", err
	}

	if err := validation.Struct(rec); err != nil {
		return rec, "", err
	}

	if meta.CurrentUser == "" {
		meta.CurrentUser = DefaultUser
	}
	return rec, meta.CurrentUser, nil
}

func SaveFinance(log *slog.Logger, creator FinanceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.finance.save.SaveFinance"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		switch chi.URLParam(r, table.Param) {
		case table.Salaries:
			create(ctx, w, r, log, op, creator.CreateSalary)
		case table.ClientBilling:
			create(ctx, w, r, log, op, creator.CreateClientBilling)
		case table.Payments:
			create(ctx, w, r, log, op, creator.CreatePayment)
		case table.Worklogs:
			create(ctx, w, r, log, op, creator.CreateWorklog)
		case table.Expenses:
			create(ctx, w, r, log, op, creator.CreateExpense)
		case table.Incomes:
			create(ctx, w, r, log, op, creator.CreateIncome)
		default:
			response.Error(w, r, http.StatusNotFound, table.UnknownMessage)
		}
	}
}

func create[T any](
	ctx context.Context, w http.ResponseWriter, r *http.Request, log *slog.Logger, op string,
	save func(context.Context, T, string) (T, error),
) {
	rec, user, err := Decode[T](r)
	if err != nil {
		if response.StatusFor(err) == http.StatusInternalServerError {
			response.Error(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		response.FromError(w, r, log, op, err)
		return
	}

	saved, err := save(ctx, rec, user)
	if err != nil {
		response.FromError(w, r, log, op, err)
		return
	}

	log.Info("finance record created", slog.String("op", op), slog.String("table", chi.URLParam(r, table.Param)))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, saved)
}
