package response

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/validation"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("op: %w", storage.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("op: %w", storage.ErrVersionConflict), http.StatusConflict},
		{fmt.Errorf("%w: Hours is required", validation.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("op: %w", finance.ErrInstallmentMonths), http.StatusBadRequest},
		{fmt.Errorf("op: paid_date: %w", finance.ErrInvalidDate), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFromError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "not found",
			err:     fmt.Errorf("storage.sheets.DeleteIncome: %w: incomes abc", storage.ErrNotFound),
			status:  http.StatusNotFound,
			message: "record not found: incomes abc",
		},
		{
			name:    "bad installment",
			err:     fmt.Errorf("storage.sheets.CreateExpense: %w", finance.ErrInstallmentMonths),
			status:  http.StatusBadRequest,
			message: finance.ErrInstallmentMonths.Error(),
		},
		{
			name:    "internal",
			err:     errors.New("tabular: rate limited: quota"),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			FromError(rr, req, log, "test", tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var resp ErrorResponse
			require.NoError(t, render.DecodeJSON(rr.Body, &resp))
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}
