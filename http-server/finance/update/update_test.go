package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agency-dashboard/internal/storage"
)

type MockFinanceUpdater struct {
	mock.Mock
}

func (m *MockFinanceUpdater) UpdateSalary(ctx context.Context, id string, rec storage.SalaryRecord, user string) (storage.SalaryRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.SalaryRecord), args.Error(1)
}

func (m *MockFinanceUpdater) UpdateClientBilling(ctx context.Context, id string, rec storage.ClientBillingRecord, user string) (storage.ClientBillingRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.ClientBillingRecord), args.Error(1)
}

func (m *MockFinanceUpdater) UpdatePayment(ctx context.Context, id string, rec storage.PaymentRecord, user string) (storage.PaymentRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.PaymentRecord), args.Error(1)
}

func (m *MockFinanceUpdater) UpdateWorklog(ctx context.Context, id string, rec storage.WorklogRecord, user string) (storage.WorklogRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.WorklogRecord), args.Error(1)
}

func (m *MockFinanceUpdater) UpdateExpense(ctx context.Context, id string, rec storage.ExpenseRecord, user string) (storage.ExpenseRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.ExpenseRecord), args.Error(1)
}

func (m *MockFinanceUpdater) UpdateIncome(ctx context.Context, id string, rec storage.IncomeRecord, user string) (storage.IncomeRecord, error) {
	args := m.Called(ctx, id, rec, user)
	return args.Get(0).(storage.IncomeRecord), args.Error(1)
}

func put(updater *MockFinanceUpdater, url, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Put("/api/finance/{table}/{id}", UpdateFinance(slog.Default(), updater))

	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUpdateFinance_PaymentMarkedPaid(t *testing.T) {
	onTime := false
	delay := 3

	updater := new(MockFinanceUpdater)
	updater.On("UpdatePayment", mock.Anything, "pay-1", mock.MatchedBy(func(rec storage.PaymentRecord) bool {
		return rec.PaidDate == "2025-03-08" && rec.PaidAmount == 5000
	}), "luis").Return(storage.PaymentRecord{
		ID: "pay-1", ExpectedDate: "2025-03-05", PaidDate: "2025-03-08", IsOnTime: &onTime, DaysDelay: &delay,
	}, nil)

	rr := put(updater, "/api/finance/payments/pay-1", `{
		"workspace_id":"w1","project_id":"p1","expected_amount":5000,
		"expected_date":"2025-03-05","paid_amount":5000,"paid_date":"2025-03-08",
		"current_user":"luis"
	}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp storage.PaymentRecord
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	require.NotNil(t, resp.IsOnTime)
	assert.False(t, *resp.IsOnTime)
	require.NotNil(t, resp.DaysDelay)
	assert.Equal(t, 3, *resp.DaysDelay)

	updater.AssertExpectations(t)
}

func TestUpdateFinance_NotFound(t *testing.T) {
	updater := new(MockFinanceUpdater)
	updater.On("UpdateIncome", mock.Anything, "gone", mock.Anything, mock.Anything).
		Return(storage.IncomeRecord{}, fmt.Errorf("storage.sheets.UpdateIncome: %w: incomes gone", storage.ErrNotFound))

	rr := put(updater, "/api/finance/incomes/gone", `{"workspace_id":"w1","concept":"x","amount":1,"date":"2025-03-01"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "record not found")
}

func TestUpdateFinance_Invalid(t *testing.T) {
	updater := new(MockFinanceUpdater)

	rr := put(updater, "/api/finance/client-billing/b1", `{"workspace_id":"w1","project_id":"p1","monthly_amount":100,"payment_day":0}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Payment Day")
	updater.AssertNotCalled(t, "UpdateClientBilling", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
