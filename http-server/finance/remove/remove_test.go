package remove

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"agency-dashboard/internal/storage"
)

type MockFinanceDeleter struct {
	mock.Mock
}

func (m *MockFinanceDeleter) DeleteSalary(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFinanceDeleter) DeleteClientBilling(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFinanceDeleter) DeletePayment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFinanceDeleter) DeleteWorklog(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFinanceDeleter) DeleteExpense(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFinanceDeleter) DeleteIncome(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func del(deleter *MockFinanceDeleter, url string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Delete("/api/finance/{table}/{id}", DeleteFinance(slog.Default(), deleter))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, url, nil))
	return rr
}

func TestDeleteFinance(t *testing.T) {
	deleter := new(MockFinanceDeleter)
	deleter.On("DeleteExpense", mock.Anything, "e1").Return(nil)
	deleter.On("DeleteSalary", mock.Anything, "missing").
		Return(fmt.Errorf("storage.sheets.DeleteSalary: %w", storage.ErrNotFound))

	assert.Equal(t, http.StatusNoContent, del(deleter, "/api/finance/expenses/e1").Code)
	assert.Equal(t, http.StatusNotFound, del(deleter, "/api/finance/salaries/missing").Code)
	assert.Equal(t, http.StatusNotFound, del(deleter, "/api/finance/unknown/x").Code)

	deleter.AssertExpectations(t)
}
