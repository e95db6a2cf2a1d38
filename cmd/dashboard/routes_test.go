package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-dashboard/internal/cache"
	"agency-dashboard/internal/config"
	genexcel "agency-dashboard/internal/service/generate-excel"
	"agency-dashboard/internal/service/metrics"
	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/storage/sheets"
	"agency-dashboard/internal/tabular"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.New()
	st := sheets.New(tabular.NewMemory(), c, time.Minute)
	require.NoError(t, st.EnsureSchemas(context.Background()))

	ms := metrics.NewMetricsService(st, c, time.Minute, metrics.Options{}, log)
	cfg := config.Config{
		RateLimit:  config.RateLimit{RPS: 1000, Burst: 1000},
		AdminLogin: "admin",
		AdminPass:  "secret",
	}
	return routes(cfg, log, st, c, ms, genexcel.NewGenerateService(ms))
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_SalaryFlowsIntoMetrics(t *testing.T) {
	h := testRouter(t)

	rr := serve(h, http.MethodGet, "/api/metrics?month=2025-03&workspaceId=w1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var before metrics.Report
	require.NoError(t, render.DecodeJSON(rr.Body, &before))
	assert.Empty(t, before.Employees)

	rr = serve(h, http.MethodPost, "/api/finance/salaries",
		`{"employee_id":"u1","employee_name":"Ana","workspace_id":"w1","monthly_salary":12000,"effective_month":"2025-01","current_user":"admin"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created storage.SalaryRecord
	require.NoError(t, render.DecodeJSON(rr.Body, &created))
	assert.NotEmpty(t, created.ID)

	// The write invalidated the cached report.
	rr = serve(h, http.MethodGet, "/api/metrics?month=2025-03&workspaceId=w1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var after metrics.Report
	require.NoError(t, render.DecodeJSON(rr.Body, &after))
	require.Len(t, after.Employees, 1)
	assert.Equal(t, 12000.0, after.Totals.Payroll)

	rr = serve(h, http.MethodDelete, "/api/finance/salaries/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRoutes_ExpenseSeriesIsNotATable(t *testing.T) {
	h := testRouter(t)

	rr := serve(h, http.MethodGet, "/api/finance/expenses/monthly?from=2025-01&to=2025-03", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rr.Body.String()), "["))
}

func TestRoutes_AdminRequiresAuth(t *testing.T) {
	h := testRouter(t)

	rr := serve(h, http.MethodPost, "/api/admin/cache/invalidate", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/invalidate", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := openStore(context.Background(), config.Storage{Driver: "sheets-api"})
	assert.Error(t, err)
}
