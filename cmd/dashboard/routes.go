package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "agency-dashboard/http-server/admin/get"
	upadmin "agency-dashboard/http-server/admin/update"
	getfinance "agency-dashboard/http-server/finance/get"
	removefinance "agency-dashboard/http-server/finance/remove"
	savefinance "agency-dashboard/http-server/finance/save"
	upfinance "agency-dashboard/http-server/finance/update"
	genexcelhandler "agency-dashboard/http-server/generate-report/generate-excel"
	getmetrics "agency-dashboard/http-server/metrics/get"
	getprojects "agency-dashboard/http-server/projects/get"
	gettasks "agency-dashboard/http-server/tasks/get"
	uptasks "agency-dashboard/http-server/tasks/update"
	getusers "agency-dashboard/http-server/users/get"
	"agency-dashboard/internal/cache"
	"agency-dashboard/internal/config"
	"agency-dashboard/internal/middleware/auth"
	"agency-dashboard/internal/middleware/ratelimit"
	genexcel "agency-dashboard/internal/service/generate-excel"
	"agency-dashboard/internal/service/metrics"
	"agency-dashboard/internal/storage/sheets"
)

func routes(cfg config.Config, log *slog.Logger, storage *sheets.Storage, c *cache.Cache, metricsService *metrics.MetricsService, genService *genexcel.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware(log))

	router.Get("/api/metrics", getmetrics.GetMetrics(log, metricsService))
	router.Get("/api/report/excel", genexcelhandler.GenerateReportExcel(log, genService))

	router.Get("/api/finance/expenses/monthly", getfinance.GetExpenseSeries(log, storage))
	router.Get("/api/finance/{table}", getfinance.GetFinance(log, storage))
	router.Post("/api/finance/{table}", savefinance.SaveFinance(log, storage))
	router.Put("/api/finance/{table}/{id}", upfinance.UpdateFinance(log, storage))
	router.Delete("/api/finance/{table}/{id}", removefinance.DeleteFinance(log, storage))

	router.Get("/api/tasks", gettasks.GetTasks(log, storage))
	router.Put("/api/tasks/{id}", uptasks.UpdateTask(log, storage))
	router.Get("/api/projects", getprojects.GetProjects(log, storage))
	router.Get("/api/users", getusers.GetUsers(log, storage))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/cache", getadmin.GetCacheStats(log, c))
	adminRouter.Post("/cache/invalidate", upadmin.InvalidateCache(log, c))

	router.Mount("/api/admin", adminRouter)

	return router
}
