package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/finance"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, workspaceID string, month finance.Month) ([]byte, error)
}

// GenerateReportExcel streams the monthly report as an xlsx download.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		q := r.URL.Query()
		month := finance.MonthOf(time.Now())
		if raw := q.Get("month"); raw != "" {
			m, err := finance.ParseMonth(raw)
			if err != nil {
				response.FromError(w, r, log, op, err)
				return
			}
			month = m
		}
		workspaceID := q.Get("workspaceId")

		// Excel gets more time than the JSON endpoints.
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, workspaceID, month)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Agency_Report_%s.xlsx", month)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("failed to write excel")
		}
	}
}
