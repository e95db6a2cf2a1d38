package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/service/metrics"
)

type ReportProvider interface {
	Report(ctx context.Context, workspaceID string, month finance.Month) (metrics.Report, error)
}

// GetMetrics serves the monthly report. A missing or malformed month falls
// back to the current one. Failures are answered with 200 and a zero-filled
// report carrying the error, so the dashboard keeps rendering.
func GetMetrics(log *slog.Logger, provider ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.metrics.get.GetMetrics"

		q := r.URL.Query()
		month := finance.MonthOrCurrent(q.Get("month"), time.Now())
		workspaceID := q.Get("workspaceId")
		if workspaceID == "" {
			workspaceID = q.Get("workspace_id")
		}

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		report, err := provider.Report(ctx, workspaceID, month)
		if err != nil {
			log.With(
				slog.String("op", op),
				slog.String("workspace_id", workspaceID),
				slog.String("month", month.String()),
				slog.String("error", err.Error()),
			).Error("failed to build metrics report")

			render.JSON(w, r, metrics.EmptyReport(month, workspaceID, "failed to build metrics report"))
			return
		}

		render.JSON(w, r, report)
	}
}
