package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"agency-dashboard/http-server/finance/save"
	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/storage"
)

type TaskUpdater interface {
	UpdateTask(ctx context.Context, id string, task storage.Task, user string) (storage.Task, error)
}

// UpdateTask saves an edit made against the version the client last read.
// A stale version is answered with 409 so the dashboard can reload.
func UpdateTask(log *slog.Logger, updater TaskUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.update.UpdateTask"

		id := chi.URLParam(r, "id")

		task, user, err := save.Decode[storage.Task](r)
		if err != nil {
			if response.StatusFor(err) == http.StatusInternalServerError {
				response.Error(w, r, http.StatusBadRequest, "invalid JSON body")
				return
			}
			response.FromError(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		updated, err := updater.UpdateTask(ctx, id, task, user)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, updated)
	}
}
