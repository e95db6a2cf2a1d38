package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"agency-dashboard/http-server/response"
	"agency-dashboard/internal/storage"
)

type TaskLister interface {
	ListTasks(ctx context.Context, f storage.Filter) ([]storage.Task, error)
}

func GetTasks(log *slog.Logger, lister TaskLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.get.GetTasks"

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		tasks, err := lister.ListTasks(ctx, storage.Filter{WorkspaceID: r.URL.Query().Get("workspaceId")})
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}
		if tasks == nil {
			tasks = []storage.Task{}
		}

		render.JSON(w, r, tasks)
	}
}
