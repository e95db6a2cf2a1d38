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

type ProjectLister interface {
	ListProjects(ctx context.Context, f storage.Filter) ([]storage.Project, error)
}

func GetProjects(log *slog.Logger, lister ProjectLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.get.GetProjects"

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		projects, err := lister.ListProjects(ctx, storage.Filter{WorkspaceID: r.URL.Query().Get("workspaceId")})
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}
		if projects == nil {
			projects = []storage.Project{}
		}

		render.JSON(w, r, projects)
	}
}
