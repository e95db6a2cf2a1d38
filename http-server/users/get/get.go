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

type Users interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
}

func GetUsers(log *slog.Logger, users Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.get.GetUsers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := users.ListUsers(ctx)
		if err != nil {
			response.FromError(w, r, log, op, err)
			return
		}
		if list == nil {
			list = []storage.User{}
		}

		render.JSON(w, r, list)
	}
}
