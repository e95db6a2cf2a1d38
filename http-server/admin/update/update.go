package update

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type CacheInvalidator interface {
	InvalidatePrefix(prefix string) int
}

type Request struct {
	Prefix string `json:"prefix"`
}

type Response struct {
	Prefix  string `json:"prefix"`
	Removed int    `json:"removed"`
}

// InvalidateCache drops cached sheets and reports. An empty prefix clears
// everything. The body is optional.
func InvalidateCache(log *slog.Logger, cache CacheInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.InvalidateCache"

		var req Request
		if r.ContentLength != 0 {
			if err := render.DecodeJSON(r.Body, &req); err != nil {
				log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("invalid invalidate request")
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": "invalid JSON body"})
				return
			}
		}
		if req.Prefix == "" {
			req.Prefix = r.URL.Query().Get("prefix")
		}

		removed := cache.InvalidatePrefix(req.Prefix)

		log.With(slog.String("op", op)).Info("cache invalidated",
			slog.String("prefix", req.Prefix),
			slog.Int("removed", removed),
		)

		render.JSON(w, r, Response{Prefix: req.Prefix, Removed: removed})
	}
}
