package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type CacheStats interface {
	Len() int
}

type Response struct {
	Entries int `json:"entries"`
}

func GetCacheStats(log *slog.Logger, cache CacheStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.get.GetCacheStats"

		n := cache.Len()
		log.With(slog.String("op", op)).Debug("cache stats", slog.Int("entries", n))

		render.JSON(w, r, Response{Entries: n})
	}
}
