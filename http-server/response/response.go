// Package response renders the JSON error body shared by every handler.
package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

var badRequest = []error{
	validation.ErrInvalid,
	finance.ErrInvalidMonth,
	finance.ErrInvalidDate,
	finance.ErrInstallmentMonths,
}

// StatusFor maps an error chain onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrVersionConflict):
		return http.StatusConflict
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// clientMessage cuts the op prefixes off a client error, keeping the text
// from the sentinel on.
func clientMessage(err error, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

// FromError logs err and writes the matching status and message. Internal
// errors are logged at error level and never leak their text.
func FromError(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status := StatusFor(err)
	l := log.With(slog.String("op", op), slog.String("error", err.Error()))

	if status == http.StatusInternalServerError {
		l.Error("request failed")
		Error(w, r, status, "internal server error")
		return
	}

	l.Warn("request rejected", slog.Int("status", status))

	sentinels := append([]error{storage.ErrNotFound, storage.ErrVersionConflict}, badRequest...)
	for _, s := range sentinels {
		if errors.Is(err, s) {
			Error(w, r, status, clientMessage(err, s))
			return
		}
	}
	Error(w, r, status, http.StatusText(status))
}
