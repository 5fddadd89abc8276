package shared

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adrent/billboard-admin/internal/platform/httpx"
)

// ParseID reads the {id} URL parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Respond writes err as a problem document, logging gateway failures.
func Respond(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	var kind error
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrRequiredField), errors.Is(err, ErrValidation):
		kind = httpx.ErrValidation
	case errors.Is(err, ErrNotFound):
		kind = httpx.ErrNotFound
	case errors.Is(err, ErrDuplicate):
		kind = httpx.ErrDuplicate
	case errors.Is(err, ErrLoadFailed):
		kind = httpx.ErrUnavailable
	case errors.Is(err, ErrWriteFailed):
		kind = httpx.ErrWriteFailed
	case errors.Is(err, httpx.ErrValidation):
		httpx.RespondError(w, err)
		return
	}
	if kind == nil || kind == httpx.ErrUnavailable || kind == httpx.ErrWriteFailed {
		logger.Error(msg, slog.Any("error", err))
	}
	if kind == nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.RespondError(w, httpx.Classify(kind, err))
}
