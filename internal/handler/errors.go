package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"citrusreach/internal/domain"
	"citrusreach/internal/httputil"
)

// respondServiceError maps domain errors to HTTP responses. ErrForbidden and
// ErrNotFound deliberately render the identical 404 body: the two are kept
// distinct internally for tests, but a caller probing ids must never learn
// whether another owner's node exists.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
