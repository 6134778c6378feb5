package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fitroom/internal/imaging"
	"github.com/dmitrijs2005/fitroom/internal/journal"
	"github.com/dmitrijs2005/fitroom/internal/kling"
	"github.com/dmitrijs2005/fitroom/internal/netx"
	"github.com/dmitrijs2005/fitroom/internal/outfits"
	"github.com/dmitrijs2005/fitroom/internal/storage"
	"github.com/dmitrijs2005/fitroom/internal/tryon"
)

var (
	errMissingField = errors.New("missing form field")
	errBadBody      = errors.New("malformed request body")
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tryon.ErrInvalidSelection),
		errors.Is(err, imaging.ErrDecodeFailed),
		errors.Is(err, imaging.ErrInvalidDimensions),
		errors.Is(err, errMissingField),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, outfits.ErrNotFound),
		errors.Is(err, journal.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrTerminal):
		return http.StatusConflict
	case errors.Is(err, kling.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, kling.ErrJobFailed):
		return http.StatusBadGateway
	case errors.Is(err, kling.ErrUnreachable),
		errors.Is(err, netx.ErrUnreachable),
		errors.Is(err, netx.ErrTimeout),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, kling.ErrPollExhausted),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		msg = http.StatusText(status)
	case status >= http.StatusUnprocessableEntity:
		msg = tryon.UserMessage(err)
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.log.Warn(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	respondJSON(w, status, errorBody{Error: msg})
}
