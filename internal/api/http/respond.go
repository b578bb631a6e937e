package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP status codes. Every engine
// failure is a clean rejection of one operation, so anything mapped
// here is safe for the caller to retry with adjusted parameters.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrSameParty):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientListing),
		errors.Is(err, domain.ErrInsufficientReservation),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrRefundUnfunded),
		errors.Is(err, domain.ErrReservationCapExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCapacityExceeded):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Unhandled error in handler", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
