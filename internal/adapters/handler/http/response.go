package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vibepulse/api/internal/core/domain"
)

// Wire envelope: success responses wrap their payload in {"data": ...},
// failures carry {"error": {"code", "message"}}.

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": errorBody{Code: code, Message: message}})
}

// writeDomainError maps domain sentinels to their wire codes. Anything
// unmapped is a server fault: logged here, surfaced as INTERNAL_ERROR.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPollID):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid input")
	case errors.Is(err, domain.ErrPollNotFound):
		writeError(w, http.StatusNotFound, "POLL_NOT_FOUND", "poll not found")
	case errors.Is(err, domain.ErrPollExpired):
		writeError(w, http.StatusBadRequest, "POLL_EXPIRED", "poll is closed")
	case errors.Is(err, domain.ErrDuplicateVote):
		writeError(w, http.StatusConflict, "DUPLICATE_VOTE", "already voted on this poll")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
