package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	OptionIndex *int   `json:"optionIndex"`
	Fingerprint string `json:"fingerprint"`
}

func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollIDStr := chi.URLParam(r, "id")
	pollID, err := uuid.Parse(pollIDStr)
	if err != nil {
		votesRejected.WithLabelValues("INVALID_INPUT").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid poll id")
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		votesRejected.WithLabelValues("INVALID_INPUT").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if req.OptionIndex == nil || req.Fingerprint == "" {
		votesRejected.WithLabelValues("INVALID_INPUT").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "optionIndex and fingerprint are required")
		return
	}

	input := ports.SubmitVoteInput{
		PollID:      pollID,
		OptionIndex: *req.OptionIndex,
		Fingerprint: req.Fingerprint,
	}
	if userID, ok := r.Context().Value(UserIDKey).(uuid.UUID); ok {
		input.UserID = &userID
	}

	results, err := h.service.SubmitVote(r.Context(), input)
	if err != nil {
		votesRejected.WithLabelValues(rejectionCode(err)).Inc()
		writeDomainError(w, err)
		return
	}

	votesAccepted.Inc()
	writeSuccess(w, http.StatusOK, results)
}

func rejectionCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, domain.ErrPollNotFound):
		return "POLL_NOT_FOUND"
	case errors.Is(err, domain.ErrPollExpired):
		return "POLL_EXPIRED"
	case errors.Is(err, domain.ErrDuplicateVote):
		return "DUPLICATE_VOTE"
	default:
		return "INTERNAL_ERROR"
	}
}
