package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

// pollOptionPayload accepts both wire shapes for an option: a bare string
// or {text, imageUrl}. Everything downstream sees the normalized struct.
type pollOptionPayload struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"imageUrl"`
}

func (o *pollOptionPayload) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &o.Text)
	}
	type plain pollOptionPayload
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = pollOptionPayload(p)
	return nil
}

type createPollRequest struct {
	Question  string              `json:"question"`
	Options   []pollOptionPayload `json:"options"`
	Tags      []string            `json:"tags"`
	ExpiresAt *time.Time          `json:"expiresAt"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}

	options := make([]domain.PollOption, len(req.Options))
	for i, opt := range req.Options {
		options[i] = domain.PollOption{Text: opt.Text, ImageURL: opt.ImageURL}
	}

	input := ports.CreatePollInput{
		Question:  req.Question,
		Options:   options,
		Tags:      req.Tags,
		ExpiresAt: req.ExpiresAt,
	}
	if userID, ok := r.Context().Value(UserIDKey).(uuid.UUID); ok {
		input.CreatorID = &userID
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	pollsCreated.Inc()
	writeSuccess(w, http.StatusCreated, poll)
}

type pollDetailResponse struct {
	*domain.Poll
	Results *domain.PollResults `json:"results"`
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	poll, results, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, pollDetailResponse{Poll: poll, Results: results})
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	// Malformed limits fall back to the service default rather than erroring.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	input := ports.ListPollsInput{
		Sort:   r.URL.Query().Get("sort"),
		Tag:    r.URL.Query().Get("tag"),
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	}

	polls, nextCursor, err := h.service.ListPolls(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"polls":      polls,
		"nextCursor": nextCursor,
	})
}

func (h *PollHandler) DeactivatePoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	if err := h.service.Deactivate(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
