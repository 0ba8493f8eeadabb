package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Gender        *string `json:"gender"`
	AgeGroup      *string `json:"ageGroup"`
	Region        *string `json:"region"`
	ShareGender   bool    `json:"shareGender"`
	ShareAgeGroup bool    `json:"shareAgeGroup"`
	ShareRegion   bool    `json:"shareRegion"`
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), userID, ports.UpdateProfileInput{
		Gender:        req.Gender,
		AgeGroup:      req.AgeGroup,
		Region:        req.Region,
		ShareGender:   req.ShareGender,
		ShareAgeGroup: req.ShareAgeGroup,
		ShareRegion:   req.ShareRegion,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}
