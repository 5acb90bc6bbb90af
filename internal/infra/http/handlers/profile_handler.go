package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/autoleads/internal/usecase"
)

type ProfileHandler struct {
	ProfileUC *usecase.ProfileUseCase
}

func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{ProfileUC: uc}
}

// Get (GET /profile)
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ProfileUC.Get())
}

// Save (PUT /profile)
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "invalid JSON")
		return
	}

	output, err := h.ProfileUC.Save(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	recordWarning("save_profile", output.Warning)
	writeJSON(w, http.StatusOK, output)
}
