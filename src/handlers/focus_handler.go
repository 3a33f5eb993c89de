// src/handlers/focus_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
	"github.com/go-chi/chi/v5"
)

type FocusHandler struct {
	focusService services.FocusService
	now          func() time.Time
}

func NewFocusHandler(service services.FocusService) *FocusHandler {
	return &FocusHandler{focusService: service, now: time.Now}
}

func (h *FocusHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	state, err := h.focusService.Get(userID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, state, http.StatusOK)
}

func (h *FocusHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	state := models.NewFocusState()
	if err := json.NewDecoder(r.Body).Decode(state); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	saved, err := h.focusService.Save(userID, state)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, saved, http.StatusOK)
}

func (h *FocusHandler) HandleMarkRitmo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	state, err := h.focusService.MarkRitmo(userID, chi.URLParam(r, "taskID"), h.now())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, state.Ritmo, http.StatusOK)
}
