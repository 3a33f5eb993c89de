// src/handlers/planner_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
	"github.com/go-chi/chi/v5"
)

type PlannerHandler struct {
	plannerService services.PlannerService
	now            func() time.Time
}

func NewPlannerHandler(service services.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: service, now: time.Now}
}

func (h *PlannerHandler) dayParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	day, err := validation.ValidateDateString(chi.URLParam(r, "date"), "date")
	if err != nil {
		sendServiceError(w, r, err)
		return time.Time{}, false
	}
	return day, true
}

func (h *PlannerHandler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}
	state, err := h.plannerService.GetDay(userID, day)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, state, http.StatusOK)
}

// HandlePutDay replaces the blocks of the day in the URL; body {"blocos": {...}}.
func (h *PlannerHandler) HandlePutDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}
	var state models.DayState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	state.Day = day
	saved, err := h.plannerService.SaveDay(userID, &state)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, saved, http.StatusOK)
}

func (h *PlannerHandler) HandleCurrentBlock(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.plannerService.CurrentBlock(h.now()), http.StatusOK)
}

func (h *PlannerHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projects, err := h.plannerService.ListProjects(userID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, projects, http.StatusOK)
}

func (h *PlannerHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.plannerService.CreateProject(userID, &p); err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, p, http.StatusCreated)
}

func (h *PlannerHandler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid project ID", http.StatusBadRequest)
		return
	}
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = id
	if err := h.plannerService.UpdateProject(userID, &p); err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, p, http.StatusOK)
}

func (h *PlannerHandler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid project ID", http.StatusBadRequest)
		return
	}
	if err := h.plannerService.DeleteProject(userID, id); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
