// src/handlers/snapshot_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
)

type SnapshotHandler struct {
	snapshotService services.SnapshotService
}

func NewSnapshotHandler(service services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: service}
}

// HandleList returns snapshots newest first; ?limit=N caps the count.
func (h *SnapshotHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.SendJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	snapshots, err := h.snapshotService.List(userID, limit)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, snapshots, http.StatusOK)
}

func (h *SnapshotHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var snap models.WeeklySnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.snapshotService.Create(userID, &snap); err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, snap, http.StatusCreated)
}
