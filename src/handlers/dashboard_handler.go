// src/handlers/dashboard_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: service, now: time.Now}
}

func loggerFor(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context())
}

// HandleGetDashboard answers 304 when the client already holds the dashboard for the current inputs.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	dash, etag, err := h.dashboardService.GetDashboard(userID, h.now())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	quotedETag := fmt.Sprintf("\"%s\"", etag)
	w.Header().Set("ETag", quotedETag)
	if match := r.Header.Get("If-None-Match"); match != "" {
		for _, candidate := range strings.Split(match, ",") {
			if strings.TrimSpace(candidate) == quotedETag {
				loggerFor(r).Debug("ETag match for dashboard", "etag", etag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}
	utils.SendJSON(w, dash, http.StatusOK)
}
