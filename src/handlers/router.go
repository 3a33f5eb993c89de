// src/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/focoagora/backend/src/config"
	"github.com/focoagora/backend/src/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Ledger    *LedgerHandler
	Dashboard *DashboardHandler
	Focus     *FocusHandler
	Planner   *PlannerHandler
	Snapshot  *SnapshotHandler
}

func NewRouter(cfg *config.AppConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"message": "FocoAgora backend is running"}, http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/day/current-block", h.Planner.HandleCurrentBlock)

		r.Group(func(r chi.Router) {
			r.Use(UserMiddleware)

			r.Get("/ledger", h.Ledger.HandleList)
			r.Post("/ledger", h.Ledger.HandleCreate)
			r.Patch("/ledger/{id}", h.Ledger.HandleSetPaid)
			r.Delete("/ledger/{id}", h.Ledger.HandleDelete)
			r.Post("/ledger/generate", h.Ledger.HandleGenerate)
			r.Post("/ledger/projections", h.Ledger.HandleProjections)
			r.Post("/import", h.Ledger.HandleImport(cfg.MaxUploadSizeBytes))

			r.Get("/dashboard", h.Dashboard.HandleGetDashboard)

			r.Get("/focus-state", h.Focus.HandleGet)
			r.Put("/focus-state", h.Focus.HandlePut)
			r.Post("/ritmo/{taskID}", h.Focus.HandleMarkRitmo)

			r.Get("/day/{date}", h.Planner.HandleGetDay)
			r.Put("/day/{date}", h.Planner.HandlePutDay)

			r.Get("/projects", h.Planner.HandleListProjects)
			r.Post("/projects", h.Planner.HandleCreateProject)
			r.Put("/projects/{id}", h.Planner.HandleUpdateProject)
			r.Delete("/projects/{id}", h.Planner.HandleDeleteProject)

			r.Get("/snapshots", h.Snapshot.HandleList)
			r.Post("/snapshots", h.Snapshot.HandleCreate)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSONError(w, "not found", http.StatusNotFound)
	})
	return r
}
