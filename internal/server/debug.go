package server

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/systems"
	"ecosystem-server/pkg/api"
	"net/http"
	"net/http/pprof"
	"slices"
)

// DebugHandler exposes the internal state of the simulation service.
type DebugHandler struct {
	Service *engine.SimulationService
}

func NewDebugHandler(s *engine.SimulationService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes registers the debug endpoints and the profiler.
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/locks", h.handleLocks)
	mux.HandleFunc("GET /debug/tasks", h.handleTasks)
	mux.HandleFunc("GET /debug/subscribers", h.handleSubscribers)
	mux.HandleFunc("GET /debug/actions", h.handleActions)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// /debug/locks - ecosystems with a running or waiting batch
func (h *DebugHandler) handleLocks(w http.ResponseWriter, r *http.Request) {
	locked := h.Service.LockedEcosystems()
	if locked == nil {
		locked = []string{}
	}
	writeJSON(w, http.StatusOK, locked)
}

// /debug/tasks - every background task, oldest first, without results
func (h *DebugHandler) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.Service.Tasks.List()
	views := make([]api.TaskView, 0, len(tasks))
	for _, t := range tasks {
		t.Result = nil
		views = append(views, t.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DebugHandler) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"subscribers": h.Service.Hub.SubscriberCount()})
}

// /debug/actions - action catalogue per organism type.
// ?action=hunt keeps only the types that can draw that action.
func (h *DebugHandler) handleActions(w http.ResponseWriter, r *http.Request) {
	var filter domain.ActionType
	if raw := r.URL.Query().Get("action"); raw != "" {
		if filter = domain.ParseAction(raw); filter == domain.ActionUnknown {
			writeJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{Error: "unknown action " + raw})
			return
		}
	}

	res := make(map[domain.OrganismType][]domain.ActionType)
	for _, t := range domain.OrganismTypes() {
		actions := systems.ActionCatalogue(t)
		if filter != domain.ActionUnknown && !slices.Contains(actions, filter) {
			continue
		}
		res[t] = actions
	}
	writeJSON(w, http.StatusOK, res)
}
