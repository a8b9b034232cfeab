package server

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/telemetry"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/utils"
	"net/http"
	"strconv"
)

func summaryOf(eco *domain.Ecosystem) api.EcosystemSummary {
	return api.EcosystemSummary{
		ID:          eco.ID,
		Name:        eco.Name,
		Environment: string(eco.Environment),
		Status:      string(eco.SimulationStatus),
		Clock: api.ClockView{
			Cycle:          string(eco.Cycle),
			Day:            eco.Day,
			Year:           eco.Year,
			WaterAvailable: eco.WaterAvailable,
		},
		Organisms:     len(eco.Organisms),
		Plants:        len(eco.Plants),
		MinWaterToAdd: eco.MinWaterToAdd,
		MaxWaterToAdd: eco.MaxWaterToAdd,
	}
}

func (s *Server) handleCreateEcosystem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[api.CreateEcosystemRequest](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	env := domain.EnvironmentType(req.Environment)
	if parsed, ok := domain.ParseEnvironment(req.Environment); ok {
		env = parsed
	}
	eco := domain.NewEcosystem("", req.Name, req.WaterAvailable, req.MinWaterToAdd, req.MaxWaterToAdd)
	eco.Environment = env

	created, err := s.Service.CreateEcosystem(r.Context(), eco)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summaryOf(created))
}

func (s *Server) handleGetEcosystem(w http.ResponseWriter, r *http.Request) {
	eco, err := s.Service.GetEcosystem(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryOf(eco))
}

func (s *Server) handleDeleteEcosystem(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeleteEcosystem(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Members ---

func (s *Server) handleListOrganisms(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.Service.GetAllOrganisms(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if orgs == nil {
		orgs = []*domain.Organism{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.Service.GetAllPlants(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if plants == nil {
		plants = []*domain.Plant{}
	}
	writeJSON(w, http.StatusOK, plants)
}

func (s *Server) handleAddOrganism(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[api.MemberRequest](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	org, err := s.Service.AddOrganism(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (s *Server) handleAddPlant(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[api.MemberRequest](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.Service.AddPlant(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRemoveOrganism(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.RemoveOrganism(r.Context(), r.PathValue("id"), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemovePlant(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.RemovePlant(r.Context(), r.PathValue("id"), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type relateFunc func(ctx context.Context, ecosystemID, from, to string) error

// handleRelation serves the predation and pollination edges, both directions.
func (s *Server) handleRelation(apply relateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[api.LinkRequest](r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := apply(r.Context(), r.PathValue("id"), req.From, req.To); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- Simulation ---

// handleSimulate runs short batches inline and hands longer ones to the
// background runner, answering 202 with the task token.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q := r.URL.Query()

	ticks := 1
	if raw := q.Get("ticks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, domain.Validation("ticks must be an integer, got %q", raw))
			return
		}
		ticks = n
	}

	// Labels like "spring-test" replay as well as numbers do
	seed, seeded := int64(0), false
	if raw := q.Get("seed"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			n = utils.SeedFromString(raw)
		}
		seed, seeded = n, true
	}

	if ticks > s.Service.Config().AsyncThreshold {
		var (
			token string
			err   error
		)
		if seeded {
			token, err = s.Service.SimulateAsyncSeeded(r.Context(), id, ticks, seed)
		} else {
			token, err = s.Service.SimulateAsync(r.Context(), id, ticks)
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, api.TaskAccepted{Token: token, Status: string(engine.TaskPending)})
		return
	}

	// A started batch runs to the end even if the client goes away; its
	// outcomes are persisted and archived with the ecosystem.
	ctx := context.WithoutCancel(r.Context())
	var (
		res *engine.SimulationResult
		err error
	)
	if seeded {
		res, err = s.Service.SimulateSeeded(ctx, id, ticks, seed)
	} else {
		res, err = s.Service.Simulate(ctx, id, ticks)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Response())
}

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.Service.GetEcosystem(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.Service.Simulations(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]api.SimulationView, 0, len(records))
	for _, rec := range records {
		views = append(views, rec.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.Service.Task(r.PathValue("token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task.View())
}

func (s *Server) handleTaskOutcomesCSV(w http.ResponseWriter, r *http.Request) {
	task, err := s.Service.Task(r.PathValue("token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if task.Status != engine.TaskFinished || task.Result == nil {
		writeJSON(w, http.StatusConflict, api.ErrorResponse{Error: "task is " + string(task.Status)})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="outcomes-`+task.Token+`.csv"`)
	if err := telemetry.WriteOutcomesCSV(w, task.Result.Outcomes); err != nil {
		s.log.WithError(err).Warn("Outcome export failed")
	}
}

// --- Telemetry ---

func (s *Server) handleCensus(w http.ResponseWriter, r *http.Request) {
	eco, err := s.Service.GetEcosystem(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, telemetry.TakeCensus(eco))
}

func (s *Server) handleCensusCSV(w http.ResponseWriter, r *http.Request) {
	eco, err := s.Service.GetEcosystem(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	if err := telemetry.WriteCensusCSV(w, telemetry.TakeCensus(eco)); err != nil {
		s.log.WithError(err).Warn("Census export failed")
	}
}
