package server

import (
	"ecosystem-server/internal/catalog"
	"ecosystem-server/internal/domain"
	"errors"
	"net/http"
)

// --- Organism templates ---

func (s *Server) handleListOrganismTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.Service.OrganismTemplates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.OrganismTemplate{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateOrganismTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := decodeJSON[domain.OrganismTemplate](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.Service.CreateOrganismTemplate(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateOrganismTemplate(w http.ResponseWriter, r *http.Request) {
	patch, err := decodeBody[domain.OrganismPatch](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.Service.UpdateOrganismTemplate(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOrganismTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeleteOrganismTemplate(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Plant templates ---

func (s *Server) handleListPlantTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.Service.PlantTemplates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.PlantTemplate{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreatePlantTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := decodeJSON[domain.PlantTemplate](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.Service.CreatePlantTemplate(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePlantTemplate(w http.ResponseWriter, r *http.Request) {
	patch, err := decodeBody[domain.PlantPatch](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.Service.UpdatePlantTemplate(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlantTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeletePlantTemplate(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSeedDefaults stores the catalogue templates that are missing.
// When every one of them exists already the answer is 409 with the summary.
func (s *Server) handleSeedDefaults(w http.ResponseWriter, r *http.Request) {
	if s.Catalog == nil {
		s.writeError(w, r, domain.NotFound("catalog", "configuration"))
		return
	}
	sum, err := catalog.SeedTemplates(r.Context(), s.Service, s.Catalog)
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, sum)
	case err != nil:
		s.writeError(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, sum)
	}
}
