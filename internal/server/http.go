package server

import (
	"context"
	"ecosystem-server/internal/catalog"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/version"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// maxBodySize bounds every JSON request body.
const maxBodySize = 1 << 20

type Server struct {
	Service *engine.SimulationService
	// Catalog backs POST /defaults; nil disables the route.
	Catalog *catalog.Catalog
	Port    string

	http *http.Server
	log  *logrus.Entry
}

func New(svc *engine.SimulationService, cat *catalog.Catalog, port string) *Server {
	s := &Server{
		Service: svc,
		Catalog: cat,
		Port:    port,
		log:     logger.Component("http"),
	}
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	// Ecosystems
	mux.HandleFunc("POST /ecosystems", s.handleCreateEcosystem)
	mux.HandleFunc("GET /ecosystems/{id}", s.handleGetEcosystem)
	mux.HandleFunc("DELETE /ecosystems/{id}", s.handleDeleteEcosystem)
	mux.HandleFunc("GET /ecosystems/{id}/organisms", s.handleListOrganisms)
	mux.HandleFunc("POST /ecosystems/{id}/organisms", s.handleAddOrganism)
	mux.HandleFunc("DELETE /ecosystems/{id}/organisms/{name}", s.handleRemoveOrganism)
	mux.HandleFunc("GET /ecosystems/{id}/plants", s.handleListPlants)
	mux.HandleFunc("POST /ecosystems/{id}/plants", s.handleAddPlant)
	mux.HandleFunc("DELETE /ecosystems/{id}/plants/{name}", s.handleRemovePlant)
	mux.HandleFunc("POST /ecosystems/{id}/predation", s.handleRelation(s.Service.LinkPredation))
	mux.HandleFunc("DELETE /ecosystems/{id}/predation", s.handleRelation(s.Service.UnlinkPredation))
	mux.HandleFunc("POST /ecosystems/{id}/pollination", s.handleRelation(s.Service.LinkPollination))
	mux.HandleFunc("DELETE /ecosystems/{id}/pollination", s.handleRelation(s.Service.UnlinkPollination))

	// Simulation
	mux.HandleFunc("POST /ecosystems/{id}/simulate", s.handleSimulate)
	mux.HandleFunc("GET /ecosystems/{id}/simulations", s.handleSimulations)
	mux.HandleFunc("GET /tasks/{token}", s.handleTask)
	mux.HandleFunc("GET /tasks/{token}/outcomes.csv", s.handleTaskOutcomesCSV)

	// Telemetry
	mux.HandleFunc("GET /ecosystems/{id}/census", s.handleCensus)
	mux.HandleFunc("GET /ecosystems/{id}/census.csv", s.handleCensusCSV)

	// Templates
	mux.HandleFunc("GET /templates/organisms", s.handleListOrganismTemplates)
	mux.HandleFunc("POST /templates/organisms", s.handleCreateOrganismTemplate)
	mux.HandleFunc("PATCH /templates/organisms/{name}", s.handleUpdateOrganismTemplate)
	mux.HandleFunc("DELETE /templates/organisms/{name}", s.handleDeleteOrganismTemplate)
	mux.HandleFunc("GET /templates/plants", s.handleListPlantTemplates)
	mux.HandleFunc("POST /templates/plants", s.handleCreatePlantTemplate)
	mux.HandleFunc("PATCH /templates/plants/{name}", s.handleUpdatePlantTemplate)
	mux.HandleFunc("DELETE /templates/plants/{name}", s.handleDeletePlantTemplate)
	mux.HandleFunc("POST /defaults", s.handleSeedDefaults)

	NewDebugHandler(s.Service).RegisterRoutes(mux)

	return enableCORS(mux)
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.log.Infof("Ecosystem server running on :%s", s.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for the running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

// --- Request / response helpers ---

// errBadRequest marks bodies that are not JSON of the expected shape.
var errBadRequest = errors.New("bad request")

// decodeJSON reads the body into T and runs its Validate method.
// Validation errors come back as domain validation failures.
func decodeJSON[T api.Validator](r *http.Request) (T, error) {
	payload, err := decodeBody[T](r)
	if err != nil {
		return payload, err
	}
	if err := payload.Validate(); err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return payload, err
		}
		return payload, domain.Validation("%v", err)
	}
	return payload, nil
}

func decodeBody[T any](r *http.Request) (T, error) {
	var payload T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, fmt.Errorf("%w: invalid payload format: %v", errBadRequest, err)
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound, domain.KindRelationshipNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists:
		return http.StatusConflict
	case domain.KindBlankUpdate:
		return http.StatusBadRequest
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := api.ErrorResponse{Error: err.Error()}
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		resp.Kind = kind.String()
	}

	entry := s.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
		if status == http.StatusInternalServerError {
			resp.Error = "internal error"
		}
	} else {
		entry.Debug("Request rejected")
	}
	writeJSON(w, status, resp)
}
