package engine

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/network"
	"ecosystem-server/pkg/logger"
	"ecosystem-server/pkg/utils"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationService is the entry point of the calling layer: it loads
// ecosystems, runs the engine on them under a per-ecosystem lock and persists
// the result once per batch.
type SimulationService struct {
	store  Repository
	engine *Engine
	cfg    Config

	Hub    *network.Broadcaster
	Tasks  *TaskRegistry
	runner *Runner

	locks *keyedMutex
	log   *logrus.Entry
}

// NewService wires the engine to the store and starts the background runner.
// Close stops the runner.
func NewService(store Repository, cfg Config) *SimulationService {
	s := &SimulationService{
		store:  store,
		engine: NewEngine(store, cfg),
		cfg:    cfg,
		Hub:    network.NewBroadcaster(),
		Tasks:  NewTaskRegistry(),
		locks:  newKeyedMutex(),
		log:    logger.Log.WithField("component", "simulation_service"),
	}
	s.runner = newRunner(s, cfg.Workers, cfg.QueueSize)
	s.runner.Start()
	return s
}

// Close waits for running background simulations.
func (s *SimulationService) Close() {
	s.runner.Stop()
}

// Config returns the engine configuration the service runs with.
func (s *SimulationService) Config() Config {
	return s.cfg
}

// --- Simulation ---

// Simulate advances the ecosystem by ticks using the configured seed.
func (s *SimulationService) Simulate(ctx context.Context, ecosystemID string, ticks int) (*SimulationResult, error) {
	return s.SimulateSeeded(ctx, ecosystemID, ticks, s.nextSeed())
}

// SimulateSeeded advances the ecosystem with an explicit seed, so a run on the
// same starting graph can be replayed.
func (s *SimulationService) SimulateSeeded(ctx context.Context, ecosystemID string, ticks int, seed int64) (*SimulationResult, error) {
	if err := s.checkTicks(ticks); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(ecosystemID)
	defer unlock()

	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return nil, err
	}

	// 1. Readers see the ecosystem as busy while the batch runs
	eco.SimulationStatus = domain.StatusProcessing
	if err := s.store.Save(ctx, eco); err != nil {
		return nil, fmt.Errorf("mark ecosystem processing: %w", err)
	}

	// 2. Run
	rng := rand.New(rand.NewSource(seed))
	started := time.Now()
	outcomes, runErr := s.engine.Run(ctx, eco, rng, ticks)

	// 3. Persist once per batch, even a partial one
	eco.SimulationStatus = domain.StatusFinished
	if err := s.store.Save(ctx, eco); err != nil {
		return nil, fmt.Errorf("save ecosystem: %w", err)
	}
	if runErr != nil {
		return nil, runErr
	}

	res := newSimulationResult(eco, seed, ticks, outcomes)

	s.log.WithFields(logrus.Fields{
		"ecosystem": ecosystemID,
		"ticks":     ticks,
		"seed":      seed,
		"outcomes":  len(outcomes),
		"cycle":     eco.Cycle,
		"day":       eco.Day,
		"elapsed":   time.Since(started).String(),
	}).Info("Simulation batch finished")

	// 4. Side channels: archive and live stream
	s.archive(ctx, res)
	if s.Hub.HasSubscriber(ecosystemID) {
		s.Hub.Publish(res.Report())
	}

	return res, nil
}

// SimulateAsync queues the batch on the background runner and returns its token.
// Unknown ecosystems and invalid tick counts are rejected before dispatch.
func (s *SimulationService) SimulateAsync(ctx context.Context, ecosystemID string, ticks int) (string, error) {
	return s.SimulateAsyncSeeded(ctx, ecosystemID, ticks, s.nextSeed())
}

// SimulateAsyncSeeded is SimulateAsync with an explicit seed.
func (s *SimulationService) SimulateAsyncSeeded(ctx context.Context, ecosystemID string, ticks int, seed int64) (string, error) {
	if err := s.checkTicks(ticks); err != nil {
		return "", err
	}
	if _, err := s.store.Get(ctx, ecosystemID); err != nil {
		return "", err
	}

	token := s.Tasks.Create(ecosystemID, ticks)
	err := s.runner.submit(job{token: token, ecosystemID: ecosystemID, ticks: ticks, seed: seed})
	if err != nil {
		s.Tasks.Finish(token, nil, err)
		return "", err
	}
	return token, nil
}

// Task returns the state of a background simulation.
func (s *SimulationService) Task(token string) (Task, error) {
	return s.Tasks.Get(token)
}

// Simulations lists archived results when the store keeps them.
func (s *SimulationService) Simulations(ctx context.Context, ecosystemID string) ([]SimulationRecord, error) {
	archive, ok := s.store.(ResultArchive)
	if !ok {
		return nil, nil
	}
	return archive.Simulations(ctx, ecosystemID)
}

// LockedEcosystems lists the ecosystems with a running or waiting batch.
func (s *SimulationService) LockedEcosystems() []string {
	return s.locks.Held()
}

func (s *SimulationService) archive(ctx context.Context, res *SimulationResult) {
	archive, ok := s.store.(ResultArchive)
	if !ok {
		return
	}
	rec := SimulationRecord{
		ID:          utils.GenerateID(),
		EcosystemID: res.EcosystemID,
		Seed:        res.Seed,
		Ticks:       res.Ticks,
		Outcomes:    res.Outcomes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := archive.ArchiveSimulation(ctx, rec); err != nil {
		s.log.WithError(err).WithField("ecosystem", res.EcosystemID).Warn("Failed to archive simulation")
	}
}

func (s *SimulationService) checkTicks(ticks int) error {
	if ticks < 1 {
		return domain.Validation("ticks must be at least 1, got %d", ticks)
	}
	if s.cfg.MaxTicks > 0 && ticks > s.cfg.MaxTicks {
		return domain.Validation("ticks must be at most %d, got %d", s.cfg.MaxTicks, ticks)
	}
	return nil
}

func (s *SimulationService) nextSeed() int64 {
	if s.cfg.Seed != 0 {
		return s.cfg.Seed
	}
	return time.Now().UnixNano()
}

// --- Inspection ---

func (s *SimulationService) GetEcosystem(ctx context.Context, ecosystemID string) (*domain.Ecosystem, error) {
	return s.store.Get(ctx, ecosystemID)
}

func (s *SimulationService) GetAllOrganisms(ctx context.Context, ecosystemID string) ([]*domain.Organism, error) {
	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return nil, err
	}
	return eco.Organisms, nil
}

func (s *SimulationService) GetAllPlants(ctx context.Context, ecosystemID string) ([]*domain.Plant, error) {
	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return nil, err
	}
	return eco.Plants, nil
}

// --- Ecosystem management ---

// CreateEcosystem validates and stores a new, empty ecosystem.
func (s *SimulationService) CreateEcosystem(ctx context.Context, eco *domain.Ecosystem) (*domain.Ecosystem, error) {
	if eco.ID == "" {
		eco.ID = utils.GenerateID()
	}
	if eco.Cycle == "" {
		eco.Cycle = domain.CycleDiurnal
	}
	if eco.SimulationStatus == "" {
		eco.SimulationStatus = domain.StatusFinished
	}
	eco.Links()

	if err := eco.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateEcosystem(ctx, eco); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"ecosystem": eco.ID, "name": eco.Name}).Info("Ecosystem created")
	return eco, nil
}

func (s *SimulationService) DeleteEcosystem(ctx context.Context, ecosystemID string) error {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()
	return s.store.DeleteEcosystem(ctx, ecosystemID)
}

// AddOrganism clones the named template into the ecosystem.
func (s *SimulationService) AddOrganism(ctx context.Context, ecosystemID, templateName string) (*domain.Organism, error) {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()
	return s.store.CloneOrganismInto(ctx, ecosystemID, templateName)
}

func (s *SimulationService) AddPlant(ctx context.Context, ecosystemID, templateName string) (*domain.Plant, error) {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()
	return s.store.ClonePlantInto(ctx, ecosystemID, templateName)
}

// RemoveOrganism deletes one member of the named species from the ecosystem.
func (s *SimulationService) RemoveOrganism(ctx context.Context, ecosystemID, name string) error {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()

	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return err
	}
	org := eco.OrganismByName(name)
	if org == nil {
		return domain.RelationshipNotFound("ecosystem", "organism")
	}
	return s.store.Delete(ctx, org)
}

func (s *SimulationService) RemovePlant(ctx context.Context, ecosystemID, name string) error {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()

	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return err
	}
	p := eco.PlantByName(name)
	if p == nil {
		return domain.RelationshipNotFound("ecosystem", "plant")
	}
	return s.store.Delete(ctx, p)
}

// LinkPredation makes every member of predator hunt every member of prey.
func (s *SimulationService) LinkPredation(ctx context.Context, ecosystemID, predator, prey string) error {
	return s.relatePredation(ctx, ecosystemID, predator, prey, (*domain.RelationIndex).LinkPredation)
}

// UnlinkPredation removes the hunting edges between two species.
func (s *SimulationService) UnlinkPredation(ctx context.Context, ecosystemID, predator, prey string) error {
	return s.relatePredation(ctx, ecosystemID, predator, prey, (*domain.RelationIndex).UnlinkPredation)
}

// LinkPollination makes every member of pollinator pollinate every member of plant.
func (s *SimulationService) LinkPollination(ctx context.Context, ecosystemID, pollinator, plant string) error {
	return s.relatePollination(ctx, ecosystemID, pollinator, plant, (*domain.RelationIndex).LinkPollination)
}

func (s *SimulationService) UnlinkPollination(ctx context.Context, ecosystemID, pollinator, plant string) error {
	return s.relatePollination(ctx, ecosystemID, pollinator, plant, (*domain.RelationIndex).UnlinkPollination)
}

type relationFunc func(r *domain.RelationIndex, fromID, toID string)

func (s *SimulationService) relatePredation(ctx context.Context, ecosystemID, predator, prey string, apply relationFunc) error {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()

	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return err
	}
	hunters := eco.OrganismsByName(predator)
	hunted := eco.OrganismsByName(prey)
	if len(hunters) == 0 || len(hunted) == 0 {
		return domain.RelationshipNotFound("ecosystem", "organism")
	}

	for _, h := range hunters {
		for _, p := range hunted {
			apply(eco.Links(), h.ID, p.ID)
		}
	}
	return s.store.Save(ctx, eco)
}

func (s *SimulationService) relatePollination(ctx context.Context, ecosystemID, pollinator, plant string, apply relationFunc) error {
	unlock := s.locks.Lock(ecosystemID)
	defer unlock()

	eco, err := s.store.Get(ctx, ecosystemID)
	if err != nil {
		return err
	}
	carriers := eco.OrganismsByName(pollinator)
	if len(carriers) == 0 {
		return domain.RelationshipNotFound("ecosystem", "organism")
	}
	targets := eco.PlantsByName(plant)
	if len(targets) == 0 {
		return domain.RelationshipNotFound("ecosystem", "plant")
	}

	for _, c := range carriers {
		for _, p := range targets {
			apply(eco.Links(), c.ID, p.ID)
		}
	}
	return s.store.Save(ctx, eco)
}

// --- Templates ---

func (s *SimulationService) CreateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) (domain.OrganismTemplate, error) {
	if err := t.Validate(); err != nil {
		return domain.OrganismTemplate{}, err
	}
	if err := s.store.CreateOrganismTemplate(ctx, t); err != nil {
		return domain.OrganismTemplate{}, err
	}
	return t, nil
}

// UpdateOrganismTemplate applies a partial update; an empty patch is a BlankUpdate.
func (s *SimulationService) UpdateOrganismTemplate(ctx context.Context, name string, patch domain.OrganismPatch) (domain.OrganismTemplate, error) {
	if patch.Blank() {
		return domain.OrganismTemplate{}, domain.BlankUpdate()
	}
	t, err := s.store.OrganismTemplate(ctx, name)
	if err != nil {
		return domain.OrganismTemplate{}, err
	}
	patch.Apply(&t)
	if err := t.Validate(); err != nil {
		return domain.OrganismTemplate{}, err
	}
	if err := s.store.UpdateOrganismTemplate(ctx, t); err != nil {
		return domain.OrganismTemplate{}, err
	}
	return t, nil
}

func (s *SimulationService) DeleteOrganismTemplate(ctx context.Context, name string) error {
	return s.store.DeleteOrganismTemplate(ctx, name)
}

func (s *SimulationService) OrganismTemplates(ctx context.Context) ([]domain.OrganismTemplate, error) {
	return s.store.OrganismTemplates(ctx)
}

func (s *SimulationService) CreatePlantTemplate(ctx context.Context, t domain.PlantTemplate) (domain.PlantTemplate, error) {
	if err := t.Validate(); err != nil {
		return domain.PlantTemplate{}, err
	}
	if err := s.store.CreatePlantTemplate(ctx, t); err != nil {
		return domain.PlantTemplate{}, err
	}
	return t, nil
}

func (s *SimulationService) UpdatePlantTemplate(ctx context.Context, name string, patch domain.PlantPatch) (domain.PlantTemplate, error) {
	if patch.Blank() {
		return domain.PlantTemplate{}, domain.BlankUpdate()
	}
	t, err := s.store.PlantTemplate(ctx, name)
	if err != nil {
		return domain.PlantTemplate{}, err
	}
	patch.Apply(&t)
	if err := t.Validate(); err != nil {
		return domain.PlantTemplate{}, err
	}
	if err := s.store.UpdatePlantTemplate(ctx, t); err != nil {
		return domain.PlantTemplate{}, err
	}
	return t, nil
}

func (s *SimulationService) DeletePlantTemplate(ctx context.Context, name string) error {
	return s.store.DeletePlantTemplate(ctx, name)
}

func (s *SimulationService) PlantTemplates(ctx context.Context) ([]domain.PlantTemplate, error) {
	return s.store.PlantTemplates(ctx)
}
