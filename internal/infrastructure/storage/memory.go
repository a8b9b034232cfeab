package storage

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/pkg/utils"
	"sort"
	"sync"
)

// MemoryStore keeps everything in process memory. Ecosystems are stored as
// deep copies: callers mutate their own graph and hand it back through Save.
type MemoryStore struct {
	mu sync.RWMutex

	ecosystems  map[string]*domain.Ecosystem
	organisms   map[string]domain.OrganismTemplate
	plants      map[string]domain.PlantTemplate
	simulations map[string][]archivedBlob
}

type archivedBlob struct {
	id   string
	blob []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ecosystems:  make(map[string]*domain.Ecosystem),
		organisms:   make(map[string]domain.OrganismTemplate),
		plants:      make(map[string]domain.PlantTemplate),
		simulations: make(map[string][]archivedBlob),
	}
}

// --- engine.Store ---

func (s *MemoryStore) Get(_ context.Context, ecosystemID string) (*domain.Ecosystem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eco, ok := s.ecosystems[ecosystemID]
	if !ok {
		return nil, domain.NotFound("ecosystem", "ID")
	}
	return eco.Clone(), nil
}

func (s *MemoryStore) CloneOrganismInto(_ context.Context, ecosystemID, templateName string) (*domain.Organism, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eco, ok := s.ecosystems[ecosystemID]
	if !ok {
		return nil, domain.NotFound("ecosystem", "ID")
	}
	tmpl, ok := s.organisms[templateName]
	if !ok {
		return nil, domain.NotFound("organism", "name")
	}

	member := tmpl.NewMember(utils.GenerateID())
	eco.AddOrganism(member)

	predation, pollination := organismWeb(eco, tmpl, s.lookup, member.ID)
	for _, e := range predation {
		eco.Links().LinkPredation(e.From, e.To)
	}
	for _, e := range pollination {
		eco.Links().LinkPollination(e.From, e.To)
	}

	cp := *member
	return &cp, nil
}

func (s *MemoryStore) ClonePlantInto(_ context.Context, ecosystemID, templateName string) (*domain.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eco, ok := s.ecosystems[ecosystemID]
	if !ok {
		return nil, domain.NotFound("ecosystem", "ID")
	}
	tmpl, ok := s.plants[templateName]
	if !ok {
		return nil, domain.NotFound("plant", "name")
	}

	member := tmpl.NewMember(utils.GenerateID())
	eco.AddPlant(member)
	for _, e := range plantWeb(eco, tmpl.Name, s.lookup, member.ID) {
		eco.Links().LinkPollination(e.From, e.To)
	}

	cp := *member
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, member domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eco := range s.ecosystems {
		switch member.MemberKind() {
		case domain.KindOrganism:
			if eco.RemoveOrganism(member.MemberID()) {
				return nil
			}
		case domain.KindPlant:
			if eco.RemovePlant(member.MemberID()) {
				return nil
			}
		}
	}
	return domain.NotFound(string(member.MemberKind()), "ID")
}

func (s *MemoryStore) Save(_ context.Context, eco *domain.Ecosystem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ecosystems[eco.ID]; !ok {
		return domain.NotFound("ecosystem", "ID")
	}
	s.ecosystems[eco.ID] = eco.Clone()
	return nil
}

// --- Ecosystems ---

func (s *MemoryStore) CreateEcosystem(_ context.Context, eco *domain.Ecosystem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ecosystems {
		if existing.Name == eco.Name {
			return domain.AlreadyExists("ecosystem")
		}
	}
	s.ecosystems[eco.ID] = eco.Clone()
	return nil
}

func (s *MemoryStore) DeleteEcosystem(_ context.Context, ecosystemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ecosystems[ecosystemID]; !ok {
		return domain.NotFound("ecosystem", "ID")
	}
	delete(s.ecosystems, ecosystemID)
	delete(s.simulations, ecosystemID)
	return nil
}

// --- Organism templates ---

func (s *MemoryStore) CreateOrganismTemplate(_ context.Context, t domain.OrganismTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organisms[t.Name]; ok {
		return domain.AlreadyExists("organism")
	}
	s.organisms[t.Name] = t
	return nil
}

func (s *MemoryStore) OrganismTemplate(_ context.Context, name string) (domain.OrganismTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.organisms[name]
	if !ok {
		return domain.OrganismTemplate{}, domain.NotFound("organism", "name")
	}
	return t, nil
}

func (s *MemoryStore) OrganismTemplates(_ context.Context) ([]domain.OrganismTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.OrganismTemplate, 0, len(s.organisms))
	for _, t := range s.organisms {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) UpdateOrganismTemplate(_ context.Context, t domain.OrganismTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organisms[t.Name]; !ok {
		return domain.NotFound("organism", "name")
	}
	s.organisms[t.Name] = t
	return nil
}

func (s *MemoryStore) DeleteOrganismTemplate(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organisms[name]; !ok {
		return domain.NotFound("organism", "name")
	}
	delete(s.organisms, name)
	return nil
}

// --- Plant templates ---

func (s *MemoryStore) CreatePlantTemplate(_ context.Context, t domain.PlantTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plants[t.Name]; ok {
		return domain.AlreadyExists("plant")
	}
	s.plants[t.Name] = t
	return nil
}

func (s *MemoryStore) PlantTemplate(_ context.Context, name string) (domain.PlantTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.plants[name]
	if !ok {
		return domain.PlantTemplate{}, domain.NotFound("plant", "name")
	}
	return t, nil
}

func (s *MemoryStore) PlantTemplates(_ context.Context) ([]domain.PlantTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.PlantTemplate, 0, len(s.plants))
	for _, t := range s.plants {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) UpdatePlantTemplate(_ context.Context, t domain.PlantTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plants[t.Name]; !ok {
		return domain.NotFound("plant", "name")
	}
	s.plants[t.Name] = t
	return nil
}

func (s *MemoryStore) DeletePlantTemplate(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plants[name]; !ok {
		return domain.NotFound("plant", "name")
	}
	delete(s.plants, name)
	return nil
}

// --- engine.ResultArchive ---

// ArchiveSimulation keeps the compressed blob, the same form the sqlite store writes.
func (s *MemoryStore) ArchiveSimulation(_ context.Context, rec engine.SimulationRecord) error {
	blob, err := encodeArchive(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulations[rec.EcosystemID] = append(s.simulations[rec.EcosystemID], archivedBlob{id: rec.ID, blob: blob})
	return nil
}

func (s *MemoryStore) Simulations(_ context.Context, ecosystemID string) ([]engine.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]engine.SimulationRecord, 0, len(s.simulations[ecosystemID]))
	for _, a := range s.simulations[ecosystemID] {
		rec, err := decodeArchive(a.blob)
		if err != nil {
			return nil, err
		}
		rec.ID = a.id
		rec.EcosystemID = ecosystemID
		res = append(res, rec)
	}
	return res, nil
}

// lookup is called with s.mu held.
func (s *MemoryStore) lookup(name string) (domain.OrganismTemplate, bool) {
	t, ok := s.organisms[name]
	return t, ok
}

var (
	_ engine.Repository    = (*MemoryStore)(nil)
	_ engine.ResultArchive = (*MemoryStore)(nil)
)
