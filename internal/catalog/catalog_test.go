package catalog

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/internal/infrastructure/storage"
	"ecosystem-server/pkg/logger"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

func newService(t *testing.T) *engine.SimulationService {
	t.Helper()
	svc := engine.NewService(storage.NewMemoryStore(), engine.NewConfig())
	t.Cleanup(svc.Close)
	return svc
}

const smallCatalog = `
organisms:
  - name: Fox
    type: predator
    diet_type: carnivore
    weight: 8
    size: 0.6
    max_age: 8
    reproduction_age: 1
    fertility_rate: 4
    water_consumption: 1
    food_consumption: 1
    activity_cycle: nocturnal
    speed: fast
    social_behavior: solitary
    prey: [Rabbit]
  - name: Rabbit
    type: herbivore
    diet_type: herbivore
    weight: 2
    size: 0.3
    max_age: 5
    reproduction_age: 0.5
    fertility_rate: 6
    water_consumption: 0.5
    food_consumption: 0.5
    activity_cycle: crepuscular
    speed: fast
    social_behavior: herd
plants:
  - name: Clover
    type: herb
    weight: 3
    size: 0.1
    max_age: 2
    reproduction_age: 0.5
    fertility_rate: 5
    water_need: 0.5
ecosystems:
  - name: Hedge
    environment: TAIGA
    water_available: 300
    minimum_water_to_add: 10
    max_water_to_add: 20
    plants:
      - { name: Clover, count: 2 }
    organisms:
      - { name: Rabbit, count: 3 }
      - { name: Fox, count: 1 }
`

func TestDefault(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Embedded catalog is invalid: %v", err)
	}
	if len(cat.Organisms) == 0 || len(cat.Plants) == 0 || len(cat.Ecosystems) == 0 {
		t.Fatalf("Embedded catalog is incomplete: %d organisms, %d plants, %d ecosystems",
			len(cat.Organisms), len(cat.Plants), len(cat.Ecosystems))
	}
	for _, spec := range cat.Organisms {
		if err := spec.Template().Validate(); err != nil {
			t.Errorf("Organism %s: %v", spec.Name, err)
		}
	}
	for _, spec := range cat.Plants {
		if err := spec.Template().Validate(); err != nil {
			t.Errorf("Plant %s: %v", spec.Name, err)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "organisms: [unclosed"},
		{"unknown field", "colour: green"},
		{"bad organism type", `
organisms:
  - {name: X, type: dragon, diet_type: carnivore, weight: 1, size: 1, max_age: 1, reproduction_age: 0,
     fertility_rate: 1, water_consumption: 1, food_consumption: 1, activity_cycle: diurnal, speed: slow,
     social_behavior: solitary}`},
		{"missing required field", `
plants:
  - {name: Moss, type: herb}`},
		{"unknown prey", `
organisms:
  - {name: X, type: predator, diet_type: carnivore, weight: 1, size: 1, max_age: 1, reproduction_age: 0,
     fertility_rate: 1, water_consumption: 1, food_consumption: 1, activity_cycle: diurnal, speed: slow,
     social_behavior: solitary, prey: [Ghost]}`},
		{"unknown plant in ecosystem", `
ecosystems:
  - {name: E, water_available: 1, minimum_water_to_add: 0, max_water_to_add: 1, plants: [{name: Moss, count: 1}]}`},
		{"zero population", `
ecosystems:
  - {name: E, water_available: 1, minimum_water_to_add: 0, max_water_to_add: 1, plants: [{name: Moss, count: 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cat, err := Parse(nil)
	if err != nil {
		t.Fatalf("Empty catalog should be valid: %v", err)
	}
	if len(cat.Organisms) != 0 {
		t.Errorf("Expected no organisms, got %d", len(cat.Organisms))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	if err := os.WriteFile(path, []byte(smallCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	fox := cat.Organisms[0].Template()
	if fox.Name != "Fox" || fox.Type != domain.OrganismPredator || fox.ActivityCycle != domain.CycleNocturnal {
		t.Errorf("Unexpected Fox template: %+v", fox.Organism)
	}
	if len(fox.Prey) != 1 || fox.Prey[0] != "Rabbit" {
		t.Errorf("Expected Fox to hunt Rabbit, got %v", fox.Prey)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestSeedTemplates(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	cat, err := Parse([]byte(smallCatalog))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CreateOrganismTemplate(ctx, cat.Organisms[1].Template()); err != nil {
		t.Fatal(err)
	}

	sum, err := SeedTemplates(ctx, svc, cat)
	if err != nil {
		t.Fatalf("SeedTemplates failed: %v", err)
	}
	if len(sum.Organisms.Added) != 1 || sum.Organisms.Added[0] != "Fox" {
		t.Errorf("Expected Fox to be added, got %v", sum.Organisms.Added)
	}
	if len(sum.Organisms.Existed) != 1 || sum.Organisms.Existed[0] != "Rabbit" {
		t.Errorf("Expected Rabbit to exist already, got %v", sum.Organisms.Existed)
	}
	if len(sum.Plants.Added) != 1 {
		t.Errorf("Expected Clover to be added, got %v", sum.Plants.Added)
	}

	// Second run adds nothing
	sum, err = SeedTemplates(ctx, svc, cat)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected AlreadyExists on a second run, got %v", err)
	}
	if sum.Added() != 0 || len(sum.Organisms.Existed) != 2 {
		t.Errorf("Unexpected second summary: %+v", sum)
	}
}

func TestSeed_BuildsEcosystems(t *testing.T) {
	ctx := context.Background()
	svc := &recorder{SimulationService: newService(t)}
	cat, err := Parse([]byte(smallCatalog))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Seed(ctx, svc, cat); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	// Seeding again must not fail nor duplicate the ecosystem
	if _, err := Seed(ctx, svc, cat); err != nil {
		t.Fatalf("Second Seed failed: %v", err)
	}
	if len(svc.created) != 1 {
		t.Fatalf("Expected one ecosystem to be created, got %d", len(svc.created))
	}

	eco, err := svc.GetEcosystem(ctx, svc.created[0])
	if err != nil {
		t.Fatal(err)
	}
	if eco.Name != "Hedge" || eco.Environment != domain.EnvironmentTaiga {
		t.Errorf("Unexpected ecosystem %q in %q", eco.Name, eco.Environment)
	}
	if len(eco.Organisms) != 4 || len(eco.Plants) != 2 {
		t.Fatalf("Expected 4 organisms and 2 plants, got %d and %d", len(eco.Organisms), len(eco.Plants))
	}

	fox := eco.OrganismByName("Fox")
	if prey := eco.PreyOf(fox); len(prey) != 3 {
		t.Errorf("Expected the fox to hunt 3 rabbits, got %d", len(prey))
	}
}

func TestBuilder_UnknownTemplate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	eco, err := NewEcosystem(svc, "Empty").
		WithWater(10, 1, 2).
		SpawnOrganism("Unicorn", 1).
		Build(ctx)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected NotFound for an unknown template, got %v", err)
	}
	if eco == nil || eco.ID == "" {
		t.Fatal("Expected the ecosystem to be created before the failing spawn")
	}
	if _, err := svc.GetEcosystem(ctx, eco.ID); err != nil {
		t.Errorf("Ecosystem should exist: %v", err)
	}
}

// recorder remembers the ecosystems created through it.
type recorder struct {
	*engine.SimulationService
	created []string
}

func (r *recorder) CreateEcosystem(ctx context.Context, eco *domain.Ecosystem) (*domain.Ecosystem, error) {
	eco, err := r.SimulationService.CreateEcosystem(ctx, eco)
	if err == nil {
		r.created = append(r.created, eco.ID)
	}
	return eco, err
}
