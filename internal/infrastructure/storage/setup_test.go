package storage

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/pkg/logger"
	"io"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

// archivingRepository is what both stores implement.
type archivingRepository interface {
	engine.Repository
	engine.ResultArchive
}

// forEachStore runs the same test body against the memory and the sqlite store.
func forEachStore(t *testing.T, fn func(t *testing.T, repo archivingRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		db, err := OpenSQLite(":memory:")
		if err != nil {
			t.Fatalf("Failed to open sqlite: %v", err)
		}
		defer db.Close()
		fn(t, db)
	})
}

func wolfTemplate() domain.OrganismTemplate {
	return domain.OrganismTemplate{
		Organism: domain.Organism{
			Name: "Wolf", Type: domain.OrganismPredator, Diet: domain.DietCarnivore,
			Weight: 40, Size: 1.2, MaxAge: 12, ReproductionAge: 2, FertilityRate: 3,
			WaterConsumption: 5, FoodConsumption: 4,
			ActivityCycle: domain.CycleNocturnal, Speed: domain.SpeedFast, SocialBehavior: domain.SocialPack,
		},
		Prey: []string{"Deer"},
	}
}

func deerTemplate() domain.OrganismTemplate {
	return domain.OrganismTemplate{
		Organism: domain.Organism{
			Name: "Deer", Type: domain.OrganismHerbivore, Diet: domain.DietHerbivore,
			Weight: 60, Size: 1.4, MaxAge: 10, ReproductionAge: 1, FertilityRate: 2,
			WaterConsumption: 6, FoodConsumption: 5,
			ActivityCycle: domain.CycleDiurnal, Speed: domain.SpeedNormal, SocialBehavior: domain.SocialHerd,
		},
	}
}

func beeTemplate() domain.OrganismTemplate {
	return domain.OrganismTemplate{
		Organism: domain.Organism{
			Name: "Bee", Type: domain.OrganismPollinator, Diet: domain.DietNectarivore,
			Weight: 0.1, Size: 0.01, MaxAge: 2, ReproductionAge: 1, FertilityRate: 5,
			WaterConsumption: 0.1, FoodConsumption: 0.1,
			ActivityCycle: domain.CycleDiurnal, Speed: domain.SpeedFast, SocialBehavior: domain.SocialPack,
		},
		PollinationTargets: []string{"Clover"},
	}
}

func cloverTemplate() domain.PlantTemplate {
	return domain.PlantTemplate{Plant: domain.Plant{
		Name: "Clover", Type: domain.PlantHerb,
		Weight: 2, Size: 0.1, MaxAge: 3, ReproductionAge: 1, FertilityRate: 4, WaterNeed: 1,
	}}
}

// seedStore registers the templates and one empty ecosystem.
func seedStore(t *testing.T, repo engine.Repository) *domain.Ecosystem {
	t.Helper()
	ctx := context.Background()

	for _, tmpl := range []domain.OrganismTemplate{wolfTemplate(), deerTemplate(), beeTemplate()} {
		if err := repo.CreateOrganismTemplate(ctx, tmpl); err != nil {
			t.Fatalf("Failed to create template %s: %v", tmpl.Name, err)
		}
	}
	if err := repo.CreatePlantTemplate(ctx, cloverTemplate()); err != nil {
		t.Fatalf("Failed to create plant template: %v", err)
	}

	eco := domain.NewEcosystem("eco-1", "Valley", 1000, 50, 200)
	if err := repo.CreateEcosystem(ctx, eco); err != nil {
		t.Fatalf("Failed to create ecosystem: %v", err)
	}
	return eco
}
