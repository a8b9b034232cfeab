package engine

import (
	"context"
	"ecosystem-server/internal/domain"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestService(t *testing.T, store *fakeStore) *SimulationService {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = 7
	svc := NewService(store, cfg)
	t.Cleanup(svc.Close)
	return svc
}

func TestService_ThreeCallsCompleteOneDay(t *testing.T) {
	store, eco := newWorld(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	wantCycles := []domain.ActivityCycle{domain.CycleNocturnal, domain.CycleCrepuscular, domain.CycleDiurnal}
	var water float64 = 1000

	for i, want := range wantCycles {
		res, err := svc.Simulate(ctx, eco.ID, 1)
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if res.Cycle != want {
			t.Errorf("call %d: expected cycle %s, got %s", i+1, want, res.Cycle)
		}

		replenished := countType(res.Outcomes, domain.OutcomeWater)
		if i < 2 {
			if replenished != 0 || res.WaterAvailable != water || res.Day != 0 {
				t.Errorf("call %d: no replenishment expected, got %d records, water %f, day %d",
					i+1, replenished, res.WaterAvailable, res.Day)
			}
			continue
		}
		if replenished != 1 || res.Day != 1 {
			t.Errorf("call 3: expected one replenishment and day 1, got %d and %d", replenished, res.Day)
		}
		if added := res.WaterAvailable - water; added < 50 || added > 200 {
			t.Errorf("call 3: added %f outside [50, 200]", added)
		}
	}

	stored, _ := store.Get(ctx, eco.ID)
	if stored.Day != 1 || stored.Cycle != domain.CycleDiurnal || stored.SimulationStatus != domain.StatusFinished {
		t.Errorf("Clock was not persisted: %+v", stored)
	}
}

func TestService_SimulatePersistsOncePerBatch(t *testing.T) {
	store, eco := newWorld(t)
	addOrganism(t, store, eco.ID, "Bison")
	svc := newTestService(t, store)

	res, err := svc.Simulate(context.Background(), eco.ID, 6)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if res.Ticks != 6 || res.Seed != 7 {
		t.Errorf("Unexpected result header: %+v", res)
	}
	// PROCESSING mark plus the final save
	if store.saves != 2 {
		t.Errorf("Expected 2 saves for one batch, got %d", store.saves)
	}
	if len(store.archived) != 1 || store.archived[0].Ticks != 6 || store.archived[0].Seed != 7 {
		t.Errorf("Expected one archived record, got %+v", store.archived)
	}
}

func TestService_SimulateValidation(t *testing.T) {
	store, eco := newWorld(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	tests := []struct {
		name  string
		id    string
		ticks int
		want  error
	}{
		{"zero ticks", eco.ID, 0, domain.ErrValidation},
		{"too many ticks", eco.ID, 5000, domain.ErrValidation},
		{"unknown ecosystem", "missing", 1, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Simulate(ctx, tt.id, tt.ticks); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestService_SeededRunsAreReplayable(t *testing.T) {
	run := func() []domain.Outcome {
		store, eco := newWorld(t)
		addOrganism(t, store, eco.ID, "Fox")
		addOrganism(t, store, eco.ID, "Bison")
		addOrganism(t, store, eco.ID, "Bee")
		addPlant(t, store, eco.ID, "Poppy")

		res, err := newTestService(t, store).SimulateSeeded(context.Background(), eco.ID, 12, 2024)
		if err != nil {
			t.Fatalf("SimulateSeeded failed: %v", err)
		}
		return res.Outcomes
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Expected equal runs, got %d and %d outcomes", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			t.Fatalf("Outcome %d differs", i)
		}
	}
}

func TestService_ConcurrentSimulateIsSerialized(t *testing.T) {
	store, eco := newWorld(t)
	svc := newTestService(t, store)

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Simulate(context.Background(), eco.ID, 1); err != nil {
				t.Errorf("Simulate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// 8 phases from diurnal: two full days plus two phases
	stored, _ := store.Get(context.Background(), eco.ID)
	if stored.Day != 2 || stored.Cycle != domain.CycleCrepuscular {
		t.Errorf("Lost update: expected day 2 crepuscular, got day %d %s", stored.Day, stored.Cycle)
	}
	if len(svc.LockedEcosystems()) != 0 {
		t.Errorf("Expected no held locks, got %v", svc.LockedEcosystems())
	}
}

func TestService_SimulateAsync(t *testing.T) {
	store, eco := newWorld(t)
	addOrganism(t, store, eco.ID, "Bison")
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.SimulateAsync(ctx, "missing", 20); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected NotFound before dispatch, got %v", err)
	}

	token, err := svc.SimulateAsync(ctx, eco.ID, 20)
	if err != nil {
		t.Fatalf("SimulateAsync failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		task, err := svc.Task(token)
		if err != nil {
			t.Fatalf("Task failed: %v", err)
		}
		if task.Status == TaskFinished {
			if task.Result == nil || task.Result.Ticks != 20 {
				t.Errorf("Expected a 20 tick result, got %+v", task.Result)
			}
			break
		}
		if task.Status == TaskFailed {
			t.Fatalf("Task failed: %s", task.Err)
		}
		if time.Now().After(deadline) {
			t.Fatal("Task did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := svc.Task("unknown"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected NotFound for unknown token, got %v", err)
	}
}

func TestService_PublishesToSubscribers(t *testing.T) {
	store, eco := newWorld(t)
	svc := newTestService(t, store)

	_, ch := svc.Hub.Register(eco.ID)
	if _, err := svc.Simulate(context.Background(), eco.ID, 2); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	select {
	case report := <-ch:
		if report.Type != "TICK" || report.EcosystemID != eco.ID || report.Ticks != 2 {
			t.Errorf("Unexpected report: %+v", report)
		}
		if report.Clock.Cycle != string(domain.CycleCrepuscular) {
			t.Errorf("Expected crepuscular clock, got %s", report.Clock.Cycle)
		}
	default:
		t.Fatal("Expected a tick report")
	}
}

func TestService_Membership(t *testing.T) {
	store, eco := newWorld(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	fox, err := svc.AddOrganism(ctx, eco.ID, "Fox")
	if err != nil {
		t.Fatalf("AddOrganism failed: %v", err)
	}
	bison, _ := svc.AddOrganism(ctx, eco.ID, "Bison")
	bee, _ := svc.AddOrganism(ctx, eco.ID, "Bee")
	poppy, err := svc.AddPlant(ctx, eco.ID, "Poppy")
	if err != nil {
		t.Fatalf("AddPlant failed: %v", err)
	}

	if _, err := svc.AddOrganism(ctx, eco.ID, "Dragon"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected NotFound for unknown template, got %v", err)
	}

	if err := svc.LinkPredation(ctx, eco.ID, "Fox", "Bison"); err != nil {
		t.Fatalf("LinkPredation failed: %v", err)
	}
	if err := svc.LinkPollination(ctx, eco.ID, "Bee", "Poppy"); err != nil {
		t.Fatalf("LinkPollination failed: %v", err)
	}
	if err := svc.LinkPredation(ctx, eco.ID, "Fox", "Wolf"); !errors.Is(err, domain.ErrRelationshipNotFound) {
		t.Errorf("Expected RelationshipNotFound, got %v", err)
	}
	if err := svc.LinkPollination(ctx, eco.ID, "Bee", "Rose"); !errors.Is(err, domain.ErrRelationshipNotFound) {
		t.Errorf("Expected RelationshipNotFound, got %v", err)
	}

	got, _ := svc.GetEcosystem(ctx, eco.ID)
	if !got.Links().Hunts(fox.ID, bison.ID) || !got.Links().Pollinates(bee.ID, poppy.ID) {
		t.Error("Expected links to be persisted")
	}

	if err := svc.UnlinkPollination(ctx, eco.ID, "Bee", "Poppy"); err != nil {
		t.Fatalf("UnlinkPollination failed: %v", err)
	}
	got, _ = svc.GetEcosystem(ctx, eco.ID)
	if got.Links().Pollinates(bee.ID, poppy.ID) || len(got.Links().PollinatorsOf(poppy.ID)) != 0 {
		t.Error("Expected the pollination edge to be gone in both directions")
	}

	if err := svc.RemoveOrganism(ctx, eco.ID, "Bison"); err != nil {
		t.Fatalf("RemoveOrganism failed: %v", err)
	}
	if err := svc.RemoveOrganism(ctx, eco.ID, "Bison"); !errors.Is(err, domain.ErrRelationshipNotFound) {
		t.Errorf("Expected RelationshipNotFound on second removal, got %v", err)
	}
	if err := svc.RemovePlant(ctx, eco.ID, "Poppy"); err != nil {
		t.Fatalf("RemovePlant failed: %v", err)
	}

	orgs, _ := svc.GetAllOrganisms(ctx, eco.ID)
	plants, _ := svc.GetAllPlants(ctx, eco.ID)
	if len(orgs) != 2 || len(plants) != 0 {
		t.Errorf("Expected 2 organisms and no plants, got %d and %d", len(orgs), len(plants))
	}
}

func TestService_CreateEcosystem(t *testing.T) {
	store, _ := newWorld(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	eco, err := svc.CreateEcosystem(ctx, &domain.Ecosystem{Name: "Delta", WaterAvailable: 300, MinWaterToAdd: 10, MaxWaterToAdd: 20})
	if err != nil {
		t.Fatalf("CreateEcosystem failed: %v", err)
	}
	if eco.ID == "" || eco.Cycle != domain.CycleDiurnal || eco.SimulationStatus != domain.StatusFinished {
		t.Errorf("Expected defaults to be filled, got %+v", eco)
	}

	if _, err := svc.CreateEcosystem(ctx, &domain.Ecosystem{Name: "Delta"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected AlreadyExists, got %v", err)
	}
	bad := &domain.Ecosystem{Name: "Dry", MinWaterToAdd: 30, MaxWaterToAdd: 10}
	if _, err := svc.CreateEcosystem(ctx, bad); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected Validation, got %v", err)
	}

	if err := svc.DeleteEcosystem(ctx, eco.ID); err != nil {
		t.Fatalf("DeleteEcosystem failed: %v", err)
	}
	if _, err := svc.GetEcosystem(ctx, eco.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected NotFound after delete, got %v", err)
	}
}

func TestService_Templates(t *testing.T) {
	store, _ := newWorld(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.CreateOrganismTemplate(ctx, predatorTemplate("Fox")); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected AlreadyExists, got %v", err)
	}

	invalid := predatorTemplate("Lynx")
	invalid.ReproductionAge = 20
	if _, err := svc.CreateOrganismTemplate(ctx, invalid); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected Validation for reproduction_age > max_age, got %v", err)
	}

	if _, err := svc.UpdateOrganismTemplate(ctx, "Fox", domain.OrganismPatch{}); !errors.Is(err, domain.ErrBlankUpdate) {
		t.Errorf("Expected BlankUpdate, got %v", err)
	}
	weight := 18.0
	updated, err := svc.UpdateOrganismTemplate(ctx, "Fox", domain.OrganismPatch{Weight: &weight})
	if err != nil {
		t.Fatalf("UpdateOrganismTemplate failed: %v", err)
	}
	if updated.Weight != 18 || updated.MaxAge != 10 {
		t.Errorf("Expected only weight to change, got %+v", updated)
	}
	if _, err := svc.UpdateOrganismTemplate(ctx, "Ghost", domain.OrganismPatch{Weight: &weight}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}

	tooOld := 99.0
	if _, err := svc.UpdatePlantTemplate(ctx, "Poppy", domain.PlantPatch{ReproductionAge: &tooOld}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected Validation, got %v", err)
	}
	if _, err := svc.UpdatePlantTemplate(ctx, "Poppy", domain.PlantPatch{}); !errors.Is(err, domain.ErrBlankUpdate) {
		t.Errorf("Expected BlankUpdate, got %v", err)
	}

	if err := svc.DeletePlantTemplate(ctx, "Poppy"); err != nil {
		t.Fatalf("DeletePlantTemplate failed: %v", err)
	}
	plants, _ := svc.PlantTemplates(ctx)
	if len(plants) != 0 {
		t.Errorf("Expected no plant templates, got %d", len(plants))
	}
}
