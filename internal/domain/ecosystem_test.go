package domain

import (
	"errors"
	"fmt"
	"testing"
)

func newTestEcosystem() *Ecosystem {
	eco := NewEcosystem("eco1", "Savanna", 1000, 50, 200)
	eco.AddOrganism(&Organism{ID: "lion", Name: "Lion", Type: OrganismPredator, Health: 100, MaxAge: 10})
	eco.AddOrganism(&Organism{ID: "zebra", Name: "Zebra", Type: OrganismHerbivore, Health: 100, MaxAge: 10})
	eco.AddOrganism(&Organism{ID: "bee", Name: "Bee", Type: OrganismPollinator, Health: 100, MaxAge: 10})
	eco.AddPlant(&Plant{ID: "rose", Name: "Rose", Type: PlantFlower, Weight: 10, MaxAge: 5})
	return eco
}

func TestEcosystem_AddRemoveOrganism(t *testing.T) {
	eco := newTestEcosystem()
	eco.Links().LinkPredation("lion", "zebra")

	if got := eco.Organism("zebra"); got == nil {
		t.Fatal("Organism returned nil for a member")
	}
	if prey := eco.PreyOf(eco.Organism("lion")); len(prey) != 1 || prey[0].ID != "zebra" {
		t.Errorf("PreyOf(lion) = %v, want [zebra]", prey)
	}

	if !eco.RemoveOrganism("zebra") {
		t.Fatal("RemoveOrganism returned false for a member")
	}
	if eco.Organism("zebra") != nil {
		t.Error("Organism should be nil after removal")
	}
	if eco.Links().Hunts("lion", "zebra") {
		t.Error("Predation edge should be dropped together with the prey")
	}
	if eco.RemoveOrganism("zebra") {
		t.Error("Second removal should report false")
	}

	// Order of the remaining members is kept
	if eco.Organisms[0].ID != "lion" || eco.Organisms[1].ID != "bee" {
		t.Errorf("Unexpected order after removal: %s, %s", eco.Organisms[0].ID, eco.Organisms[1].ID)
	}
}

func TestEcosystem_LookupIndex(t *testing.T) {
	eco := newTestEcosystem()
	eco.RemovePlant("rose")
	for i := 0; i < 50; i++ {
		eco.AddPlant(&Plant{ID: fmt.Sprintf("p%d", i), Name: "Grass"})
	}
	eco.RemovePlant("p10")

	if eco.Plant("rose") != nil || eco.Plant("p10") != nil {
		t.Error("Removed plants are still found")
	}
	if p := eco.Plant("p49"); p == nil || p != eco.Plants[len(eco.Plants)-1] {
		t.Errorf("Plant(p49) = %v, want the last member", p)
	}

	// Loaders fill the slices without Add
	eco.Organisms = append(eco.Organisms, &Organism{ID: "gnu", Name: "Gnu"})
	if eco.Organism("gnu") == nil {
		t.Error("Directly appended organism is not found")
	}

	cp := eco.Clone()
	cp.AddOrganism(&Organism{ID: "hyena", Name: "Hyena"})
	if eco.Organism("hyena") != nil {
		t.Error("Clone shares its lookup index with the original")
	}
	if cp.Organism("lion") == eco.Organism("lion") {
		t.Error("Clone returns the original's members")
	}
}

func TestRelationIndex_Mirrored(t *testing.T) {
	r := NewRelationIndex()
	r.LinkPredation("lion", "zebra")
	r.LinkPollination("bee", "rose")

	if got := r.PredatorsOf("zebra"); len(got) != 1 || got[0] != "lion" {
		t.Errorf("PredatorsOf(zebra) = %v, want [lion]", got)
	}
	if got := r.PollinatorsOf("rose"); len(got) != 1 || got[0] != "bee" {
		t.Errorf("PollinatorsOf(rose) = %v, want [bee]", got)
	}

	r.UnlinkPredation("lion", "zebra")
	if len(r.PreyOf("lion")) != 0 || len(r.PredatorsOf("zebra")) != 0 {
		t.Error("Unlink must clear both directions")
	}
}

func TestRelationIndex_Inherit(t *testing.T) {
	r := NewRelationIndex()
	r.LinkPredation("lion", "zebra")
	r.LinkPredation("zebra", "grass-eater")
	r.LinkPollination("bee", "rose")

	r.Inherit("zebra", "foal")
	if !r.Hunts("lion", "foal") {
		t.Error("Newborn should be hunted by the parent's predators")
	}
	if !r.Hunts("foal", "grass-eater") {
		t.Error("Newborn should hunt the parent's prey")
	}

	r.Inherit("rose", "seedling")
	if !r.Pollinates("bee", "seedling") {
		t.Error("New plant should be pollinated by the parent's pollinators")
	}

	if edges := r.PredationEdges(); len(edges) != 4 {
		t.Errorf("Expected 4 predation edges, got %d", len(edges))
	}
}

func TestOrganism_DeathCause(t *testing.T) {
	tests := []struct {
		name string
		org  Organism
		want DeathCause
	}{
		{"alive", Organism{Health: 50, Thirst: 10, Hunger: 10, Age: 1, MaxAge: 5}, DeathNone},
		{"wounds", Organism{Health: 0, MaxAge: 5}, DeathWounds},
		{"thirst", Organism{Health: 10, Thirst: 100, MaxAge: 5}, DeathThirst},
		{"hunger", Organism{Health: 10, Hunger: 120, MaxAge: 5}, DeathHunger},
		{"old age", Organism{Health: 10, Age: 6, MaxAge: 5}, DeathOldAge},
		{"at max age", Organism{Health: 10, Age: 5, MaxAge: 5}, DeathNone},
	}
	for _, tt := range tests {
		if got := tt.org.DeathCause(); got != tt.want {
			t.Errorf("%s: DeathCause() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPlant_DeathCause(t *testing.T) {
	if c := (&Plant{Weight: 0, MaxAge: 5}).DeathCause(); c != DeathNoBiomass {
		t.Errorf("Expected no biomass death, got %q", c)
	}
	if c := (&Plant{Weight: 1, Age: 5, MaxAge: 5}).DeathCause(); c != DeathOldAge {
		t.Errorf("Plants die when age reaches max_age, got %q", c)
	}
}

func TestActivityCycle_Next(t *testing.T) {
	c := CycleDiurnal
	want := []ActivityCycle{CycleNocturnal, CycleCrepuscular, CycleDiurnal}
	for i, w := range want {
		c = c.Next()
		if c != w {
			t.Errorf("step %d: got %s, want %s", i, c, w)
		}
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("store: %w", NotFound("ecosystem", "ID"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("Wrapped NotFound should match ErrNotFound")
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Error("NotFound must not match ErrAlreadyExists")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %v, want NOT_FOUND", KindOf(err))
	}
}

func TestOrganismTemplate_Validate(t *testing.T) {
	tpl := OrganismTemplate{Organism: Organism{Name: "Wolf", Type: OrganismPredator, MaxAge: 10, ReproductionAge: 12}}
	if err := tpl.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation failure, got %v", err)
	}
	tpl.ReproductionAge = 3
	if err := tpl.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	tpl.ActivityCycle = "midnight"
	if err := tpl.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected an unknown cycle to fail, got %v", err)
	}
}
