package domain

import "testing"

func TestOrganismPatch(t *testing.T) {
	if !(OrganismPatch{}).Blank() {
		t.Error("Empty patch must be blank")
	}

	tmpl := OrganismTemplate{
		Organism: Organism{Name: "Lion", Type: OrganismPredator, Weight: 190, MaxAge: 14},
		Prey:     []string{"Zebra"},
	}
	weight := 200.0
	cycle := CycleNocturnal
	patch := OrganismPatch{Weight: &weight, ActivityCycle: &cycle, Prey: []string{"Zebra", "Gnu"}}
	if patch.Blank() {
		t.Fatal("Populated patch reported blank")
	}

	patch.Apply(&tmpl)
	if tmpl.Weight != 200 || tmpl.ActivityCycle != CycleNocturnal || len(tmpl.Prey) != 2 {
		t.Errorf("Patch not applied: %+v", tmpl)
	}
	if tmpl.MaxAge != 14 || tmpl.Name != "Lion" {
		t.Errorf("Untouched fields changed: %+v", tmpl)
	}
}

func TestPlantPatch(t *testing.T) {
	if !(PlantPatch{}).Blank() {
		t.Error("Empty patch must be blank")
	}

	tmpl := PlantTemplate{Plant: Plant{Name: "Rose", Type: PlantFlower, WaterNeed: 2, MaxAge: 5}}
	need := 4.5
	PlantPatch{WaterNeed: &need}.Apply(&tmpl)
	if tmpl.WaterNeed != 4.5 || tmpl.MaxAge != 5 {
		t.Errorf("Unexpected template after patch: %+v", tmpl)
	}
}

func TestEcosystem_Clone(t *testing.T) {
	eco := newTestEcosystem()
	eco.Links().LinkPredation("lion", "zebra")
	eco.Links().LinkPollination("bee", "rose")

	cp := eco.Clone()
	cp.Organism("zebra").Health = 1
	cp.WaterAvailable = 0
	cp.Links().UnlinkPredation("lion", "zebra")
	cp.RemovePlant("rose")

	if eco.Organism("zebra").Health != 100 || eco.WaterAvailable != 1000 {
		t.Error("Clone shares member or clock state with the original")
	}
	if !eco.Links().Hunts("lion", "zebra") || !eco.Links().Pollinates("bee", "rose") {
		t.Error("Clone shares the relation index with the original")
	}
	if len(eco.Plants) != 1 {
		t.Error("Clone shares the plant slice with the original")
	}
}

func TestEcosystem_PlantsByName(t *testing.T) {
	eco := newTestEcosystem()
	eco.AddPlant(&Plant{ID: "rose2", Name: "Rose", Type: PlantFlower, Weight: 3})
	eco.AddPlant(&Plant{ID: "oak", Name: "Oak", Type: PlantTree, Weight: 300})

	roses := eco.PlantsByName("Rose")
	if len(roses) != 2 || roses[0].ID != "rose" || roses[1].ID != "rose2" {
		t.Errorf("Expected both roses in order, got %v", roses)
	}
	if len(eco.PlantsByName("Fern")) != 0 {
		t.Error("Expected no ferns")
	}
}
