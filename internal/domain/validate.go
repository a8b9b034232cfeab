package domain

import "strings"

// Validate checks an organism template before it is stored.
func (t OrganismTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Validation("organism name is required")
	}
	if _, ok := ParseOrganismType(string(t.Type)); !ok {
		return Validation("unknown organism type %q", t.Type)
	}
	if t.ActivityCycle != "" {
		if _, ok := ParseActivityCycle(string(t.ActivityCycle)); !ok {
			return Validation("unknown activity cycle %q", t.ActivityCycle)
		}
	}
	if t.ReproductionAge < 0 {
		return Validation("reproduction_age cannot be negative")
	}
	if t.ReproductionAge > t.MaxAge {
		return Validation("reproduction_age (%.2f) is greater than max_age (%.2f)", t.ReproductionAge, t.MaxAge)
	}
	if t.Weight < 0 || t.Size < 0 {
		return Validation("weight and size cannot be negative")
	}
	return nil
}

// Validate checks a plant template before it is stored.
func (t PlantTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Validation("plant name is required")
	}
	if _, ok := ParsePlantType(string(t.Type)); !ok {
		return Validation("unknown plant type %q", t.Type)
	}
	if t.ReproductionAge > t.MaxAge {
		return Validation("reproduction_age (%.2f) is greater than max_age (%.2f)", t.ReproductionAge, t.MaxAge)
	}
	if t.Age < 0 {
		return Validation("age cannot be negative")
	}
	return nil
}

// Validate checks the replenishment bounds of a new ecosystem.
func (e *Ecosystem) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return Validation("ecosystem name is required")
	}
	if e.WaterAvailable < 0 {
		return Validation("water_available cannot be negative")
	}
	if e.Environment != "" {
		if _, ok := ParseEnvironment(string(e.Environment)); !ok {
			return Validation("unknown environment %q", e.Environment)
		}
	}
	if e.MinWaterToAdd < 0 || e.MaxWaterToAdd < e.MinWaterToAdd {
		return Validation("water replenishment bounds [%d, %d] are invalid", e.MinWaterToAdd, e.MaxWaterToAdd)
	}
	return nil
}
