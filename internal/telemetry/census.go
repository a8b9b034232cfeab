// Package telemetry summarises ecosystems for inspection: per-species census
// statistics and CSV exports of censuses and outcome logs.
package telemetry

import (
	"math"
	"sort"

	"ecosystem-server/internal/domain"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpeciesStats aggregates the members of one species.
// Hunger and thirst are zero for plants.
type SpeciesStats struct {
	Kind  domain.MemberKind `json:"kind" csv:"kind"`
	Name  string            `json:"name" csv:"name"`
	Count int               `json:"count" csv:"count"`

	HealthMean float64 `json:"health_mean" csv:"health_mean"`
	HealthStd  float64 `json:"health_std" csv:"health_std"`
	HungerMean float64 `json:"hunger_mean" csv:"hunger_mean"`
	HungerStd  float64 `json:"hunger_std" csv:"hunger_std"`
	ThirstMean float64 `json:"thirst_mean" csv:"thirst_mean"`
	ThirstStd  float64 `json:"thirst_std" csv:"thirst_std"`
	AgeMean    float64 `json:"age_mean" csv:"age_mean"`

	Biomass  float64 `json:"biomass" csv:"biomass"`
	Pregnant int     `json:"pregnant" csv:"pregnant"`
}

// Census is a snapshot of one ecosystem.
type Census struct {
	EcosystemID    string               `json:"ecosystem_id"`
	Name           string               `json:"name"`
	Cycle          domain.ActivityCycle `json:"cycle"`
	Day            int                  `json:"days"`
	Year           int                  `json:"year"`
	WaterAvailable float64              `json:"water_available"`

	Organisms int            `json:"organisms"`
	Plants    int            `json:"plants"`
	Species   []SpeciesStats `json:"species"`
}

// sample collects per-member values of one species.
type sample struct {
	kind     domain.MemberKind
	name     string
	health   []float64
	hunger   []float64
	thirst   []float64
	age      []float64
	weight   []float64
	pregnant int
}

// TakeCensus computes the census of eco. Species are sorted by kind, then name.
func TakeCensus(eco *domain.Ecosystem) Census {
	c := Census{
		EcosystemID:    eco.ID,
		Name:           eco.Name,
		Cycle:          eco.Cycle,
		Day:            eco.Day,
		Year:           eco.Year,
		WaterAvailable: eco.WaterAvailable,
		Organisms:      len(eco.Organisms),
		Plants:         len(eco.Plants),
		Species:        []SpeciesStats{},
	}

	samples := make(map[domain.MemberKind]map[string]*sample)
	get := func(kind domain.MemberKind, name string) *sample {
		if samples[kind] == nil {
			samples[kind] = make(map[string]*sample)
		}
		s, ok := samples[kind][name]
		if !ok {
			s = &sample{kind: kind, name: name}
			samples[kind][name] = s
		}
		return s
	}

	for _, o := range eco.Organisms {
		s := get(domain.KindOrganism, o.Name)
		s.health = append(s.health, o.Health)
		s.hunger = append(s.hunger, o.Hunger)
		s.thirst = append(s.thirst, o.Thirst)
		s.age = append(s.age, o.Age)
		s.weight = append(s.weight, o.Weight)
		if o.Pregnant {
			s.pregnant++
		}
	}
	for _, p := range eco.Plants {
		s := get(domain.KindPlant, p.Name)
		s.health = append(s.health, p.Health)
		s.age = append(s.age, p.Age)
		s.weight = append(s.weight, p.Weight)
	}

	for _, byName := range samples {
		for _, s := range byName {
			c.Species = append(c.Species, s.stats())
		}
	}
	sort.Slice(c.Species, func(i, j int) bool {
		if c.Species[i].Kind != c.Species[j].Kind {
			return c.Species[i].Kind < c.Species[j].Kind
		}
		return c.Species[i].Name < c.Species[j].Name
	})
	return c
}

func (s *sample) stats() SpeciesStats {
	st := SpeciesStats{
		Kind:     s.kind,
		Name:     s.name,
		Count:    len(s.health),
		Biomass:  floats.Sum(s.weight),
		Pregnant: s.pregnant,
	}
	st.HealthMean, st.HealthStd = meanStd(s.health)
	st.HungerMean, st.HungerStd = meanStd(s.hunger)
	st.ThirstMean, st.ThirstStd = meanStd(s.thirst)
	st.AgeMean, _ = meanStd(s.age)
	return st
}

// meanStd is stat.MeanStdDev with zero spread for fewer than two values.
func meanStd(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Lookup returns the stats of the named species, or false.
func (c Census) Lookup(kind domain.MemberKind, name string) (SpeciesStats, bool) {
	for _, s := range c.Species {
		if s.Kind == kind && s.Name == name {
			return s, true
		}
	}
	return SpeciesStats{}, false
}

// CountOutcomes tallies outcome records by type.
func CountOutcomes(outcomes []domain.Outcome) map[domain.OutcomeType]int {
	counts := make(map[domain.OutcomeType]int)
	for _, o := range outcomes {
		counts[o.Type]++
	}
	return counts
}
