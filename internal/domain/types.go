package domain

import "strings"

// OrganismType - trophic role of an organism
type OrganismType string

const (
	OrganismPredator   OrganismType = "predator"
	OrganismHerbivore  OrganismType = "herbivore"
	OrganismOmnivore   OrganismType = "omnivore"
	OrganismPollinator OrganismType = "pollinator"
)

// OrganismTypes lists every organism type in a fixed order.
func OrganismTypes() []OrganismType {
	return []OrganismType{OrganismPredator, OrganismHerbivore, OrganismOmnivore, OrganismPollinator}
}

// PlantType - growth form of a plant
type PlantType string

const (
	PlantTree   PlantType = "tree"
	PlantShrub  PlantType = "shrub"
	PlantHerb   PlantType = "herb"
	PlantFlower PlantType = "flower"
)

type DietType string

const (
	DietCarnivore   DietType = "carnivore"
	DietHerbivore   DietType = "herbivore"
	DietOmnivore    DietType = "omnivore"
	DietNectarivore DietType = "nectarivore"
)

// ActivityCycle is both an organism's preferred activity window and
// the ecosystem's current phase of the day.
type ActivityCycle string

const (
	CycleDiurnal     ActivityCycle = "diurnal"
	CycleNocturnal   ActivityCycle = "nocturnal"
	CycleCrepuscular ActivityCycle = "crepuscular"
)

// Next returns the phase that follows c. Unknown phases restart the day.
func (c ActivityCycle) Next() ActivityCycle {
	switch c {
	case CycleDiurnal:
		return CycleNocturnal
	case CycleNocturnal:
		return CycleCrepuscular
	default:
		return CycleDiurnal
	}
}

type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

type SocialBehavior string

const (
	SocialSolitary SocialBehavior = "solitary"
	SocialPack     SocialBehavior = "pack"
	SocialHerd     SocialBehavior = "herd"
)

type EnvironmentType string

const (
	EnvironmentDesert     EnvironmentType = "DESERT"
	EnvironmentRainforest EnvironmentType = "RAINFOREST"
	EnvironmentSavanna    EnvironmentType = "SAVANNA"
	EnvironmentSwamp      EnvironmentType = "SWAMP"
	EnvironmentMountain   EnvironmentType = "MOUNTAIN"
	EnvironmentTaiga      EnvironmentType = "TAIGA"
	EnvironmentTundra     EnvironmentType = "TUNDRA"
)

// SimulationStatus marks whether a batch of ticks is running on an ecosystem
type SimulationStatus string

const (
	StatusProcessing SimulationStatus = "PROCESSING"
	StatusFinished   SimulationStatus = "FINISHED"
)

// --- Parsing helpers (used by the catalogue and the HTTP layer) ---

func ParseOrganismType(s string) (OrganismType, bool) {
	switch t := OrganismType(strings.ToLower(s)); t {
	case OrganismPredator, OrganismHerbivore, OrganismOmnivore, OrganismPollinator:
		return t, true
	}
	return "", false
}

func ParsePlantType(s string) (PlantType, bool) {
	switch t := PlantType(strings.ToLower(s)); t {
	case PlantTree, PlantShrub, PlantHerb, PlantFlower:
		return t, true
	}
	return "", false
}

func ParseActivityCycle(s string) (ActivityCycle, bool) {
	switch c := ActivityCycle(strings.ToLower(s)); c {
	case CycleDiurnal, CycleNocturnal, CycleCrepuscular:
		return c, true
	}
	return "", false
}

func ParseEnvironment(s string) (EnvironmentType, bool) {
	switch e := EnvironmentType(strings.ToUpper(s)); e {
	case EnvironmentDesert, EnvironmentRainforest, EnvironmentSavanna, EnvironmentSwamp,
		EnvironmentMountain, EnvironmentTaiga, EnvironmentTundra:
		return e, true
	}
	return "", false
}
