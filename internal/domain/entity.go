package domain

// MemberKind distinguishes the two kinds of ecosystem members
type MemberKind string

const (
	KindOrganism MemberKind = "organism"
	KindPlant    MemberKind = "plant"
)

// Member is anything the persistence layer can delete out of an ecosystem.
type Member interface {
	MemberID() string
	MemberKind() MemberKind
	MemberName() string
}

// --- ORGANISM ---

type Organism struct {
	// Identity
	ID   string       `json:"id" db:"id"`
	Name string       `json:"name" db:"name"` // species (template) name
	Type OrganismType `json:"type" db:"type"`
	Diet DietType     `json:"diet_type" db:"diet_type"`

	// Physical / demography
	Weight          float64 `json:"weight" db:"weight"`
	Size            float64 `json:"size" db:"size"`
	Age             float64 `json:"age" db:"age"`
	MaxAge          float64 `json:"max_age" db:"max_age"`
	ReproductionAge float64 `json:"reproduction_age" db:"reproduction_age"`
	FertilityRate   int     `json:"fertility_rate" db:"fertility_rate"`

	// Needs
	WaterConsumption float64 `json:"water_consumption" db:"water_consumption"`
	FoodConsumption  float64 `json:"food_consumption" db:"food_consumption"`

	// Behaviour
	ActivityCycle  ActivityCycle  `json:"activity_cycle" db:"activity_cycle"`
	Speed          Speed          `json:"speed" db:"speed"`
	SocialBehavior SocialBehavior `json:"social_behavior" db:"social_behavior"`

	// Mutable state, unique per ecosystem member
	Hunger   float64 `json:"hunger" db:"hunger"`
	Thirst   float64 `json:"thirst" db:"thirst"`
	Health   float64 `json:"health" db:"health"`
	Pregnant bool    `json:"pregnant" db:"pregnant"`
}

func (o *Organism) MemberID() string       { return o.ID }
func (o *Organism) MemberKind() MemberKind { return KindOrganism }
func (o *Organism) MemberName() string     { return o.Name }

// DeathCause returns a non-empty cause when the organism can no longer live.
// Order matters: wounds are reported before thirst, hunger and age.
func (o *Organism) DeathCause() DeathCause {
	switch {
	case o.Health <= 0:
		return DeathWounds
	case o.Thirst >= LethalThirst:
		return DeathThirst
	case o.Hunger >= LethalHunger:
		return DeathHunger
	case o.Age > o.MaxAge:
		return DeathOldAge
	}
	return DeathNone
}

// CanReproduce reports whether the organism is mature and not already pregnant
func (o *Organism) CanReproduce() bool {
	return !o.Pregnant && o.Age >= o.ReproductionAge
}

// --- PLANT ---

type Plant struct {
	ID   string    `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Type PlantType `json:"type" db:"type"`

	Weight          float64 `json:"weight" db:"weight"` // biomass
	Size            float64 `json:"size" db:"size"`
	Age             float64 `json:"age" db:"age"`
	MaxAge          float64 `json:"max_age" db:"max_age"`
	ReproductionAge float64 `json:"reproduction_age" db:"reproduction_age"`
	FertilityRate   int     `json:"fertility_rate" db:"fertility_rate"` // seeds per cycle

	WaterNeed float64 `json:"water_need" db:"water_need"`

	Health   float64 `json:"health" db:"health"`
	Fruiting bool    `json:"fruiting" db:"fruiting"`
}

func (p *Plant) MemberID() string       { return p.ID }
func (p *Plant) MemberKind() MemberKind { return KindPlant }
func (p *Plant) MemberName() string     { return p.Name }

// DeathCause for plants only looks at biomass and age; health is not lethal.
func (p *Plant) DeathCause() DeathCause {
	switch {
	case p.Weight <= 0:
		return DeathNoBiomass
	case p.Age >= p.MaxAge:
		return DeathOldAge
	}
	return DeathNone
}

// DeathCause - why an ecosystem member was removed
type DeathCause string

const (
	DeathNone      DeathCause = ""
	DeathWounds    DeathCause = "wounds"
	DeathThirst    DeathCause = "thirst"
	DeathHunger    DeathCause = "hunger"
	DeathOldAge    DeathCause = "old_age"
	DeathNoBiomass DeathCause = "no_biomass"
	DeathKilled    DeathCause = "killed"
)

// --- TEMPLATES ---

// OrganismTemplate is an ecosystem-less organism that members are cloned from.
// Prey and PollinationTargets name other templates (species level food web).
type OrganismTemplate struct {
	Organism
	Prey               []string `json:"prey,omitempty"`
	PollinationTargets []string `json:"pollination_targets,omitempty"`
}

type PlantTemplate struct {
	Plant
}

// NewMember builds a fresh ecosystem member from a template.
func (t OrganismTemplate) NewMember(id string) *Organism {
	o := t.Organism
	o.ID = id
	o.Hunger = 0
	o.Thirst = 0
	o.Health = DefaultHealth
	o.Pregnant = false
	return &o
}

func (t PlantTemplate) NewMember(id string) *Plant {
	p := t.Plant
	p.ID = id
	p.Health = DefaultHealth
	p.Fruiting = false
	return &p
}
