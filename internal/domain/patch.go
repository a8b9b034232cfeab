package domain

// OrganismPatch is a partial template update; nil fields are left untouched.
type OrganismPatch struct {
	Type               *OrganismType   `json:"type,omitempty"`
	Diet               *DietType       `json:"diet_type,omitempty"`
	Weight             *float64        `json:"weight,omitempty"`
	Size               *float64        `json:"size,omitempty"`
	MaxAge             *float64        `json:"max_age,omitempty"`
	ReproductionAge    *float64        `json:"reproduction_age,omitempty"`
	FertilityRate      *int            `json:"fertility_rate,omitempty"`
	WaterConsumption   *float64        `json:"water_consumption,omitempty"`
	FoodConsumption    *float64        `json:"food_consumption,omitempty"`
	ActivityCycle      *ActivityCycle  `json:"activity_cycle,omitempty"`
	Speed              *Speed          `json:"speed,omitempty"`
	SocialBehavior     *SocialBehavior `json:"social_behavior,omitempty"`
	Prey               []string        `json:"prey,omitempty"`
	PollinationTargets []string        `json:"pollination_targets,omitempty"`
}

// Blank reports whether no field is populated.
func (p OrganismPatch) Blank() bool {
	return p.Type == nil && p.Diet == nil && p.Weight == nil && p.Size == nil &&
		p.MaxAge == nil && p.ReproductionAge == nil && p.FertilityRate == nil &&
		p.WaterConsumption == nil && p.FoodConsumption == nil && p.ActivityCycle == nil &&
		p.Speed == nil && p.SocialBehavior == nil && p.Prey == nil && p.PollinationTargets == nil
}

// Apply writes the populated fields onto t.
func (p OrganismPatch) Apply(t *OrganismTemplate) {
	setIf(&t.Type, p.Type)
	setIf(&t.Diet, p.Diet)
	setIf(&t.Weight, p.Weight)
	setIf(&t.Size, p.Size)
	setIf(&t.MaxAge, p.MaxAge)
	setIf(&t.ReproductionAge, p.ReproductionAge)
	setIf(&t.FertilityRate, p.FertilityRate)
	setIf(&t.WaterConsumption, p.WaterConsumption)
	setIf(&t.FoodConsumption, p.FoodConsumption)
	setIf(&t.ActivityCycle, p.ActivityCycle)
	setIf(&t.Speed, p.Speed)
	setIf(&t.SocialBehavior, p.SocialBehavior)
	if p.Prey != nil {
		t.Prey = p.Prey
	}
	if p.PollinationTargets != nil {
		t.PollinationTargets = p.PollinationTargets
	}
}

// PlantPatch is a partial plant template update.
type PlantPatch struct {
	Type            *PlantType `json:"type,omitempty"`
	Weight          *float64   `json:"weight,omitempty"`
	Size            *float64   `json:"size,omitempty"`
	MaxAge          *float64   `json:"max_age,omitempty"`
	ReproductionAge *float64   `json:"reproduction_age,omitempty"`
	FertilityRate   *int       `json:"fertility_rate,omitempty"`
	WaterNeed       *float64   `json:"water_need,omitempty"`
}

func (p PlantPatch) Blank() bool {
	return p.Type == nil && p.Weight == nil && p.Size == nil && p.MaxAge == nil &&
		p.ReproductionAge == nil && p.FertilityRate == nil && p.WaterNeed == nil
}

func (p PlantPatch) Apply(t *PlantTemplate) {
	setIf(&t.Type, p.Type)
	setIf(&t.Weight, p.Weight)
	setIf(&t.Size, p.Size)
	setIf(&t.MaxAge, p.MaxAge)
	setIf(&t.ReproductionAge, p.ReproductionAge)
	setIf(&t.FertilityRate, p.FertilityRate)
	setIf(&t.WaterNeed, p.WaterNeed)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
