package domain

// Ecosystem owns its organisms and plants; deleting it deletes its members.
type Ecosystem struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Environment EnvironmentType `json:"environment,omitempty" db:"environment"`

	WaterAvailable float64 `json:"water_available" db:"water_available"`
	MinWaterToAdd  int     `json:"minimum_water_to_add_per_simulation" db:"min_water_to_add"`
	MaxWaterToAdd  int     `json:"max_water_to_add_per_simulation" db:"max_water_to_add"`

	Cycle ActivityCycle `json:"cycle" db:"cycle"`
	Day   int           `json:"days" db:"day"`
	Year  int           `json:"year" db:"year"`

	SimulationStatus SimulationStatus `json:"simulation_status" db:"simulation_status"`

	Organisms []*Organism    `json:"organisms" db:"-"`
	Plants    []*Plant       `json:"plants" db:"-"`
	Relations *RelationIndex `json:"-" db:"-"`

	// ID lookups. Add/Remove keep them in sync; a length mismatch with the
	// slices (filled directly by a loader) triggers a rebuild.
	organismByID map[string]*Organism
	plantByID    map[string]*Plant
}

// NewEcosystem returns an empty ecosystem at the start of day zero.
func NewEcosystem(id, name string, water float64, minAdd, maxAdd int) *Ecosystem {
	return &Ecosystem{
		ID:               id,
		Name:             name,
		WaterAvailable:   water,
		MinWaterToAdd:    minAdd,
		MaxWaterToAdd:    maxAdd,
		Cycle:            CycleDiurnal,
		SimulationStatus: StatusFinished,
		Relations:        NewRelationIndex(),
	}
}

// IsNight reports whether the current phase is the nocturnal one.
func (e *Ecosystem) IsNight() bool {
	return e.Cycle == CycleNocturnal
}

// --- Organisms ---

func (e *Ecosystem) AddOrganism(o *Organism) {
	idx := e.organismIndex()
	e.Organisms = append(e.Organisms, o)
	if _, dup := idx[o.ID]; !dup {
		idx[o.ID] = o
	}
}

func (e *Ecosystem) Organism(id string) *Organism {
	return e.organismIndex()[id]
}

func (e *Ecosystem) organismIndex() map[string]*Organism {
	if e.organismByID == nil || len(e.organismByID) != len(e.Organisms) {
		e.organismByID = make(map[string]*Organism, len(e.Organisms))
		for _, o := range e.Organisms {
			if _, dup := e.organismByID[o.ID]; !dup {
				e.organismByID[o.ID] = o
			}
		}
	}
	return e.organismByID
}

// OrganismByName returns the first member of the given species.
func (e *Ecosystem) OrganismByName(name string) *Organism {
	for _, o := range e.Organisms {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (e *Ecosystem) OrganismsByName(name string) []*Organism {
	var res []*Organism
	for _, o := range e.Organisms {
		if o.Name == name {
			res = append(res, o)
		}
	}
	return res
}

// RemoveOrganism drops the organism and all its relations.
// Order of the remaining members is preserved.
func (e *Ecosystem) RemoveOrganism(id string) bool {
	for idx, o := range e.Organisms {
		if o.ID == id {
			delete(e.organismIndex(), id)
			e.Organisms = append(e.Organisms[:idx], e.Organisms[idx+1:]...)
			e.Links().Forget(id)
			return true
		}
	}
	return false
}

// --- Plants ---

func (e *Ecosystem) AddPlant(p *Plant) {
	idx := e.plantIndex()
	e.Plants = append(e.Plants, p)
	if _, dup := idx[p.ID]; !dup {
		idx[p.ID] = p
	}
}

func (e *Ecosystem) Plant(id string) *Plant {
	return e.plantIndex()[id]
}

func (e *Ecosystem) plantIndex() map[string]*Plant {
	if e.plantByID == nil || len(e.plantByID) != len(e.Plants) {
		e.plantByID = make(map[string]*Plant, len(e.Plants))
		for _, p := range e.Plants {
			if _, dup := e.plantByID[p.ID]; !dup {
				e.plantByID[p.ID] = p
			}
		}
	}
	return e.plantByID
}

func (e *Ecosystem) PlantByName(name string) *Plant {
	for _, p := range e.Plants {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (e *Ecosystem) PlantsByName(name string) []*Plant {
	var res []*Plant
	for _, p := range e.Plants {
		if p.Name == name {
			res = append(res, p)
		}
	}
	return res
}

func (e *Ecosystem) RemovePlant(id string) bool {
	for idx, p := range e.Plants {
		if p.ID == id {
			delete(e.plantIndex(), id)
			e.Plants = append(e.Plants[:idx], e.Plants[idx+1:]...)
			e.Links().Forget(id)
			return true
		}
	}
	return false
}

// --- Relations resolved against current membership ---

// PreyOf returns the living members the organism hunts.
func (e *Ecosystem) PreyOf(o *Organism) []*Organism {
	var res []*Organism
	for _, id := range e.Links().PreyOf(o.ID) {
		if prey := e.Organism(id); prey != nil {
			res = append(res, prey)
		}
	}
	return res
}

// PollinationTargetsOf returns the member plants the organism pollinates.
func (e *Ecosystem) PollinationTargetsOf(o *Organism) []*Plant {
	var res []*Plant
	for _, id := range e.Links().PollinationTargetsOf(o.ID) {
		if p := e.Plant(id); p != nil {
			res = append(res, p)
		}
	}
	return res
}

// Links returns the relation index, creating it on first use.
func (e *Ecosystem) Links() *RelationIndex {
	if e.Relations == nil {
		e.Relations = NewRelationIndex()
	}
	return e.Relations
}

// Clone returns a deep copy: members and relations are not shared.
func (e *Ecosystem) Clone() *Ecosystem {
	c := *e
	c.organismByID, c.plantByID = nil, nil
	c.Organisms = make([]*Organism, len(e.Organisms))
	for i, o := range e.Organisms {
		cp := *o
		c.Organisms[i] = &cp
	}
	c.Plants = make([]*Plant, len(e.Plants))
	for i, p := range e.Plants {
		cp := *p
		c.Plants[i] = &cp
	}
	c.Relations = NewRelationIndex()
	for _, edge := range e.Links().PredationEdges() {
		c.Relations.LinkPredation(edge.From, edge.To)
	}
	for _, edge := range e.Links().PollinationEdges() {
		c.Relations.LinkPollination(edge.From, edge.To)
	}
	return &c
}
