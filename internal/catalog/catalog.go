// Package catalog loads the species catalogue: organism and plant templates
// plus ready-made ecosystems, described in YAML and checked against a JSON
// schema before they reach the store.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"ecosystem-server/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed species.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "catalog.schema.json"

// OrganismSpec is one organism species as written in the catalogue.
type OrganismSpec struct {
	Name             string  `yaml:"name"`
	Type             string  `yaml:"type"`
	Diet             string  `yaml:"diet_type"`
	Weight           float64 `yaml:"weight"`
	Size             float64 `yaml:"size"`
	Age              float64 `yaml:"age"`
	MaxAge           float64 `yaml:"max_age"`
	ReproductionAge  float64 `yaml:"reproduction_age"`
	FertilityRate    int     `yaml:"fertility_rate"`
	WaterConsumption float64 `yaml:"water_consumption"`
	FoodConsumption  float64 `yaml:"food_consumption"`
	ActivityCycle    string  `yaml:"activity_cycle"`
	Speed            string  `yaml:"speed"`
	SocialBehavior   string  `yaml:"social_behavior"`

	Prey       []string `yaml:"prey"`
	Pollinates []string `yaml:"pollinates"`
}

type PlantSpec struct {
	Name            string  `yaml:"name"`
	Type            string  `yaml:"type"`
	Weight          float64 `yaml:"weight"`
	Size            float64 `yaml:"size"`
	Age             float64 `yaml:"age"`
	MaxAge          float64 `yaml:"max_age"`
	ReproductionAge float64 `yaml:"reproduction_age"`
	FertilityRate   int     `yaml:"fertility_rate"`
	WaterNeed       float64 `yaml:"water_need"`
}

// Population asks for Count members of the named template.
type Population struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// EcosystemSpec is a starting world built from catalogue species.
type EcosystemSpec struct {
	Name           string       `yaml:"name"`
	Environment    string       `yaml:"environment"`
	WaterAvailable float64      `yaml:"water_available"`
	MinWaterToAdd  int          `yaml:"minimum_water_to_add"`
	MaxWaterToAdd  int          `yaml:"max_water_to_add"`
	Organisms      []Population `yaml:"organisms"`
	Plants         []Population `yaml:"plants"`
}

type Catalog struct {
	Organisms  []OrganismSpec  `yaml:"organisms"`
	Plants     []PlantSpec     `yaml:"plants"`
	Ecosystems []EcosystemSpec `yaml:"ecosystems"`
}

// Default returns the embedded catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalogue file. An empty path yields the embedded catalogue.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse validates data against the catalogue schema, decodes it and checks
// that every name it references is defined.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.checkReferences(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// validateSchema runs the YAML document through the JSON schema. The document
// goes through encoding/json first so the validator sees JSON types only.
func validateSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog is not representable as JSON: %w", err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return err
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(inst); err != nil {
		return domain.Validation("catalog does not match schema: %v", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load catalog schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	return schema, nil
}

func (c *Catalog) checkReferences() error {
	organisms := make(map[string]bool, len(c.Organisms))
	for _, o := range c.Organisms {
		if organisms[o.Name] {
			return domain.Validation("organism %q is defined twice", o.Name)
		}
		organisms[o.Name] = true
	}
	plants := make(map[string]bool, len(c.Plants))
	for _, p := range c.Plants {
		if plants[p.Name] {
			return domain.Validation("plant %q is defined twice", p.Name)
		}
		plants[p.Name] = true
	}

	for _, o := range c.Organisms {
		for _, prey := range o.Prey {
			if !organisms[prey] {
				return domain.Validation("%s hunts unknown organism %q", o.Name, prey)
			}
		}
		for _, target := range o.Pollinates {
			if !plants[target] {
				return domain.Validation("%s pollinates unknown plant %q", o.Name, target)
			}
		}
	}
	for _, e := range c.Ecosystems {
		for _, pop := range e.Organisms {
			if !organisms[pop.Name] {
				return domain.Validation("ecosystem %s uses unknown organism %q", e.Name, pop.Name)
			}
		}
		for _, pop := range e.Plants {
			if !plants[pop.Name] {
				return domain.Validation("ecosystem %s uses unknown plant %q", e.Name, pop.Name)
			}
		}
	}
	return nil
}

// Template converts the catalogue entry into a domain template.
func (s OrganismSpec) Template() domain.OrganismTemplate {
	return domain.OrganismTemplate{
		Organism: domain.Organism{
			Name:             s.Name,
			Type:             domain.OrganismType(s.Type),
			Diet:             domain.DietType(s.Diet),
			Weight:           s.Weight,
			Size:             s.Size,
			Age:              s.Age,
			MaxAge:           s.MaxAge,
			ReproductionAge:  s.ReproductionAge,
			FertilityRate:    s.FertilityRate,
			WaterConsumption: s.WaterConsumption,
			FoodConsumption:  s.FoodConsumption,
			ActivityCycle:    domain.ActivityCycle(s.ActivityCycle),
			Speed:            domain.Speed(s.Speed),
			SocialBehavior:   domain.SocialBehavior(s.SocialBehavior),
			Health:           domain.DefaultHealth,
		},
		Prey:               s.Prey,
		PollinationTargets: s.Pollinates,
	}
}

func (s PlantSpec) Template() domain.PlantTemplate {
	return domain.PlantTemplate{
		Plant: domain.Plant{
			Name:            s.Name,
			Type:            domain.PlantType(s.Type),
			Weight:          s.Weight,
			Size:            s.Size,
			Age:             s.Age,
			MaxAge:          s.MaxAge,
			ReproductionAge: s.ReproductionAge,
			FertilityRate:   s.FertilityRate,
			WaterNeed:       s.WaterNeed,
			Health:          domain.DefaultHealth,
		},
	}
}
