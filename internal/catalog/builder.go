package catalog

import (
	"context"
	"fmt"

	"ecosystem-server/internal/domain"
)

// Populator is the part of the simulation service an EcosystemBuilder needs.
type Populator interface {
	CreateEcosystem(ctx context.Context, eco *domain.Ecosystem) (*domain.Ecosystem, error)
	AddOrganism(ctx context.Context, ecosystemID, templateName string) (*domain.Organism, error)
	AddPlant(ctx context.Context, ecosystemID, templateName string) (*domain.Plant, error)
}

// EcosystemBuilder assembles an ecosystem step by step:
//
//	eco, err := NewEcosystem(svc, "Serengeti").
//		WithWater(2000, 50, 200).
//		SpawnPlant("Acacia", 3).
//		SpawnOrganism("Lion", 2).
//		Build(ctx)
//
// Plants are added before organisms so pollinators find their targets.
type EcosystemBuilder struct {
	target    Populator
	eco       *domain.Ecosystem
	plants    []Population
	organisms []Population
}

// NewEcosystem starts a builder with an empty water pool.
func NewEcosystem(target Populator, name string) *EcosystemBuilder {
	return &EcosystemBuilder{
		target: target,
		eco:    domain.NewEcosystem("", name, 0, 0, 0),
	}
}

// WithWater sets the pool and the per-day replenishment bounds.
func (b *EcosystemBuilder) WithWater(available float64, minAdd, maxAdd int) *EcosystemBuilder {
	b.eco.WaterAvailable = available
	b.eco.MinWaterToAdd = minAdd
	b.eco.MaxWaterToAdd = maxAdd
	return b
}

func (b *EcosystemBuilder) WithEnvironment(env domain.EnvironmentType) *EcosystemBuilder {
	b.eco.Environment = env
	return b
}

// SpawnPlant queues count members of the named plant template.
func (b *EcosystemBuilder) SpawnPlant(name string, count int) *EcosystemBuilder {
	b.plants = append(b.plants, Population{Name: name, Count: count})
	return b
}

// SpawnOrganism queues count members of the named organism template.
func (b *EcosystemBuilder) SpawnOrganism(name string, count int) *EcosystemBuilder {
	b.organisms = append(b.organisms, Population{Name: name, Count: count})
	return b
}

// Build creates the ecosystem and clones every queued member into it.
// A failure part way leaves the members added so far in place. The returned
// ecosystem lists its members only; Get it from the store for the food web.
func (b *EcosystemBuilder) Build(ctx context.Context) (*domain.Ecosystem, error) {
	eco, err := b.target.CreateEcosystem(ctx, b.eco)
	if err != nil {
		return nil, err
	}

	for _, pop := range b.plants {
		for i := 0; i < pop.Count; i++ {
			p, err := b.target.AddPlant(ctx, eco.ID, pop.Name)
			if err != nil {
				return eco, fmt.Errorf("spawn %s in %s: %w", pop.Name, eco.Name, err)
			}
			eco.AddPlant(p)
		}
	}
	for _, pop := range b.organisms {
		for i := 0; i < pop.Count; i++ {
			o, err := b.target.AddOrganism(ctx, eco.ID, pop.Name)
			if err != nil {
				return eco, fmt.Errorf("spawn %s in %s: %w", pop.Name, eco.Name, err)
			}
			eco.AddOrganism(o)
		}
	}
	return eco, nil
}

// Builder returns a builder prepared with the entry's water, environment and populations.
func (s EcosystemSpec) Builder(target Populator) *EcosystemBuilder {
	b := NewEcosystem(target, s.Name).WithWater(s.WaterAvailable, s.MinWaterToAdd, s.MaxWaterToAdd)
	if env, ok := domain.ParseEnvironment(s.Environment); ok {
		b.WithEnvironment(env)
	}
	for _, p := range s.Plants {
		b.SpawnPlant(p.Name, p.Count)
	}
	for _, o := range s.Organisms {
		b.SpawnOrganism(o.Name, o.Count)
	}
	return b
}
