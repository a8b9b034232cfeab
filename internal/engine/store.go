package engine

import (
	"context"
	"ecosystem-server/internal/domain"
	"time"
)

// Store is the persistence collaborator of the cycle engine.
type Store interface {
	// Get returns the ecosystem with its members and relations fully materialized.
	Get(ctx context.Context, ecosystemID string) (*domain.Ecosystem, error)
	// CloneOrganismInto persists a new member cloned from the named template.
	// The caller appends it to its own graph.
	CloneOrganismInto(ctx context.Context, ecosystemID, templateName string) (*domain.Organism, error)
	ClonePlantInto(ctx context.Context, ecosystemID, templateName string) (*domain.Plant, error)
	Delete(ctx context.Context, member domain.Member) error
	// Save writes back the mutated graph: clock, water, member state and relations.
	Save(ctx context.Context, eco *domain.Ecosystem) error
}

// Repository is the Store plus the management operations the service exposes.
type Repository interface {
	Store

	CreateEcosystem(ctx context.Context, eco *domain.Ecosystem) error
	DeleteEcosystem(ctx context.Context, ecosystemID string) error

	CreateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) error
	OrganismTemplate(ctx context.Context, name string) (domain.OrganismTemplate, error)
	OrganismTemplates(ctx context.Context) ([]domain.OrganismTemplate, error)
	UpdateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) error
	DeleteOrganismTemplate(ctx context.Context, name string) error

	CreatePlantTemplate(ctx context.Context, t domain.PlantTemplate) error
	PlantTemplate(ctx context.Context, name string) (domain.PlantTemplate, error)
	PlantTemplates(ctx context.Context) ([]domain.PlantTemplate, error)
	UpdatePlantTemplate(ctx context.Context, t domain.PlantTemplate) error
	DeletePlantTemplate(ctx context.Context, name string) error
}

// SimulationRecord is a finished batch as kept by a ResultArchive.
type SimulationRecord struct {
	ID          string
	EcosystemID string
	Seed        int64
	Ticks       int
	Outcomes    []domain.Outcome
	CreatedAt   time.Time
}

// ResultArchive is implemented by stores that keep simulation results.
type ResultArchive interface {
	ArchiveSimulation(ctx context.Context, rec SimulationRecord) error
	Simulations(ctx context.Context, ecosystemID string) ([]SimulationRecord, error)
}
