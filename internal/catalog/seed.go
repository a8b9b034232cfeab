package catalog

import (
	"context"
	"errors"
	"fmt"

	"ecosystem-server/internal/domain"
	"ecosystem-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Seeder is the part of the simulation service that seeding writes through.
type Seeder interface {
	Populator
	CreateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) (domain.OrganismTemplate, error)
	CreatePlantTemplate(ctx context.Context, t domain.PlantTemplate) (domain.PlantTemplate, error)
}

// Summary reports which catalogue entries were stored and which were already there.
type Summary struct {
	Organisms Partition `json:"organisms"`
	Plants    Partition `json:"plants"`
}

type Partition struct {
	Added   []string `json:"added"`
	Existed []string `json:"already_exist"`
}

// Added counts the newly stored templates.
func (s Summary) Added() int {
	return len(s.Organisms.Added) + len(s.Plants.Added)
}

// SeedTemplates stores every catalogue template that is not stored yet.
// When all of them exist already the summary comes back with an AlreadyExists error.
func SeedTemplates(ctx context.Context, svc Seeder, cat *Catalog) (Summary, error) {
	var sum Summary

	for _, spec := range cat.Plants {
		_, err := svc.CreatePlantTemplate(ctx, spec.Template())
		if err := sum.Plants.record(spec.Name, err); err != nil {
			return sum, err
		}
	}
	for _, spec := range cat.Organisms {
		_, err := svc.CreateOrganismTemplate(ctx, spec.Template())
		if err := sum.Organisms.record(spec.Name, err); err != nil {
			return sum, err
		}
	}

	if sum.Added() == 0 && len(cat.Organisms)+len(cat.Plants) > 0 {
		return sum, domain.AlreadyExists("default template set")
	}
	return sum, nil
}

func (p *Partition) record(name string, err error) error {
	switch {
	case err == nil:
		p.Added = append(p.Added, name)
	case errors.Is(err, domain.ErrAlreadyExists):
		p.Existed = append(p.Existed, name)
	default:
		return fmt.Errorf("seed %s: %w", name, err)
	}
	return nil
}

// Seed stores the catalogue templates and builds each catalogue ecosystem.
// Ecosystems whose name is taken are left alone, so seeding twice is harmless.
func Seed(ctx context.Context, svc Seeder, cat *Catalog) (Summary, error) {
	log := logger.Component("catalog")

	sum, err := SeedTemplates(ctx, svc, cat)
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return sum, err
	}

	for _, spec := range cat.Ecosystems {
		eco, err := spec.Builder(svc).Build(ctx)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			log.WithField("ecosystem", spec.Name).Debug("Ecosystem already seeded")
			continue
		case err != nil:
			return sum, err
		}
		log.WithFields(logrus.Fields{
			"ecosystem": eco.ID,
			"name":      eco.Name,
			"organisms": len(eco.Organisms),
			"plants":    len(eco.Plants),
		}).Info("Ecosystem seeded from catalog")
	}

	log.WithFields(logrus.Fields{
		"organisms_added": len(sum.Organisms.Added),
		"plants_added":    len(sum.Plants.Added),
	}).Info("Catalog seeded")
	return sum, nil
}
