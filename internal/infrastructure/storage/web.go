package storage

import "ecosystem-server/internal/domain"

// templateLookup resolves an organism template by species name.
type templateLookup func(name string) (domain.OrganismTemplate, bool)

// organismWeb returns the member-level edges a freshly cloned organism gets
// from the species-level food web of the templates.
func organismWeb(eco *domain.Ecosystem, tmpl domain.OrganismTemplate, lookup templateLookup, childID string) (predation, pollination []domain.Edge) {
	// The newcomer hunts its prey species
	for _, prey := range tmpl.Prey {
		for _, o := range eco.OrganismsByName(prey) {
			predation = append(predation, domain.Edge{From: childID, To: o.ID})
		}
	}

	// Species that hunt the newcomer's species hunt it too
	for _, name := range memberSpecies(eco) {
		hunter, ok := lookup(name)
		if !ok || !contains(hunter.Prey, tmpl.Name) {
			continue
		}
		for _, o := range eco.OrganismsByName(name) {
			if o.ID != childID {
				predation = append(predation, domain.Edge{From: o.ID, To: childID})
			}
		}
	}

	for _, plant := range tmpl.PollinationTargets {
		for _, p := range eco.PlantsByName(plant) {
			pollination = append(pollination, domain.Edge{From: childID, To: p.ID})
		}
	}
	return predation, pollination
}

// plantWeb returns the pollination edges of a freshly cloned plant.
func plantWeb(eco *domain.Ecosystem, plantName string, lookup templateLookup, childID string) []domain.Edge {
	var edges []domain.Edge
	for _, name := range memberSpecies(eco) {
		pollinator, ok := lookup(name)
		if !ok || !contains(pollinator.PollinationTargets, plantName) {
			continue
		}
		for _, o := range eco.OrganismsByName(name) {
			edges = append(edges, domain.Edge{From: o.ID, To: childID})
		}
	}
	return edges
}

// memberSpecies lists the distinct organism species of the ecosystem in order of appearance.
func memberSpecies(eco *domain.Ecosystem) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range eco.Organisms {
		if !seen[o.Name] {
			seen[o.Name] = true
			names = append(names, o.Name)
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
