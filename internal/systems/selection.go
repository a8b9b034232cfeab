package systems

import "ecosystem-server/internal/domain"

// ActionsPerTick is how many distinct actions an organism performs each tick.
const ActionsPerTick = 2

// Fixed, ordered catalogue of admissible actions per organism type
var actionCatalogue = map[domain.OrganismType][]domain.ActionType{
	domain.OrganismPredator: {
		domain.ActionHunt, domain.ActionDrink, domain.ActionRest, domain.ActionPatrol, domain.ActionReproduce,
	},
	domain.OrganismHerbivore: {
		domain.ActionGraze, domain.ActionDrink, domain.ActionHide, domain.ActionRest, domain.ActionReproduce,
	},
	domain.OrganismOmnivore: {
		domain.ActionFindFood, domain.ActionDrink, domain.ActionRest, domain.ActionReproduce,
	},
	domain.OrganismPollinator: {
		domain.ActionCollectNectar, domain.ActionPollinate, domain.ActionDrink, domain.ActionRest, domain.ActionReproduce,
	},
}

// ActionCatalogue returns a copy of the catalogue for t (nil for unknown types).
func ActionCatalogue(t domain.OrganismType) []domain.ActionType {
	actions, ok := actionCatalogue[t]
	if !ok {
		return nil
	}
	out := make([]domain.ActionType, len(actions))
	copy(out, actions)
	return out
}

// SelectActions draws ActionsPerTick distinct actions without replacement,
// returned in draw order. Catalogues shorter than that are returned whole.
func SelectActions(rng Rand, t domain.OrganismType) []domain.ActionType {
	pool := ActionCatalogue(t)
	n := ActionsPerTick
	if len(pool) < n {
		n = len(pool)
	}

	drawn := make([]domain.ActionType, 0, n)
	for i := 0; i < n; i++ {
		idx := pick(rng, len(pool))
		drawn = append(drawn, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return drawn
}
