package actions

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/systems"
)

// Mates lists the members of the actor's species that may become pregnant.
func Mates(ctx handlers.Context) []*domain.Organism {
	var res []*domain.Organism
	for _, o := range ctx.Eco.OrganismsByName(ctx.Actor.Name) {
		if o.CanReproduce() {
			res = append(res, o)
		}
	}
	return res
}

// HandleReproduce gives birth when the actor is pregnant, otherwise makes one
// eligible member of its species pregnant.
func HandleReproduce(ctx handlers.Context) handlers.Result {
	if ctx.Actor.Pregnant {
		return handlers.Result{
			Outcomes: []domain.Outcome{systems.GiveBirth(ctx.Actor)},
			Spawns: []handlers.Spawn{{
				Kind:     domain.KindOrganism,
				Name:     ctx.Actor.Name,
				ParentID: ctx.Actor.ID,
				Count:    1,
			}},
		}
	}

	o, _ := systems.Reproduce(ctx.Rng, Mates(ctx))
	return handlers.Single(o)
}
