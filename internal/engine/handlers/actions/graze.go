package actions

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/systems"
)

// Pasture lists the plants that still have biomass to graze on.
func Pasture(ctx handlers.Context) []*domain.Plant {
	var res []*domain.Plant
	for _, p := range ctx.Eco.Plants {
		if p.Weight > 0 {
			res = append(res, p)
		}
	}
	return res
}

func HandleGraze(ctx handlers.Context, plant *domain.Plant) handlers.Result {
	o, eaten := systems.GrazePlants(ctx.Rng, plant, ctx.Actor)
	return handlers.Result{Outcomes: []domain.Outcome{o}, Food: eaten}
}
