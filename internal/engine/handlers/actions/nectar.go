package actions

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/systems"
)

// HandleNectar serves both COLLECT_NECTAR and POLLINATE: the pollinator feeds on
// one of its targets and carries pollen to another.
func HandleNectar(ctx handlers.Context) handlers.Result {
	targets := ctx.Eco.PollinationTargetsOf(ctx.Actor)
	res := systems.CollectAndTransportNectar(ctx.Rng, ctx.Actor, targets)

	out := handlers.Result{Outcomes: res.Outcomes, Food: res.Food}
	if res.Pollinated != nil && res.Increment > 0 {
		out.Spawns = append(out.Spawns, handlers.Spawn{
			Kind:     domain.KindPlant,
			Name:     res.Pollinated.Name,
			ParentID: res.Pollinated.ID,
			Count:    res.Increment,
		})
	}
	return out
}
