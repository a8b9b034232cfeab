package actions

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/systems"
)

// Prey lists the living members the actor hunts.
func Prey(ctx handlers.Context) []*domain.Organism {
	return ctx.Eco.PreyOf(ctx.Actor)
}

func HandleHunt(ctx handlers.Context, prey *domain.Organism) handlers.Result {
	res := systems.HuntPrey(ctx.Rng, ctx.Actor, prey, ctx.IsNight, ctx.Hunt)

	out := handlers.Result{Outcomes: res.Outcomes, Food: res.Food}
	if res.Killed {
		out.Killed = append(out.Killed, prey)
	}
	return out
}
