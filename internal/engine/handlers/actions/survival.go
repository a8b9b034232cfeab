package actions

import (
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/systems"
)

func HandleDrink(ctx handlers.Context) handlers.Result {
	return handlers.Single(systems.DrinkWater(ctx.Rng, ctx.Eco, ctx.Actor))
}

func HandleRest(ctx handlers.Context) handlers.Result {
	return handlers.Single(systems.Rest(ctx.Rng, ctx.Actor))
}

func HandlePatrol(ctx handlers.Context) handlers.Result {
	return handlers.Single(systems.Patrol(ctx.Actor))
}

func HandleHide(ctx handlers.Context) handlers.Result {
	return handlers.Single(systems.Hide(ctx.Actor))
}
