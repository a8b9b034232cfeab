package actions

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
)

// Food lists everything an omnivore can eat: its prey first, then pasture.
func Food(ctx handlers.Context) []domain.Member {
	var res []domain.Member
	for _, o := range Prey(ctx) {
		res = append(res, o)
	}
	for _, p := range Pasture(ctx) {
		res = append(res, p)
	}
	return res
}

// HandleFindFood hunts or grazes depending on what was found.
func HandleFindFood(ctx handlers.Context, food domain.Member) handlers.Result {
	switch target := food.(type) {
	case *domain.Organism:
		return HandleHunt(ctx, target)
	case *domain.Plant:
		return HandleGraze(ctx, target)
	}
	return handlers.Result{}
}
