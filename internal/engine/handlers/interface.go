package handlers

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/systems"
)

// Context hands a handler the state of the tick.
// Everything is passed by reference: handlers mutate the ecosystem in place.
type Context struct {
	Eco     *domain.Ecosystem
	Actor   *domain.Organism // the organism performing the action
	Rng     systems.Rand
	IsNight bool
	Hunt    systems.HuntOptions
}

// Spawn asks the engine to clone Count new members of a species into the
// ecosystem. New members inherit the relations of ParentID.
type Spawn struct {
	Kind     domain.MemberKind
	Name     string
	ParentID string
	Count    int
}

// Result is what an action produced.
// A handler never touches the store; the engine applies Killed and Spawns.
type Result struct {
	Outcomes []domain.Outcome
	Food     float64            // food obtained, counted against food_consumption
	Killed   []*domain.Organism // defenders that died in a hunt
	Spawns   []Spawn
}

// HandlerFunc is the contract of every action (HUNT, GRAZE, ...).
type HandlerFunc func(ctx Context) Result

// Single wraps one outcome into a Result.
func Single(o domain.Outcome) Result {
	return Result{Outcomes: []domain.Outcome{o}}
}
