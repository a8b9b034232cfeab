package handlers

import "ecosystem-server/internal/systems"

// TargetFinder lists the candidates an action may pick from.
type TargetFinder[T any] func(ctx Context) []T

// TargetedHandlerFunc is a handler that already received its target.
type TargetedHandlerFunc[T any] func(ctx Context, target T) Result

// WithTarget turns a targeted handler into a standard HandlerFunc.
// It draws one random candidate, or reports "no target found" when there is none.
func WithTarget[T any](what string, find TargetFinder[T], handler TargetedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context) Result {
		// 1. Candidates
		candidates := find(ctx)
		if len(candidates) == 0 {
			return Single(systems.NoTargetFound(ctx.Actor, what))
		}

		// 2. Random pick
		target := candidates[ctx.Rng.Intn(len(candidates))]

		// 3. Pure action logic
		return handler(ctx, target)
	}
}
