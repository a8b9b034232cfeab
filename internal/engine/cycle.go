package engine

import (
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine/handlers"
	"ecosystem-server/internal/engine/handlers/actions"
	"ecosystem-server/internal/systems"
	"ecosystem-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine advances ecosystems one tick at a time.
// It holds no per-ecosystem state; callers serialize access to a graph.
type Engine struct {
	store    Store
	hunt     systems.HuntOptions
	handlers map[domain.ActionType]handlers.HandlerFunc
}

func NewEngine(store Store, cfg Config) *Engine {
	e := &Engine{
		store:    store,
		hunt:     cfg.HuntOptions(),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
	}
	e.registerHandlers()
	return e
}

func (e *Engine) registerHandlers() {
	e.handlers[domain.ActionHunt] = handlers.WithTarget("hunting", actions.Prey, actions.HandleHunt)
	e.handlers[domain.ActionGraze] = handlers.WithTarget("grazing", actions.Pasture, actions.HandleGraze)
	e.handlers[domain.ActionFindFood] = handlers.WithTarget("food", actions.Food, actions.HandleFindFood)
	e.handlers[domain.ActionCollectNectar] = actions.HandleNectar
	e.handlers[domain.ActionPollinate] = actions.HandleNectar
	e.handlers[domain.ActionDrink] = actions.HandleDrink
	e.handlers[domain.ActionRest] = actions.HandleRest
	e.handlers[domain.ActionPatrol] = actions.HandlePatrol
	e.handlers[domain.ActionHide] = actions.HandleHide
	e.handlers[domain.ActionReproduce] = actions.HandleReproduce
}

// Run advances eco by n ticks and returns the outcomes of all of them, in order.
func (e *Engine) Run(ctx context.Context, eco *domain.Ecosystem, rng systems.Rand, n int) ([]domain.Outcome, error) {
	var all []domain.Outcome
	for i := 0; i < n; i++ {
		outcomes, err := e.Tick(ctx, eco, rng)
		all = append(all, outcomes...)
		if err != nil {
			return all, fmt.Errorf("tick %d of %d: %w", i+1, n, err)
		}
	}
	return all, nil
}

// Tick runs one simulation step:
//  1. every organism performs two actions
//  2. dead organisms are removed, survivors that ate too little are penalised
//  3. plants die or drink
//  4. the clock advances
func (e *Engine) Tick(ctx context.Context, eco *domain.Ecosystem, rng systems.Rand) ([]domain.Outcome, error) {
	t := &tickRun{
		engine: e,
		ctx:    ctx,
		eco:    eco,
		rng:    rng,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "cycle_engine",
			"ecosystem": eco.ID,
		}),
	}

	// 1-2. Organisms, in a fixed order. Members removed earlier in the pass are
	// skipped, newborns do not act until the next tick.
	order := make([]*domain.Organism, len(eco.Organisms))
	copy(order, eco.Organisms)

	for _, org := range order {
		if err := ctx.Err(); err != nil {
			return t.outcomes, err
		}
		if eco.Organism(org.ID) == nil {
			continue
		}
		if err := t.act(org); err != nil {
			return t.outcomes, err
		}
	}

	// 3. Plants
	plants := make([]*domain.Plant, len(eco.Plants))
	copy(plants, eco.Plants)

	for _, p := range plants {
		if cause := p.DeathCause(); cause != domain.DeathNone {
			if err := t.removePlant(p, cause); err != nil {
				return t.outcomes, err
			}
			continue
		}
		t.record(systems.PlantDrinkWater(rng, eco, p))
	}

	// 4. Clock
	t.advanceClock()

	// Aging can push members past max_age; nobody outlives the tick it died in.
	if err := t.sweep(); err != nil {
		return t.outcomes, err
	}

	t.log.WithFields(logrus.Fields{
		"cycle":     eco.Cycle,
		"day":       eco.Day,
		"year":      eco.Year,
		"water":     eco.WaterAvailable,
		"organisms": len(eco.Organisms),
		"plants":    len(eco.Plants),
		"outcomes":  len(t.outcomes),
	}).Debug("Tick finished")

	return t.outcomes, nil
}

// tickRun carries the state of one tick.
type tickRun struct {
	engine   *Engine
	ctx      context.Context
	eco      *domain.Ecosystem
	rng      systems.Rand
	log      *logrus.Entry
	outcomes []domain.Outcome
}

func (t *tickRun) record(outcomes ...domain.Outcome) {
	for _, o := range outcomes {
		t.outcomes = append(t.outcomes, o)
		t.log.WithField("type", o.Type).Debug(o.Text)
	}
}

// act draws and executes the organism's actions, then applies the death check
// and the food shortfall penalty.
func (t *tickRun) act(org *domain.Organism) error {
	hctx := handlers.Context{
		Eco:     t.eco,
		Actor:   org,
		Rng:     t.rng,
		IsNight: t.eco.IsNight(),
		Hunt:    t.engine.hunt,
	}

	food := 0.0
	for _, action := range systems.SelectActions(t.rng, org.Type) {
		handler, ok := t.engine.handlers[action]
		if !ok {
			continue
		}

		res := handler(hctx)
		t.record(res.Outcomes...)
		food += res.Food

		for _, victim := range res.Killed {
			if err := t.removeOrganism(victim, domain.DeathKilled); err != nil {
				return err
			}
		}
		for _, sp := range res.Spawns {
			if err := t.spawn(sp); err != nil {
				return err
			}
		}
	}

	if cause := org.DeathCause(); cause != domain.DeathNone {
		return t.removeOrganism(org, cause)
	}

	if food < org.FoodConsumption {
		t.record(systems.FoodShortfall(t.rng, org, food))
		if cause := org.DeathCause(); cause != domain.DeathNone {
			return t.removeOrganism(org, cause)
		}
	}
	return nil
}

func (t *tickRun) removeOrganism(org *domain.Organism, cause domain.DeathCause) error {
	if err := t.engine.store.Delete(t.ctx, org); err != nil {
		return fmt.Errorf("delete organism %s: %w", org.ID, err)
	}
	t.eco.RemoveOrganism(org.ID)
	t.record(domain.Infof(domain.OutcomeDeath, "%s", domain.DeathMessage(org.Name, cause)))
	return nil
}

func (t *tickRun) removePlant(p *domain.Plant, cause domain.DeathCause) error {
	if err := t.engine.store.Delete(t.ctx, p); err != nil {
		return fmt.Errorf("delete plant %s: %w", p.ID, err)
	}
	t.eco.RemovePlant(p.ID)
	t.record(domain.Infof(domain.OutcomeDeath, "%s", domain.DeathMessage(p.Name, cause)))
	return nil
}

// spawn materializes births and pollination offspring through the store.
func (t *tickRun) spawn(sp handlers.Spawn) error {
	for i := 0; i < sp.Count; i++ {
		var childID string

		switch sp.Kind {
		case domain.KindOrganism:
			child, err := t.engine.store.CloneOrganismInto(t.ctx, t.eco.ID, sp.Name)
			if err != nil {
				return fmt.Errorf("clone organism %q: %w", sp.Name, err)
			}
			t.eco.AddOrganism(child)
			childID = child.ID
		case domain.KindPlant:
			child, err := t.engine.store.ClonePlantInto(t.ctx, t.eco.ID, sp.Name)
			if err != nil {
				return fmt.Errorf("clone plant %q: %w", sp.Name, err)
			}
			t.eco.AddPlant(child)
			childID = child.ID
		}

		t.eco.Links().Inherit(sp.ParentID, childID)
		t.log.WithFields(logrus.Fields{
			"kind":   sp.Kind,
			"name":   sp.Name,
			"parent": sp.ParentID,
			"child":  childID,
		}).Debug("Member spawned")
	}
	return nil
}

// advanceClock moves the phase one step. Wrapping back to diurnal starts a new
// day with fresh water; every DaysPerYear days a year passes and everyone ages.
func (t *tickRun) advanceClock() {
	eco := t.eco
	wrapped := eco.Cycle == domain.CycleCrepuscular
	eco.Cycle = eco.Cycle.Next()
	if !wrapped {
		return
	}

	t.record(systems.ReplenishWater(t.rng, eco))
	eco.Day++
	if eco.Day%domain.DaysPerYear != 0 {
		return
	}

	eco.Year++
	for _, o := range eco.Organisms {
		o.Age += domain.AgePerYear
	}
	for _, p := range eco.Plants {
		p.Age += domain.AgePerYear
	}
	t.record(domain.Infof(domain.OutcomeInfo, "Year %d begins in %s.", eco.Year, eco.Name))
}

// sweep removes every member that meets a death condition at the end of the tick.
func (t *tickRun) sweep() error {
	for _, o := range append([]*domain.Organism(nil), t.eco.Organisms...) {
		if cause := o.DeathCause(); cause != domain.DeathNone {
			if err := t.removeOrganism(o, cause); err != nil {
				return err
			}
		}
	}
	for _, p := range append([]*domain.Plant(nil), t.eco.Plants...) {
		if cause := p.DeathCause(); cause != domain.DeathNone {
			if err := t.removePlant(p, cause); err != nil {
				return err
			}
		}
	}
	return nil
}
