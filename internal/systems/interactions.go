package systems

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/pkg/logger"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// HuntOptions tune the exchange loop of a hunt.
type HuntOptions struct {
	// ReattackChance is the probability that the attacker strikes again once
	// the defender is down. The hunt ends at the first failed draw.
	ReattackChance float64
	// MaxExchanges caps a single hunt. A defender still alive at the cap is
	// finished off, so every hunt resolves with a kill.
	MaxExchanges int
}

// DefaultHuntOptions are used when the engine config leaves them empty.
var DefaultHuntOptions = HuntOptions{ReattackChance: 0.7, MaxExchanges: 500}

// HuntResult is everything a hunt produced.
type HuntResult struct {
	Outcomes []domain.Outcome
	Killed   bool
	Food     float64 // biomass gained from the kill
}

// NectarResult is everything a nectar run produced.
type NectarResult struct {
	Outcomes []domain.Outcome
	Food     float64
	// Pollinated is the plant that received pollen; nil when nothing matched.
	Pollinated *domain.Plant
	// Increment is how many new clones of Pollinated the caller must create.
	Increment int
}

// Rest heals by a random amount in [10,30].
func Rest(rng Rand, org *domain.Organism) domain.Outcome {
	heal := randAmount(rng, domain.RestHealMin, domain.RestHealMax)
	org.Health += heal
	return domain.Infof(domain.OutcomeInfo, "%s rests and recovers %.0f health.", org.Name, heal)
}

// DrinkWater takes the organism's consumption out of the ecosystem pool.
// When the pool is too low the organism gets thirstier and weaker instead.
func DrinkWater(rng Rand, eco *domain.Ecosystem, org *domain.Organism) domain.Outcome {
	health := randAmount(rng, domain.DrinkMin, domain.DrinkMax)
	thirst := randAmount(rng, domain.DrinkMin, domain.DrinkMax)

	if eco.WaterAvailable >= org.WaterConsumption {
		eco.WaterAvailable -= org.WaterConsumption
		org.Thirst -= thirst
		org.Health += health
		return domain.Infof(domain.OutcomeWater,
			"%s drinks %.2f, recovering %.0f health and reducing its thirst by %.0f.",
			org.Name, org.WaterConsumption, health, thirst)
	}

	org.Thirst += thirst
	org.Health -= health
	return domain.Infof(domain.OutcomeWater,
		"No sufficient water for %s. Its health has reduced by %.0f and its thirst increased by %.0f.",
		org.Name, health, thirst)
}

// PlantDrinkWater is the plant side of drink_water: water_need against the pool.
func PlantDrinkWater(rng Rand, eco *domain.Ecosystem, plant *domain.Plant) domain.Outcome {
	amount := randAmount(rng, domain.DrinkMin, domain.DrinkMax)

	if eco.WaterAvailable >= plant.WaterNeed {
		eco.WaterAvailable -= plant.WaterNeed
		plant.Health += amount
		return domain.Infof(domain.OutcomeWater, "%s absorbs %.2f water and recovers %.0f health.",
			plant.Name, plant.WaterNeed, amount)
	}

	plant.Health -= amount
	return domain.Infof(domain.OutcomeWater, "No sufficient water for %s. Its health has reduced by %.0f.",
		plant.Name, amount)
}

// HuntPrey resolves exchanges between attacker and defender. Each exchange is
// one combat record. Exchanges repeat until the defender is dead and a final
// re-attack draw fails; MaxExchanges forces the kill if it is reached first.
func HuntPrey(rng Rand, attacker, defender *domain.Organism, isNight bool, opts HuntOptions) HuntResult {
	if opts.MaxExchanges <= 0 {
		opts.MaxExchanges = DefaultHuntOptions.MaxExchanges
	}

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     defender.ID,
		"target_name":   defender.Name,
	})

	chance := HitChance(attacker, defender, isNight)
	var res HuntResult

	for exchange := 1; ; exchange++ {
		res.Outcomes = append(res.Outcomes, domain.Combat(exchangeRecord(rng, attacker, defender, chance)))

		if exchange >= opts.MaxExchanges {
			if defender.Health > 0 {
				combatLogger.WithField("exchanges", exchange).Debug("Exchange cap reached, forcing the kill.")
				defender.Health = 0
				res.Outcomes = append(res.Outcomes, domain.Infof(domain.OutcomeInfo,
					"%s is exhausted and falls to %s.", defender.Name, attacker.Name))
			}
			break
		}
		if defender.Health <= 0 && rng.Float64() >= opts.ReattackChance {
			break
		}
	}

	hunger := randAmount(rng, domain.KillHungerMin, domain.KillHungerMax)
	health := randAmount(rng, domain.KillHealthMin, domain.KillHealthMax)
	attacker.Hunger += hunger
	attacker.Health += health

	res.Killed = true
	res.Food = math.Max(defender.Weight, 0)

	combatLogger.WithFields(logrus.Fields{
		"exchanges":  len(res.Outcomes),
		"hit_chance": chance,
		"food":       res.Food,
	}).Info("Hunt resolved with a kill.")

	res.Outcomes = append(res.Outcomes, domain.Infof(domain.OutcomeFood,
		"%s kills %s, changing its hunger by %.0f and recovering %.0f health.",
		attacker.Name, defender.Name, hunger, health))
	return res
}

func exchangeRecord(rng Rand, attacker, defender *domain.Organism, chance float64) domain.CombatRecord {
	rec := domain.CombatRecord{
		Attacker:     attacker.Name,
		Defender:     defender.Name,
		HitChance:    roundPercent(chance),
		DefendChance: roundPercent(1 - chance),
		Hit:          RollHit(rng, chance),
	}
	if rec.Hit {
		rec.Damage = randAmount(rng, domain.HuntDamageMin, domain.HuntDamageMax)
		defender.Health -= rec.Damage
		rec.Result = fmt.Sprintf("%s: Hits %s", attacker.Name, defender.Name)
	} else {
		rec.Result = fmt.Sprintf("%s: Misses %s", attacker.Name, defender.Name)
	}
	return rec
}

// GrazePlants sets the target's biomass to a random fraction of itself.
// Returns the outcome and the biomass eaten.
func GrazePlants(rng Rand, target *domain.Plant, org *domain.Organism) (domain.Outcome, float64) {
	fraction := rng.Float64()
	before := target.Weight
	target.Weight = fraction * target.Weight

	hunger := randAmount(rng, domain.GrazeHungerMin, domain.GrazeHungerMax)
	org.Hunger += hunger

	eaten := before - target.Weight
	return domain.Infof(domain.OutcomeFood, "%s grazes on %s, eating %.2f of biomass (hunger %+.0f).",
		org.Name, target.Name, eaten, hunger), eaten
}

// CollectAndTransportNectar feeds on one random target and carries its pollen
// to a second one. A second target of the same plant type reproduces.
func CollectAndTransportNectar(rng Rand, org *domain.Organism, targets []*domain.Plant) NectarResult {
	var res NectarResult
	if len(targets) == 0 {
		res.Outcomes = append(res.Outcomes, NoTargetFound(org, "nectar"))
		return res
	}

	idx := pick(rng, len(targets))
	first := targets[idx]

	healthLoss := randAmount(rng, domain.NectarMin, domain.NectarMax)
	weightShare := randAmount(rng, domain.NectarMin, domain.NectarMax) / 100
	taken := first.Weight * weightShare
	first.Health -= healthLoss
	first.Weight -= taken

	hunger := randAmount(rng, domain.NectarMin, domain.NectarMax)
	thirst := randAmount(rng, domain.NectarMin, domain.NectarMax)
	health := randAmount(rng, domain.NectarMin, domain.NectarMax)
	org.Hunger -= hunger
	org.Thirst -= thirst
	org.Health += health

	res.Food = taken
	res.Outcomes = append(res.Outcomes, domain.Infof(domain.OutcomeFood,
		"%s collects nectar from %s, recovering %.0f hunger, %.0f thirst and %.0f health.",
		org.Name, first.Name, hunger, thirst, health))

	// Second target comes from the remaining candidates
	remaining := make([]*domain.Plant, 0, len(targets)-1)
	remaining = append(remaining, targets[:idx]...)
	remaining = append(remaining, targets[idx+1:]...)
	if len(remaining) == 0 {
		res.Outcomes = append(res.Outcomes, noMatchingType(org, first))
		return res
	}

	second := remaining[pick(rng, len(remaining))]
	if second.Type != first.Type {
		res.Outcomes = append(res.Outcomes, noMatchingType(org, first))
		return res
	}

	gain := randAmount(rng, domain.NectarMin, domain.NectarMax)
	second.Health += gain
	fertility := second.FertilityRate
	if fertility < 0 {
		fertility = 0
	}
	res.Pollinated = second
	res.Increment = rng.Intn(fertility + 1)
	res.Outcomes = append(res.Outcomes, domain.Infof(domain.OutcomeInfo,
		"%s transports pollen from %s to %s, which recovers %.0f health and spreads %d new plants.",
		org.Name, first.Name, second.Name, gain, res.Increment))
	return res
}

func noMatchingType(org *domain.Organism, first *domain.Plant) domain.Outcome {
	return domain.Infof(domain.OutcomeInfo, "%s found no matching type to transport the pollen of %s (%s).",
		org.Name, first.Name, first.Type)
}

// Reproduce makes one random eligible candidate pregnant.
// Candidates that are already pregnant are ignored.
func Reproduce(rng Rand, pool []*domain.Organism) (domain.Outcome, *domain.Organism) {
	eligible := make([]*domain.Organism, 0, len(pool))
	for _, o := range pool {
		if !o.Pregnant {
			eligible = append(eligible, o)
		}
	}
	if len(eligible) == 0 {
		return domain.Infof(domain.OutcomeInfo, "No eligible partner to reproduce."), nil
	}

	chosen := eligible[pick(rng, len(eligible))]
	chosen.Pregnant = true
	return domain.Infof(domain.OutcomeBirth, "%s is now pregnant.", chosen.Name), chosen
}

// GiveBirth clears the pregnancy flag; the caller creates the newborn.
func GiveBirth(org *domain.Organism) domain.Outcome {
	org.Pregnant = false
	return domain.Infof(domain.OutcomeBirth, "%s gave birth to a new %s.", org.Name, org.Name)
}

func Patrol(org *domain.Organism) domain.Outcome {
	return domain.Infof(domain.OutcomeInfo, "%s patrols its territory.", org.Name)
}

func Hide(org *domain.Organism) domain.Outcome {
	return domain.Infof(domain.OutcomeInfo, "%s hides from predators.", org.Name)
}

// ReplenishWater adds a random amount in [MinWaterToAdd, MaxWaterToAdd] to the pool.
func ReplenishWater(rng Rand, eco *domain.Ecosystem) domain.Outcome {
	added := randAmount(rng, eco.MinWaterToAdd, eco.MaxWaterToAdd)
	eco.WaterAvailable += added
	return domain.Infof(domain.OutcomeWater, "A new day begins in %s: %.0f water was added, %.2f available.",
		eco.Name, added, eco.WaterAvailable)
}

// FoodShortfall penalises an organism that ate less than its food_consumption this tick.
func FoodShortfall(rng Rand, org *domain.Organism, eaten float64) domain.Outcome {
	penalty := randAmount(rng, domain.ShortfallPenaltyMin, domain.ShortfallPenaltyMax)
	org.Health -= penalty
	return domain.Infof(domain.OutcomeFood, "%s found only %.2f of the %.2f food it needs and loses %.0f health.",
		org.Name, eaten, org.FoodConsumption, penalty)
}

// NoTargetFound is reported when an action has nothing to act on.
func NoTargetFound(org *domain.Organism, what string) domain.Outcome {
	return domain.Infof(domain.OutcomeInfo, "%s found no target for %s.", org.Name, what)
}

func roundPercent(chance float64) float64 {
	return math.Round(chance*100*100) / 100
}
