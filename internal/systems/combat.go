package systems

import (
	"ecosystem-server/internal/domain"
	"math"
)

const (
	physicalWeight  = 1.2
	physicalPower   = 0.33
	idealAgeShare   = 0.35
	experienceEps   = 0.01
	experienceFloor = 0.3
	experienceCeil  = 1.0
	minCombatPower  = 0.1

	MinHitChance = 0.05
	MaxHitChance = 0.95
)

var speedCoefficients = map[domain.Speed]float64{
	domain.SpeedSlow:   0.7,
	domain.SpeedNormal: 1.0,
	domain.SpeedFast:   1.4,
}

var socialBonuses = map[domain.SocialBehavior]float64{
	domain.SocialSolitary: 0.0,
	domain.SocialPack:     0.8,
	domain.SocialHerd:     0.4,
}

// CombatPower scores how effective org is against opponent in one exchange.
// The result is never below 0.1.
func CombatPower(org, opponent *domain.Organism, isNight bool) float64 {
	score := 0.0

	// --- Physical strength ---
	mass := org.Weight * org.Size
	if mass < 0 {
		mass = 0
	}
	score += physicalWeight * math.Pow(mass, physicalPower)

	// --- Speed ---
	if c, ok := speedCoefficients[org.Speed]; ok {
		score += c
	} else {
		score += 1.0
	}

	score += Experience(org)
	score += TypeAdvantage(org, opponent)
	score += CycleBonus(org, isNight)
	score += socialBonuses[org.SocialBehavior]

	// NaN fails the comparison too
	if !(score > minCombatPower) {
		return minCombatPower
	}
	return score
}

// Experience peaks at 35% of max_age and is clamped to [0.3, 1.0].
func Experience(org *domain.Organism) float64 {
	ideal := org.MaxAge * idealAgeShare
	raw := 1 - math.Abs(org.Age-ideal)/(ideal+experienceEps)
	if math.IsNaN(raw) {
		return experienceFloor
	}
	return math.Max(experienceFloor, math.Min(raw, experienceCeil))
}

// TypeAdvantage of attacker over defender
func TypeAdvantage(attacker, defender *domain.Organism) float64 {
	switch {
	case attacker.Type == domain.OrganismPredator && defender.Type == domain.OrganismHerbivore:
		return 2.0
	case attacker.Type == domain.OrganismPredator && defender.Type == domain.OrganismOmnivore:
		return 1.0
	case attacker.Type == domain.OrganismOmnivore && defender.Type == domain.OrganismHerbivore:
		return 0.7
	case attacker.Type == domain.OrganismHerbivore && defender.Type == domain.OrganismPredator:
		return -1.5
	case attacker.Type == domain.OrganismHerbivore && defender.Type == domain.OrganismOmnivore:
		return -0.7
	case attacker.Type == domain.OrganismPollinator:
		return -2.0
	}
	return 0.0
}

// CycleBonus rewards fighting inside the organism's own activity window.
func CycleBonus(org *domain.Organism, isNight bool) float64 {
	switch org.ActivityCycle {
	case domain.CycleNocturnal:
		if isNight {
			return 1.0
		}
		return -0.5
	case domain.CycleDiurnal:
		if !isNight {
			return 1.0
		}
		return -0.5
	case domain.CycleCrepuscular:
		return 0.4
	}
	return 0.0
}

// HitChance is the attacker's share of the combined combat power,
// clamped to [0.05, 0.95].
func HitChance(attacker, defender *domain.Organism, isNight bool) float64 {
	atk := CombatPower(attacker, defender, isNight)
	dfd := CombatPower(defender, attacker, isNight)

	chance := atk / (atk + dfd)
	return math.Max(MinHitChance, math.Min(chance, MaxHitChance))
}

// RollHit draws once against chance.
func RollHit(rng Rand, chance float64) bool {
	return rng.Float64() < chance
}
