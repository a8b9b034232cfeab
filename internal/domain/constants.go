package domain

// Vital limits
const (
	DefaultHealth = 100.0
	LethalThirst  = 100.0
	LethalHunger  = 100.0
)

// Random ranges of the interaction primitives (inclusive bounds)
const (
	RestHealMin, RestHealMax = 10, 30

	DrinkMin, DrinkMax = 5, 20

	HuntDamageMin, HuntDamageMax = 5, 40
	KillHungerMin, KillHungerMax = 10, 30
	KillHealthMin, KillHealthMax = 5, 25

	GrazeHungerMin, GrazeHungerMax = 5, 20

	NectarMin, NectarMax = 5, 20

	ShortfallPenaltyMin, ShortfallPenaltyMax = 5, 15
)

// Calendar
const (
	DaysPerYear = 3
	AgePerYear  = 1.0
)
