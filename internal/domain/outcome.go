package domain

import "fmt"

// OutcomeType - category of an outcome record (mirrors the log types of the server)
type OutcomeType string

const (
	OutcomeInfo   OutcomeType = "INFO"
	OutcomeCombat OutcomeType = "COMBAT"
	OutcomeFood   OutcomeType = "FOOD"
	OutcomeDeath  OutcomeType = "DEATH"
	OutcomeBirth  OutcomeType = "BIRTH"
	OutcomeWater  OutcomeType = "WATER"
)

// CombatRecord describes one exchange of a hunt.
// Chances are percentages rounded to two decimals.
type CombatRecord struct {
	Attacker     string  `json:"attacker"`
	Defender     string  `json:"defender"`
	HitChance    float64 `json:"hit_chance"`
	DefendChance float64 `json:"defend_chance"`
	Hit          bool    `json:"hit"`
	Damage       float64 `json:"damage,omitempty"`
	Result       string  `json:"result"`
}

// Outcome is one record produced by a tick.
// Combat is set only for OutcomeCombat.
type Outcome struct {
	Type   OutcomeType   `json:"type"`
	Text   string        `json:"text"`
	Combat *CombatRecord `json:"combat,omitempty"`
}

func (o Outcome) String() string {
	return o.Text
}

// Infof builds a descriptive outcome of the given type.
func Infof(t OutcomeType, format string, args ...any) Outcome {
	return Outcome{Type: t, Text: fmt.Sprintf(format, args...)}
}

// Combat builds a combat outcome; the text mirrors the record's result.
func Combat(rec CombatRecord) Outcome {
	return Outcome{Type: OutcomeCombat, Text: rec.Result, Combat: &rec}
}

// DeathMessage formats the cause-specific death text for a member.
func DeathMessage(name string, cause DeathCause) string {
	switch cause {
	case DeathWounds:
		return fmt.Sprintf("%s died of its wounds.", name)
	case DeathThirst:
		return fmt.Sprintf("%s died of thirst.", name)
	case DeathHunger:
		return fmt.Sprintf("%s succumbed to hunger.", name)
	case DeathOldAge:
		return fmt.Sprintf("%s died of old age.", name)
	case DeathNoBiomass:
		return fmt.Sprintf("%s has no biomass left and withered away.", name)
	case DeathKilled:
		return fmt.Sprintf("%s was killed.", name)
	}
	return fmt.Sprintf("%s died.", name)
}
