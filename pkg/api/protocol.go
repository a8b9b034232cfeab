package api

import "time"

// --- SERVER -> CLIENT ---

// TickReport is pushed to every WebSocket subscriber of an ecosystem after a
// simulation batch has been applied.
type TickReport struct {
	// Type is always "TICK" for now.
	Type string `json:"type"`

	EcosystemID string `json:"ecosystemId"`

	// Ticks is how many ticks the batch advanced.
	Ticks int `json:"ticks"`

	Clock ClockView `json:"clock"`

	Organisms int `json:"organisms"`
	Plants    int `json:"plants"`

	// Logs are the outcome records of the batch, in order.
	Logs []LogEntry `json:"logs,omitempty"`
}

// ClockView is the calendar state of an ecosystem.
type ClockView struct {
	Cycle          string  `json:"cycle"`
	Day            int     `json:"day"`
	Year           int     `json:"year"`
	WaterAvailable float64 `json:"waterAvailable"`
}

// LogEntry is one outcome record.
type LogEntry struct {
	Seq    int         `json:"seq"`
	Text   string      `json:"text"`
	Type   string      `json:"type"` // INFO, COMBAT, FOOD, DEATH, BIRTH, WATER
	Combat *CombatView `json:"combat,omitempty"`
}

// CombatView is the structured part of a COMBAT log entry.
// Chances are percentages.
type CombatView struct {
	Attacker     string  `json:"attacker"`
	Defender     string  `json:"defender"`
	HitChance    float64 `json:"hit_chance"`
	DefendChance float64 `json:"defend_chance"`
	Hit          bool    `json:"hit"`
	Result       string  `json:"result"`
}

// SimulationResponse answers a synchronous simulate request.
type SimulationResponse struct {
	EcosystemID string     `json:"ecosystemId"`
	Seed        int64      `json:"seed"`
	Ticks       int        `json:"ticks"`
	Clock       ClockView  `json:"clock"`
	Logs        []LogEntry `json:"logs"`
}

// TaskAccepted answers a simulate request that was dispatched in the background.
type TaskAccepted struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// TaskView is the polled state of a background simulation.
type TaskView struct {
	Token       string              `json:"token"`
	EcosystemID string              `json:"ecosystemId"`
	Ticks       int                 `json:"ticks"`
	Status      string              `json:"status"` // pending, running, finished, failed
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	FinishedAt  *time.Time          `json:"finishedAt,omitempty"`
	Result      *SimulationResponse `json:"result,omitempty"`
}

// EcosystemSummary describes an ecosystem without its members.
type EcosystemSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Environment string    `json:"environment,omitempty"`
	Status      string    `json:"simulationStatus"`
	Clock       ClockView `json:"clock"`
	Organisms   int       `json:"organisms"`
	Plants      int       `json:"plants"`

	MinWaterToAdd int `json:"minimumWaterToAdd"`
	MaxWaterToAdd int `json:"maxWaterToAdd"`
}

// SimulationView is one archived simulation batch.
type SimulationView struct {
	ID          string     `json:"id"`
	EcosystemID string     `json:"ecosystemId"`
	Seed        int64      `json:"seed"`
	Ticks       int        `json:"ticks"`
	CreatedAt   time.Time  `json:"createdAt"`
	Logs        []LogEntry `json:"logs"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// --- CLIENT -> SERVER ---

// CreateEcosystemRequest creates an empty ecosystem.
type CreateEcosystemRequest struct {
	Name           string  `json:"name"`
	Environment    string  `json:"environment,omitempty"`
	WaterAvailable float64 `json:"water_available"`
	MinWaterToAdd  int     `json:"minimum_water_to_add_per_simulation"`
	MaxWaterToAdd  int     `json:"max_water_to_add_per_simulation"`
}

// MemberRequest adds a member cloned from the named template.
type MemberRequest struct {
	Name string `json:"name"`
}

// LinkRequest relates two members of an ecosystem by species name
// (predator -> prey, or pollinator -> plant).
type LinkRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}
