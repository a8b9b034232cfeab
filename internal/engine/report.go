package engine

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/pkg/api"
)

// SimulationResult is what one simulate call produced.
type SimulationResult struct {
	EcosystemID string
	Seed        int64
	Ticks       int
	Outcomes    []domain.Outcome

	// Clock after the last tick
	Cycle          domain.ActivityCycle
	Day            int
	Year           int
	WaterAvailable float64

	Organisms int
	Plants    int
}

func newSimulationResult(eco *domain.Ecosystem, seed int64, ticks int, outcomes []domain.Outcome) *SimulationResult {
	return &SimulationResult{
		EcosystemID:    eco.ID,
		Seed:           seed,
		Ticks:          ticks,
		Outcomes:       outcomes,
		Cycle:          eco.Cycle,
		Day:            eco.Day,
		Year:           eco.Year,
		WaterAvailable: eco.WaterAvailable,
		Organisms:      len(eco.Organisms),
		Plants:         len(eco.Plants),
	}
}

// Response converts the result into its wire form.
func (r *SimulationResult) Response() *api.SimulationResponse {
	return &api.SimulationResponse{
		EcosystemID: r.EcosystemID,
		Seed:        r.Seed,
		Ticks:       r.Ticks,
		Clock:       r.clock(),
		Logs:        LogEntries(r.Outcomes),
	}
}

// Report builds the message pushed to WebSocket subscribers.
func (r *SimulationResult) Report() api.TickReport {
	return api.TickReport{
		Type:        "TICK",
		EcosystemID: r.EcosystemID,
		Ticks:       r.Ticks,
		Clock:       r.clock(),
		Organisms:   r.Organisms,
		Plants:      r.Plants,
		Logs:        LogEntries(r.Outcomes),
	}
}

func (r *SimulationResult) clock() api.ClockView {
	return api.ClockView{
		Cycle:          string(r.Cycle),
		Day:            r.Day,
		Year:           r.Year,
		WaterAvailable: r.WaterAvailable,
	}
}

// LogEntries converts outcome records into log entries numbered from 1.
func LogEntries(outcomes []domain.Outcome) []api.LogEntry {
	logs := make([]api.LogEntry, 0, len(outcomes))
	for i, o := range outcomes {
		entry := api.LogEntry{Seq: i + 1, Text: o.Text, Type: string(o.Type)}
		if c := o.Combat; c != nil {
			entry.Combat = &api.CombatView{
				Attacker:     c.Attacker,
				Defender:     c.Defender,
				HitChance:    c.HitChance,
				DefendChance: c.DefendChance,
				Hit:          c.Hit,
				Result:       c.Result,
			}
		}
		logs = append(logs, entry)
	}
	return logs
}

// View converts a task into its wire form.
func (t Task) View() api.TaskView {
	v := api.TaskView{
		Token:       t.Token,
		EcosystemID: t.EcosystemID,
		Ticks:       t.Ticks,
		Status:      string(t.Status),
		Error:       t.Err,
		CreatedAt:   t.CreatedAt,
	}
	if !t.FinishedAt.IsZero() {
		finished := t.FinishedAt
		v.FinishedAt = &finished
	}
	if t.Result != nil {
		v.Result = t.Result.Response()
	}
	return v
}

// View converts an archived batch into its wire form.
func (r SimulationRecord) View() api.SimulationView {
	return api.SimulationView{
		ID:          r.ID,
		EcosystemID: r.EcosystemID,
		Seed:        r.Seed,
		Ticks:       r.Ticks,
		CreatedAt:   r.CreatedAt,
		Logs:        LogEntries(r.Outcomes),
	}
}
