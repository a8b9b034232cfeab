package telemetry

import (
	"fmt"
	"io"

	"ecosystem-server/internal/domain"

	"github.com/gocarina/gocsv"
)

// CensusRow is one species line of a census export.
type CensusRow struct {
	EcosystemID string               `csv:"ecosystem_id"`
	Cycle       domain.ActivityCycle `csv:"cycle"`
	Day         int                  `csv:"day"`
	Year        int                  `csv:"year"`
	SpeciesStats
}

// OutcomeRow is one outcome record of an export. Combat columns are empty
// for other record types.
type OutcomeRow struct {
	Seq       int     `csv:"seq"`
	Type      string  `csv:"type"`
	Text      string  `csv:"text"`
	Attacker  string  `csv:"attacker"`
	Defender  string  `csv:"defender"`
	HitChance float64 `csv:"hit_chance"`
	Hit       bool    `csv:"hit"`
	Damage    float64 `csv:"damage"`
}

// Rows flattens the census into one row per species.
func (c Census) Rows() []CensusRow {
	rows := make([]CensusRow, 0, len(c.Species))
	for _, s := range c.Species {
		rows = append(rows, CensusRow{
			EcosystemID:  c.EcosystemID,
			Cycle:        c.Cycle,
			Day:          c.Day,
			Year:         c.Year,
			SpeciesStats: s,
		})
	}
	return rows
}

// WriteCensusCSV writes the census rows with a header line.
func WriteCensusCSV(w io.Writer, c Census) error {
	if err := gocsv.Marshal(c.Rows(), w); err != nil {
		return fmt.Errorf("writing census: %w", err)
	}
	return nil
}

// OutcomeRows numbers outcome records from 1.
func OutcomeRows(outcomes []domain.Outcome) []OutcomeRow {
	rows := make([]OutcomeRow, 0, len(outcomes))
	for i, o := range outcomes {
		row := OutcomeRow{Seq: i + 1, Type: string(o.Type), Text: o.Text}
		if c := o.Combat; c != nil {
			row.Attacker = c.Attacker
			row.Defender = c.Defender
			row.HitChance = c.HitChance
			row.Hit = c.Hit
			row.Damage = c.Damage
		}
		rows = append(rows, row)
	}
	return rows
}

func WriteOutcomesCSV(w io.Writer, outcomes []domain.Outcome) error {
	if err := gocsv.Marshal(OutcomeRows(outcomes), w); err != nil {
		return fmt.Errorf("writing outcomes: %w", err)
	}
	return nil
}
