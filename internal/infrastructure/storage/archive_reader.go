package storage

import (
	"bytes"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// decodeArchive is the inverse of encodeArchive. ID and EcosystemID are not
// part of the blob; the caller fills them from the row.
func decodeArchive(blob []byte) (engine.SimulationRecord, error) {
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return engine.SimulationRecord{}, err
	}
	defer dec.Close()

	return readBinary(dec)
}

func readBinary(r io.Reader) (engine.SimulationRecord, error) {
	// 1. Header
	var header ArchiveHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return engine.SimulationRecord{}, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return engine.SimulationRecord{}, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return engine.SimulationRecord{}, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	rec := engine.SimulationRecord{
		Seed:      header.Seed,
		Ticks:     int(header.Ticks),
		CreatedAt: time.UnixMilli(header.Timestamp).UTC(),
		Outcomes:  make([]domain.Outcome, header.OutcomeCount),
	}

	// 2. Outcomes
	types := make(map[uint8]domain.OutcomeType, len(outcomeCodes))
	for t, code := range outcomeCodes {
		types[code] = t
	}

	for i := range rec.Outcomes {
		var oh OutcomeHeader
		if err := binary.Read(r, binary.LittleEndian, &oh); err != nil {
			return engine.SimulationRecord{}, fmt.Errorf("outcome %d: %w", i, err)
		}

		text := make([]byte, oh.TextLen)
		if _, err := io.ReadFull(r, text); err != nil {
			return engine.SimulationRecord{}, err
		}
		o := domain.Outcome{Type: types[oh.Type], Text: string(text)}

		if oh.CombatLen > 0 {
			raw := make([]byte, oh.CombatLen)
			if _, err := io.ReadFull(r, raw); err != nil {
				return engine.SimulationRecord{}, err
			}
			o.Combat = &domain.CombatRecord{}
			if err := json.Unmarshal(raw, o.Combat); err != nil {
				return engine.SimulationRecord{}, fmt.Errorf("outcome %d combat: %w", i, err)
			}
		}

		rec.Outcomes[i] = o
	}

	return rec, nil
}
