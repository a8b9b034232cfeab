package storage

import (
	"bytes"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `ECSM` // 4 bytes
	Version1    uint32 = 1
)

// ArchiveHeader is the fixed-size head of an archived simulation.
// binary.Write handles it in one call: only arrays and numbers.
type ArchiveHeader struct {
	Magic        [4]byte
	Version      uint32
	Seed         int64
	Timestamp    int64 // unix milliseconds
	Ticks        int32
	OutcomeCount int32
}

// OutcomeHeader precedes every outcome record.
type OutcomeHeader struct {
	Type      uint8
	TextLen   uint16
	CombatLen uint16 // JSON of the combat record, 0 for non-combat outcomes
}

var outcomeCodes = map[domain.OutcomeType]uint8{
	domain.OutcomeInfo:   1,
	domain.OutcomeCombat: 2,
	domain.OutcomeFood:   3,
	domain.OutcomeDeath:  4,
	domain.OutcomeBirth:  5,
	domain.OutcomeWater:  6,
}

// encodeArchive serializes the record and compresses it with zstd.
func encodeArchive(rec engine.SimulationRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if err := writeBinary(enc, rec); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flush archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBinary(w io.Writer, rec engine.SimulationRecord) error {
	// 1. Global header
	header := ArchiveHeader{
		Version:      Version1,
		Seed:         rec.Seed,
		Timestamp:    rec.CreatedAt.UnixMilli(),
		Ticks:        int32(rec.Ticks),
		OutcomeCount: int32(len(rec.Outcomes)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Outcomes
	for _, o := range rec.Outcomes {
		text := []byte(o.Text)
		if len(text) > 65535 {
			return fmt.Errorf("outcome text too long: %d", len(text))
		}

		var combat []byte
		if o.Combat != nil {
			var err error
			if combat, err = json.Marshal(o.Combat); err != nil {
				return err
			}
		}
		if len(combat) > 65535 {
			return fmt.Errorf("combat record too long: %d", len(combat))
		}

		oh := OutcomeHeader{
			Type:      outcomeCodes[o.Type],
			TextLen:   uint16(len(text)),
			CombatLen: uint16(len(combat)),
		}
		if err := binary.Write(w, binary.LittleEndian, &oh); err != nil {
			return err
		}
		if _, err := w.Write(text); err != nil {
			return err
		}
		if len(combat) > 0 {
			if _, err := w.Write(combat); err != nil {
				return err
			}
		}
	}

	return nil
}
