package storage

import (
	"bytes"
	"context"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"testing"
	"time"
)

func sampleRecord() engine.SimulationRecord {
	return engine.SimulationRecord{
		ID:          "sim-1",
		EcosystemID: "eco-1",
		Seed:        42,
		Ticks:       3,
		CreatedAt:   time.UnixMilli(1_700_000_000_000).UTC(),
		Outcomes: []domain.Outcome{
			domain.Infof(domain.OutcomeInfo, "Wolf patrols its territory."),
			domain.Combat(domain.CombatRecord{
				Attacker: "Wolf", Defender: "Deer",
				HitChance: 61.54, DefendChance: 38.46, Hit: true, Damage: 12,
				Result: "Wolf: Hits Deer",
			}),
			domain.Infof(domain.OutcomeDeath, "Deer was killed."),
			domain.Infof(domain.OutcomeWater, "A new day begins in Valley: 120 water was added, 1120.00 available."),
		},
	}
}

func TestArchive_RoundTrip(t *testing.T) {
	rec := sampleRecord()

	blob, err := encodeArchive(rec)
	if err != nil {
		t.Fatalf("encodeArchive failed: %v", err)
	}
	got, err := decodeArchive(blob)
	if err != nil {
		t.Fatalf("decodeArchive failed: %v", err)
	}

	if got.Seed != rec.Seed || got.Ticks != rec.Ticks || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Header mismatch: %+v", got)
	}
	if len(got.Outcomes) != len(rec.Outcomes) {
		t.Fatalf("Expected %d outcomes, got %d", len(rec.Outcomes), len(got.Outcomes))
	}
	for i := range rec.Outcomes {
		if got.Outcomes[i].Type != rec.Outcomes[i].Type || got.Outcomes[i].Text != rec.Outcomes[i].Text {
			t.Errorf("Outcome %d mismatch: %+v", i, got.Outcomes[i])
		}
	}
	combat := got.Outcomes[1].Combat
	if combat == nil || combat.HitChance != 61.54 || !combat.Hit || combat.Damage != 12 {
		t.Errorf("Combat record was not preserved: %+v", combat)
	}
	if got.Outcomes[0].Combat != nil {
		t.Error("Non-combat outcome must not carry a combat record")
	}
}

func TestArchive_RejectsGarbage(t *testing.T) {
	if _, err := decodeArchive([]byte("not an archive")); err == nil {
		t.Error("Expected an error for a non-zstd blob")
	}

	// Valid stream with a wrong magic
	var buf bytes.Buffer
	if err := writeBinary(&buf, sampleRecord()); err != nil {
		t.Fatalf("writeBinary failed: %v", err)
	}
	raw := buf.Bytes()
	copy(raw, "XXXX")
	if _, err := readBinary(bytes.NewReader(raw)); err == nil {
		t.Error("Expected an error for a bad magic header")
	}
}

func TestStore_ArchiveSimulation(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo archivingRepository) {
		ctx := context.Background()
		seedStore(t, repo)

		first := sampleRecord()
		second := sampleRecord()
		second.ID = "sim-2"
		second.Seed = 7
		second.CreatedAt = first.CreatedAt.Add(time.Second)

		for _, rec := range []engine.SimulationRecord{first, second} {
			if err := repo.ArchiveSimulation(ctx, rec); err != nil {
				t.Fatalf("ArchiveSimulation failed: %v", err)
			}
		}

		list, err := repo.Simulations(ctx, "eco-1")
		if err != nil {
			t.Fatalf("Simulations failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 archived simulations, got %d", len(list))
		}
		if list[0].ID != "sim-1" || list[1].ID != "sim-2" || list[1].Seed != 7 {
			t.Errorf("Unexpected archive order or content: %+v", list)
		}
		if list[0].EcosystemID != "eco-1" || len(list[0].Outcomes) != 4 {
			t.Errorf("Archived record incomplete: %+v", list[0])
		}

		if err := repo.DeleteEcosystem(ctx, "eco-1"); err != nil {
			t.Fatalf("DeleteEcosystem failed: %v", err)
		}
		list, _ = repo.Simulations(ctx, "eco-1")
		if len(list) != 0 {
			t.Errorf("Expected archive to be dropped with its ecosystem, got %d", len(list))
		}
	})
}
