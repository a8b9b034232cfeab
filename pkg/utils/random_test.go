package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Fatal("Expected unique identifiers")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("Expected a valid uuid, got %q: %v", a, err)
	}
}

func TestSeedFromString(t *testing.T) {
	if SeedFromString("spring") != SeedFromString("spring") {
		t.Error("Seed must be stable for the same label")
	}
	if SeedFromString("spring") == SeedFromString("autumn") {
		t.Error("Different labels should give different seeds")
	}
	if SeedFromString("anything") < 0 {
		t.Error("Seed must be non-negative")
	}
}
