package utils

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for ecosystems, members and tasks.
func GenerateID() string {
	return uuid.NewString()
}

// SeedFromString maps an arbitrary label onto a simulation seed, so a run can be
// replayed by name ("spring-test") instead of a raw number.
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}
