package systems

// Rand is the injectable random source used by every primitive.
// *math/rand.Rand satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// randAmount is randInt as a float, for vitals.
func randAmount(rng Rand, lo, hi int) float64 {
	return float64(randInt(rng, lo, hi))
}

// pick returns a uniform index into a collection of length n (n > 0).
func pick(rng Rand, n int) int {
	return rng.Intn(n)
}
