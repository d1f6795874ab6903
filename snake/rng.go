package snake

import "math/rand"

// NewRand returns the deterministic source shared by everything random in a round.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
