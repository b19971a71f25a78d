package game

import "math/rand"

// rng returns a fresh source for the match's next random operation and
// bumps the use counter. Persisting Seed and RNGUses is enough to replay
// every shuffle and coin flip a match ever made.
func (m *MatchState) rng() *rand.Rand {
	r := rand.New(rand.NewSource(m.Seed + int64(m.RNGUses)))
	m.RNGUses++
	return r
}
