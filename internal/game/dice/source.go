package dice

import (
	"crypto/rand"
	"math/big"
)

// float64Denom is the number of mantissa values used to build a uniform
// float64 in [0, 1): 2^53 distinct values.
const float64Denom = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: all values produced are uniformly distributed in the contracted
// ranges. cryptoSource is not seedable; use NewSeededSource for replayable
// battles.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Intn is in [0, n); every value
// returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0, 1).
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(float64Denom))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64Denom
}

// Seed returns a random int64 suitable for seeding a replayable Source.
// Battle records store this seed so a completed battle can be re-simulated.
func Seed() int64 {
	val, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 63))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return val.Int64()
}
