// Package dice provides the randomness abstraction for the colosseum battle
// engine. Core logic never touches a global generator; every draw goes through
// an injected Source so a battle run from a fixed seed reproduces the same
// sequence bit-for-bit.
package dice

// Source is the randomness provider for the battle engine.
//
// A Source must be owned or exclusively borrowed by a single battle for its
// entire duration; interleaving draws from two battles against one Source
// breaks seed reproducibility.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a uniform random float64 in [0, 1).
	Float64() float64
}

// RollD20 draws a uniform integer in [1, 20] from src.
//
// Precondition: src must be non-nil.
// Postcondition: 1 <= result <= 20.
func RollD20(src Source) int {
	return src.Intn(20) + 1
}
