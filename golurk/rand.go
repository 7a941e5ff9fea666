package golurk

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

func CreateRandomStateSeed() *rand.PCG {
	var randBytes [16]byte
	_, err := cryptoRand.Read(randBytes[:])
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}

	return rand.NewPCG(binary.LittleEndian.Uint64(randBytes[0:8]), binary.LittleEndian.Uint64(randBytes[8:]))
}

func CreateRNG(source rand.Source) *rand.Rand {
	return rand.New(source)
}

// roll succeeds with the given probability.
// Every roll in the engine goes through Float64 so fixed test sources behave predictably.
func roll(rng *rand.Rand, chance float64) bool {
	if chance >= 1 {
		return true
	}
	if chance <= 0 {
		return false
	}

	return rng.Float64() < chance
}

// rollPercent succeeds with chance percent, where 0 means the effect always happens
func rollPercent(rng *rand.Rand, chance int) bool {
	if chance == 0 {
		chance = 100
	}

	return roll(rng, float64(chance)/100)
}

// rollRange returns an integer in [low, high]
func rollRange(rng *rand.Rand, low int, high int) int {
	if high <= low {
		return low
	}

	value := low + int(rng.Float64()*float64(high-low+1))
	return min(value, high)
}
