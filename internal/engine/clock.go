package engine

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Shuffler permutes n elements through swap, with the same contract as rand.Shuffle.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// RandomShuffler draws a uniform permutation from the global source.
type RandomShuffler struct{}

func (RandomShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// ShufflerFunc adapts a function to Shuffler.
type ShufflerFunc func(n int, swap func(i, j int))

func (f ShufflerFunc) Shuffle(n int, swap func(i, j int)) { f(n, swap) }
