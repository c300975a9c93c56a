// Package hapticmath provides small generic numeric helpers; the phase-shift
// clamp uses Clamp.
package hapticmath

import (
	"math/rand"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

var (
	rng  *rand.Rand
	once sync.Once
	mu   sync.Mutex
)

func initRNG() {
	//nolint:gosec
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Max returns the largest of the given values.
func Max[T constraints.Ordered](s ...T) T {
	if len(s) == 0 {
		var zero T
		return zero
	}

	m := s[0]
	for _, v := range s {
		if m < v {
			m = v
		}
	}

	return m
}

// Min returns the smallest of the given values.
func Min[T constraints.Ordered](s ...T) T {
	if len(s) == 0 {
		var zero T
		return zero
	}

	m := s[0]
	for _, v := range s {
		if m > v {
			m = v
		}
	}

	return m
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

// Sum returns the sum of all values in s.
func Sum[T constraints.Integer | constraints.Float](s ...T) T {
	var sum T
	for _, v := range s {
		sum += v
	}

	return sum
}

// SumSlice returns the sum of all values in the slice.
// This is more efficient than Sum for large slices as it avoids variadic overhead.
func SumSlice[T constraints.Integer | constraints.Float](s []T) T {
	var sum T
	for _, v := range s {
		sum += v
	}

	return sum
}

// RandInt returns a random integer in the range [0, n).
// Returns 0 if n <= 0.
func RandInt(n int) int {
	once.Do(initRNG)

	if n <= 0 {
		return 0
	}

	mu.Lock()
	defer mu.Unlock()

	return rng.Intn(n)
}
