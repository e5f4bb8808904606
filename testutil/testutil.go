package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [lo,hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Poisson returns a Poisson distributed count with the given mean, using
// Knuth's multiplication method. It is meant for small means.
func (r *RNG) Poisson(mean float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mean <= 0 {
		return 0
	}
	limit, p, k := math.Exp(-mean), 1.0, 0
	for {
		p *= r.rand.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// Pair returns two distinct numbers in [0,n). n must be at least 2.
func (r *RNG) Pair(n int) (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.rand.Intn(n)
	b := r.rand.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}
