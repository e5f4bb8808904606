// Package testutil provides fixtures for tests and benchmarks of tskit and
// its subpackages.
//
// # Random Numbers
//
//	rng := testutil.NewRNG(seed)
//
// # Fixtures
//
//	tables := testutil.TwoTrees(t)               // hand-built, two trees
//	tables := testutil.WrightFisher(t, rng, cfg) // simulated, simplified
package testutil
