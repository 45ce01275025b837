// Package randstream derives deterministic, independent per-resource-unit,
// per-year random streams from a single global seed (spec.md §5/§9's
// reproducibility requirement). No teacher analogue exists (the teacher is
// deterministic), so this is authored fresh in the teacher's idiom: small
// pure functions, table-driven tests.
package randstream

import "math/rand"

// For returns a *rand.Rand seeded deterministically from globalSeed mixed
// with ruID and year, so that re-running the same year for the same
// resource unit (e.g. after a snapshot reload) reproduces the same
// stochastic draws regardless of goroutine scheduling order.
func For(globalSeed int64, ruID, year int) *rand.Rand {
	return rand.New(rand.NewSource(mix(globalSeed, int64(ruID), int64(year))))
}

// mix combines three 64-bit values into one seed using the SplitMix64
// finalizer, giving good avalanche behavior so nearby (ruID, year) pairs
// don't produce correlated streams.
func mix(a, b, c int64) int64 {
	x := uint64(a)
	x ^= uint64(b) + 0x9e3779b97f4a7c15 + (x << 6) + (x >> 2)
	x ^= uint64(c) + 0x9e3779b97f4a7c15 + (x << 6) + (x >> 2)
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)
	return int64(x)
}
