// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"
)

// MaxConcurrency caps the number of products processed at once
const MaxConcurrency = 50

// OptimalConcurrency picks a worker count for I/O bound scraping from the CPU count
func OptimalConcurrency() int {
	numCPU := runtime.NumCPU()

	// Scraping is I/O bound, use 3x CPU count
	optimal := numCPU * 3

	if optimal > MaxConcurrency {
		optimal = MaxConcurrency
	}
	return optimal
}

// Resolve turns a user supplied concurrency into a worker count.
// Zero or less auto-tunes, anything above MaxConcurrency is clamped.
func Resolve(concurrency int) int {
	if concurrency <= 0 {
		return OptimalConcurrency()
	}
	if concurrency > MaxConcurrency {
		return MaxConcurrency
	}
	return concurrency
}
