package iec62380

import "math"

// ReliabilityFromFailureRate is the exponential survival function
// R = exp(-lambda * t) for a mission time t in hours.
func ReliabilityFromFailureRate(lambda, hours float64) float64 {
	return math.Exp(-lambda * hours)
}

// SeriesReliability combines reliabilities of elements that must all
// survive. The empty combination is 1.
func SeriesReliability(rs []float64) float64 {
	r := 1.0
	for _, v := range rs {
		r *= v
	}
	return r
}

// ParallelReliability combines reliabilities of redundant elements of which
// at least one must survive. The empty combination is 0.
func ParallelReliability(rs []float64) float64 {
	fail := 1.0
	for _, v := range rs {
		fail *= 1 - v
	}
	return 1 - fail
}
