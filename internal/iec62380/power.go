package iec62380

import "github.com/reliastack/relia-engine/internal/models"

// PrimaryBattery returns the constant primary-battery failure rate.
func PrimaryBattery() float64 {
	return 20 * FITScale
}

// Converter returns the DC converter failure rate; under10W selects the
// lower base rate.
func Converter(under10W bool, m models.Mission) float64 {
	base := 130.0
	if under10W {
		base = 100
	}
	return base * (1 + 3e-3*cycleStress(m.CyclesPerYear, m.CycleAmplitude)) * FITScale
}
