// Package iec62380 implements the empirical failure-rate models of the
// IEC 62380 reliability prediction standard as pure functions. All rates are
// failures per hour; raw model sums are scaled by FITScale before returning.
package iec62380

import "math"

// FITScale converts the standard's raw FIT-like sums to failures per hour.
const FITScale = 1e-9

// cyclingRegimeBoundary is the annual cycle count at which the cycling
// factor switches regimes. The boundary itself uses the low regime.
const cyclingRegimeBoundary = 8760

// CyclingFactor returns the thermal-cycling acceleration factor pi_n for an
// annual cycle count n. Shared by ICs, diodes, transistors, resistors,
// inductors and converters.
func CyclingFactor(n float64) float64 {
	if n <= cyclingRegimeBoundary {
		return math.Pow(n, 0.76)
	}
	return 1.7 * math.Pow(n, 0.6)
}

// DielectricCyclingFactor is the capacitor variant of the cycling factor.
// The standard's capacitor chapters keep the low-cycle power law for all n.
func DielectricCyclingFactor(n float64) float64 {
	return math.Pow(n, 0.76)
}

// arrheniusConstants holds the activation energy and reference temperature
// (Kelvin) of one temperature acceleration law.
type arrheniusConstants struct {
	Energy  float64
	RefTemp float64
}

// Per-class Arrhenius constants. The die chapters use 4640 for bipolar
// technologies and 3480 for MOS; the passive chapters use their dielectric
// energies against a 303 K reference.
var (
	icBipolarThermal         = arrheniusConstants{Energy: 4640, RefTemp: 328}
	icMOSThermal             = arrheniusConstants{Energy: 3480, RefTemp: 328}
	diodeThermal             = arrheniusConstants{Energy: 4640, RefTemp: 313}
	bipolarTransistorThermal = arrheniusConstants{Energy: 4640, RefTemp: 373}
	mosTransistorThermal     = arrheniusConstants{Energy: 3480, RefTemp: 373}
	ceramicCapThermal        = arrheniusConstants{Energy: 1160, RefTemp: 303}
	tantalumCapThermal       = arrheniusConstants{Energy: 1740, RefTemp: 303}
	passiveThermal           = arrheniusConstants{Energy: 1740, RefTemp: 303}
)

// arrhenius evaluates exp(E * (1/Tref - 1/(273 + t))) for a temperature t
// in degrees Celsius.
func arrhenius(c arrheniusConstants, tempC float64) float64 {
	return math.Exp(c.Energy * (1/c.RefTemp - 1/(273+tempC)))
}

// cycleStress is the pi_n * dT^0.68 product common to the package terms.
func cycleStress(cyclesPerYear, amplitude float64) float64 {
	return CyclingFactor(cyclesPerYear) * math.Pow(amplitude, 0.68)
}
