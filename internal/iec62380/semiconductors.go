package iec62380

import (
	"math"

	"github.com/reliastack/relia-engine/internal/models"
)

// Transistor families recognised by the stress and temperature factors.
const (
	FamilyBipolar = "Bipolar"
	FamilyMOS     = "MOS"
)

// thyristorDieFactor multiplies the die term for thyristor-function diodes.
const thyristorDieFactor = 10

// DiodeParams carries the diode model inputs. Power selects the power-diode
// chapter over the low-power one.
type DiodeParams struct {
	Function      string
	Power         bool
	JunctionTemp  float64
	PackageLambda float64
}

// DiodeTemperatureFactor returns pi_t for diodes.
func DiodeTemperatureFactor(junctionTemp float64) float64 {
	return arrhenius(diodeThermal, junctionTemp)
}

// DiodeDieRate is the function/power-class base rate accelerated by
// temperature, with the thyristor usage factor applied.
func DiodeDieRate(p DiodeParams) float64 {
	u := 1.0
	if p.Function == "thyristors" {
		u = thyristorDieFactor
	}
	return u * DiodeBaseRate(p.Function, p.Power) * DiodeTemperatureFactor(p.JunctionTemp)
}

// Diode returns the total diode failure rate in failures per hour.
func Diode(p DiodeParams, m models.Mission) float64 {
	pkg := 2.75e-3 * cycleStress(m.CyclesPerYear, m.CycleAmplitude) * p.PackageLambda
	overstress := m.OverstressFactor * m.OverstressBaseline
	return (DiodeDieRate(p) + pkg + overstress) * FITScale
}

// TransistorParams carries the transistor model inputs. Voltage maxima
// default to 0 and minima to 1 when the rating is unspecified, so an absent
// stress contributes a neutral ratio.
type TransistorParams struct {
	Family        string
	Power         bool
	JunctionTemp  float64
	PackageLambda float64
	VceMax        float64
	VceMin        float64
	VdsMax        float64
	VdsMin        float64
	VgsMax        float64
	VgsMin        float64
}

// TransistorTemperatureFactor returns pi_t for transistors; unknown
// families yield 0.
func TransistorTemperatureFactor(junctionTemp float64, family string) float64 {
	switch family {
	case FamilyBipolar:
		return arrhenius(bipolarTransistorThermal, junctionTemp)
	case FamilyMOS:
		return arrhenius(mosTransistorThermal, junctionTemp)
	}
	return 0
}

// TransistorBaseRate is 0.75 for low-power devices and 2 otherwise.
func TransistorBaseRate(power bool) float64 {
	if power {
		return 2
	}
	return 0.75
}

// TransistorStressFactor is pi_s: the voltage stress exponential for
// bipolar devices, the product of the VDS and VGS terms for MOS. Unknown
// families yield 0.
func TransistorStressFactor(p TransistorParams) float64 {
	switch p.Family {
	case FamilyBipolar:
		return 0.22 * math.Exp(1.7*(p.VceMax/nonZero(p.VceMin)))
	case FamilyMOS:
		ds := 0.22 * math.Exp(1.7*(p.VdsMax/nonZero(p.VdsMin)))
		gs := 0.22 * math.Exp(3*(p.VgsMax/nonZero(p.VgsMin)))
		return ds * gs
	}
	return 0
}

// Transistor returns the total transistor failure rate in failures per hour.
func Transistor(p TransistorParams, m models.Mission) float64 {
	die := TransistorStressFactor(p) * TransistorBaseRate(p.Power) * TransistorTemperatureFactor(p.JunctionTemp, p.Family)
	pkg := 2.75e-3 * cycleStress(m.CyclesPerYear, m.CycleAmplitude) * p.PackageLambda
	overstress := m.OverstressFactor * m.OverstressBaseline
	return (die + pkg + overstress) * FITScale
}

// nonZero guards rated-minimum denominators; an unspecified minimum is 1.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
