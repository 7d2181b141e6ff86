package iec62380

import (
	"math"

	"github.com/reliastack/relia-engine/internal/models"
)

// DefaultLambda3 is the package characteristic value used when the tabular
// source does not supply one.
const DefaultLambda3 = 1.3

// icOverstressBaseline is the fixed electrical overstress term of the IC
// chapter.
const icOverstressBaseline = 40

// ICParams carries the integrated-circuit model inputs.
type ICParams struct {
	Characteristic    string
	ConstructionYear  float64
	JunctionTemp      float64
	SubstrateMaterial string
	ComponentMaterial string
	Lambda3           float64
}

// ICTemperatureFactor returns pi_t for an IC, choosing the bipolar or MOS
// activation energy from the die characteristic.
func ICTemperatureFactor(junctionTemp float64, bipolar bool) float64 {
	if bipolar {
		return arrhenius(icBipolarThermal, junctionTemp)
	}
	return arrhenius(icMOSThermal, junctionTemp)
}

// ICDieRate is the die term: the mortality-corrected transistor rate plus
// the fixed die rate, accelerated by temperature. Unknown characteristics
// contribute zero die constants.
func ICDieRate(p ICParams) float64 {
	die, _ := LookupDieCharacteristic(p.Characteristic)
	base := die.Lambda1*die.Transistors*math.Exp(-0.35*(p.ConstructionYear-1998)) + die.Lambda2
	return base * ICTemperatureFactor(p.JunctionTemp, die.Bipolar)
}

// ICPackageRate is the package term driven by thermal cycling and the
// substrate/component expansion mismatch.
func ICPackageRate(p ICParams, m models.Mission) float64 {
	mismatch := ThermalMismatchFactor(p.SubstrateMaterial, p.ComponentMaterial)
	return 2.75e-3 * mismatch * cycleStress(m.CyclesPerYear, m.CycleAmplitude) * p.Lambda3
}

// IntegratedCircuit returns the total IC failure rate in failures per hour.
func IntegratedCircuit(p ICParams, m models.Mission) float64 {
	if p.Lambda3 == 0 {
		p.Lambda3 = DefaultLambda3
	}
	return (ICDieRate(p) + ICPackageRate(p, m) + icOverstressBaseline) * FITScale
}
