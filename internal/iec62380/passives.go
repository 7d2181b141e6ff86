package iec62380

import (
	"math"

	"github.com/reliastack/relia-engine/internal/models"
)

// Dielectric selects the capacitor chapter.
type Dielectric string

const (
	DielectricCeramic  Dielectric = "ceramic"
	DielectricTantalum Dielectric = "tantalum"
)

// CapacitorParams carries the capacitor model inputs.
type CapacitorParams struct {
	Dielectric  Dielectric
	AmbientTemp float64
}

// CapacitorTemperatureFactor returns pi_t for capacitors; unknown
// dielectrics yield 0.
func CapacitorTemperatureFactor(ambientTemp float64, d Dielectric) float64 {
	switch d {
	case DielectricCeramic:
		return arrhenius(ceramicCapThermal, ambientTemp)
	case DielectricTantalum:
		return arrhenius(tantalumCapThermal, ambientTemp)
	}
	return 0
}

// Capacitor returns the total capacitor failure rate in failures per hour.
// Unknown dielectrics yield 0.
func Capacitor(p CapacitorParams, m models.Mission) float64 {
	thermal := CapacitorTemperatureFactor(p.AmbientTemp, p.Dielectric)
	cycling := DielectricCyclingFactor(m.CyclesPerYear) * math.Pow(m.CycleAmplitude, 0.68)
	switch p.Dielectric {
	case DielectricCeramic:
		return 0.15 * (thermal + 3.3e-3*cycling) * FITScale
	case DielectricTantalum:
		return 0.4 * (thermal + 3.8e-3*cycling) * FITScale
	}
	return 0
}

// ResistorParams carries the resistor model inputs. RatedPower must be
// positive; the dispatcher rejects records that cannot satisfy that.
type ResistorParams struct {
	AmbientTemp    float64
	OperatingPower float64
	RatedPower     float64
}

// ResistorTemperatureFactor returns pi_t at the self-heated resistor
// temperature Ta + 85 * (P_op / P_rated).
func ResistorTemperatureFactor(p ResistorParams) float64 {
	tr := p.AmbientTemp + 85*(p.OperatingPower/p.RatedPower)
	return arrhenius(passiveThermal, tr)
}

// Resistor returns the total resistor failure rate in failures per hour,
// or 0 when the rated power is not positive.
func Resistor(p ResistorParams, m models.Mission) float64 {
	if p.RatedPower <= 0 {
		return 0
	}
	return 0.1 * (ResistorTemperatureFactor(p) + 1.4e-3*cycleStress(m.CyclesPerYear, m.CycleAmplitude)) * FITScale
}

// InductorParams carries the wound-component model inputs. SurfaceArea is
// the radiating surface in dm².
type InductorParams struct {
	Kind        string
	Subtype     string
	AmbientTemp float64
	PowerLoss   float64
	SurfaceArea float64
}

// InductorRadiatingTemp is the self-heated winding temperature
// Ta + 8.2 * (P_loss / S).
func InductorRadiatingTemp(p InductorParams) float64 {
	return p.AmbientTemp + 8.2*(p.PowerLoss/p.SurfaceArea)
}

// Inductor returns the total inductor/transformer failure rate in failures
// per hour, or 0 when the radiating surface is not positive.
func Inductor(p InductorParams, m models.Mission) float64 {
	if p.SurfaceArea <= 0 {
		return 0
	}
	thermal := arrhenius(passiveThermal, InductorRadiatingTemp(p))
	return InductorBaseRate(p.Kind, p.Subtype) * (thermal + 7e-3*cycleStress(m.CyclesPerYear, m.CycleAmplitude)) * FITScale
}
