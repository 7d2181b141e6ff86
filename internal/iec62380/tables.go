package iec62380

import "math"

// DieCharacteristic holds the per-characteristic die constants of the IC
// chapter: the per-transistor base rate, the fixed die rate, the transistor
// count and whether the technology follows the bipolar temperature law.
type DieCharacteristic struct {
	Lambda1     float64
	Lambda2     float64
	Transistors float64
	Bipolar     bool
}

// dieCharacteristics is keyed by the standard's characteristic strings
// (process/technology plus transistor count).
var dieCharacteristics = map[string]DieCharacteristic{
	"MOS Standard, Digital circuits, 20000 transistors":                        {Lambda1: 2.7e-4, Lambda2: 20, Transistors: 20000},
	"MOS Standard, Digital circuits, 810 transistors":                          {Lambda1: 2.7e-4, Lambda2: 20, Transistors: 810},
	"MOS Standard, Digital circuits, 2 gates":                                  {Lambda1: 3.4e-6, Lambda2: 1.7, Transistors: 8},
	"BICMOS, STAM, Static Read Access Memory, 8-bit":                           {Lambda1: 6.8e-7, Lambda2: 8.8, Transistors: 32},
	"MOS Asic, Gate Arrays, 12 gates":                                          {Lambda1: 2.0e-5, Lambda2: 10, Transistors: 48},
	"Bipolar, Linear/Digital circuit low voltage, 15 transistors":              {Lambda1: 2.7e-4, Lambda2: 20, Transistors: 15, Bipolar: true},
	"BICMOS, linear/digital circuits, high voltage, 500 transistors":           {Lambda1: 2.7e-3, Lambda2: 20, Transistors: 500, Bipolar: true},
	"Bipolar circuits, linear/digital circuits, high voltage, 5000 transistors": {Lambda1: 2.7e-2, Lambda2: 20, Transistors: 5000, Bipolar: true},
	"BICMOS, linear/digital circuits, high voltage, 20 transistors":            {Lambda1: 2.7e-3, Lambda2: 20, Transistors: 20, Bipolar: true},
	"BICMOS, linear/digital circuits, low voltage, 20 transistors":             {Lambda1: 2.7e-4, Lambda2: 20, Transistors: 20},
}

// LookupDieCharacteristic resolves a characteristic string. Unknown strings
// return the zero value and false; callers treat that as a zero die term.
func LookupDieCharacteristic(name string) (DieCharacteristic, bool) {
	c, ok := dieCharacteristics[name]
	return c, ok
}

// packageLambdas maps package type strings to their base rate. Packages not
// in the table use DefaultPackageLambda.
var packageLambdas = map[string]float64{
	"D2PACK, 3 pins":  5.7,
	"SOT-23, 3 pins":  1.0,
	"SOD-123, 3 pins": 1.0,
	"TO-220, 3 pins":  5.7,
	"DPACK, 6 pins":   5.1,
	"TO-247, 3 pins":  6.9,
}

// DefaultPackageLambda is used when the package type is absent or unknown.
const DefaultPackageLambda = 1.0

// PackageLambda returns the base rate for a package type string.
func PackageLambda(packageType string) float64 {
	if v, ok := packageLambdas[packageType]; ok {
		return v
	}
	return DefaultPackageLambda
}

// diodeBaseRate holds the low-power and power base rates of one diode
// function.
type diodeBaseRate struct {
	LowPower float64
	Power    float64
}

var diodeBaseRates = map[string]diodeBaseRate{
	"signal":     {LowPower: 0.07, Power: 0.07},
	"recovery":   {LowPower: 0.1, Power: 0.7},
	"zener":      {LowPower: 0.4, Power: 0.7},
	"transient":  {LowPower: 2.3, Power: 0.7},
	"trigger":    {LowPower: 2, Power: 3},
	"gallium":    {LowPower: 0.3, Power: 1},
	"thyristors": {LowPower: 1, Power: 3},
}

// DiodeBaseRate returns the base rate for a diode function at the given
// power class. Unknown functions yield 0 so the component contributes a die
// term of zero instead of failing the batch.
func DiodeBaseRate(function string, power bool) float64 {
	r, ok := diodeBaseRates[function]
	if !ok {
		return 0
	}
	if power {
		return r.Power
	}
	return r.LowPower
}

// inductorBaseRates is keyed by kind ("inductor" or "transformer") then
// subtype.
var inductorBaseRates = map[string]map[string]float64{
	"inductor": {
		"low fixed":      0.2,
		"low variable":   0.4,
		"Power Inductor": 0.6,
	},
	"transformer": {
		"signal": 1.5,
		"power":  3,
	},
}

// InductorBaseRate returns the wound-component base rate, 0 for unknown
// kind/subtype pairs.
func InductorBaseRate(kind, subtype string) float64 {
	return inductorBaseRates[kind][subtype]
}

// materialExpansions maps board/component material names to their thermal
// expansion coefficients. Unknown materials contribute 0.
var materialExpansions = map[string]float64{
	"Epoxy": 16,
	"FR4":   21.5,
}

// MaterialExpansion returns the thermal expansion coefficient of a material.
func MaterialExpansion(name string) float64 {
	return materialExpansions[name]
}

// ThermalMismatchFactor is pi_alpha, derived from the substrate/component
// expansion coefficient difference.
func ThermalMismatchFactor(substrate, component string) float64 {
	diff := math.Abs(MaterialExpansion(substrate) - MaterialExpansion(component))
	return 0.06 * math.Pow(diff, 1.68)
}
