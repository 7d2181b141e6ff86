package iec62380

import (
	"math"
	"testing"

	"github.com/reliastack/relia-engine/internal/models"
)

// 328 K junction makes the MOS IC temperature factor exactly 1.
const neutralICJunctionTemp = 55

func TestIntegratedCircuitClosedForm(t *testing.T) {
	m := models.DefaultMission()
	p := ICParams{
		Characteristic:    "MOS Standard, Digital circuits, 2 gates",
		ConstructionYear:  1998,
		JunctionTemp:      neutralICJunctionTemp,
		SubstrateMaterial: "Epoxy",
		ComponentMaterial: "FR4",
		Lambda3:           1.3,
	}

	die := ICDieRate(p)
	wantDie := 3.4e-6*8 + 1.7
	if !almostEqual(die, wantDie, 1e-9) {
		t.Fatalf("die term: got %v want %v", die, wantDie)
	}

	mismatch := 0.06 * math.Pow(21.5-16, 1.68)
	wantPkg := 2.75e-3 * mismatch * math.Pow(5256, 0.76) * math.Pow(3, 0.68) * 1.3
	if pkg := ICPackageRate(p, m); !almostEqual(pkg, wantPkg, 1e-9) {
		t.Fatalf("package term: got %v want %v", pkg, wantPkg)
	}

	want := (wantDie + wantPkg + 40) * 1e-9
	if got := IntegratedCircuit(p, m); !almostEqual(got, want, 1e-18) {
		t.Fatalf("total: got %v want %v", got, want)
	}
}

func TestIntegratedCircuitUnknownCharacteristic(t *testing.T) {
	m := models.DefaultMission()
	p := ICParams{Characteristic: "not in table", JunctionTemp: 40, Lambda3: 1.3}
	got := IntegratedCircuit(p, m)
	// Die constants fall back to zero; package + overstress terms remain.
	if got <= 0 || math.IsNaN(got) {
		t.Fatalf("expected finite positive rate, got %v", got)
	}
}

func TestDiodeRates(t *testing.T) {
	m := models.DefaultMission()
	p := DiodeParams{Function: "zener", Power: true, JunctionTemp: 40, PackageLambda: 5.7}

	die := DiodeDieRate(p)
	wantDie := 0.7 * math.Exp(4640*(1.0/313-1.0/313))
	if !almostEqual(die, wantDie, 1e-9) {
		t.Fatalf("die: got %v want %v", die, wantDie)
	}

	got := Diode(p, m)
	wantPkg := 2.75e-3 * math.Pow(5256, 0.76) * math.Pow(3, 0.68) * 5.7
	want := (wantDie + wantPkg + 1*40) * 1e-9
	if !almostEqual(got, want, 1e-18) {
		t.Fatalf("total: got %v want %v", got, want)
	}
}

func TestDiodeThyristorFactor(t *testing.T) {
	base := DiodeDieRate(DiodeParams{Function: "trigger", Power: true, JunctionTemp: 40})
	thy := DiodeDieRate(DiodeParams{Function: "thyristors", Power: true, JunctionTemp: 40})
	if !almostEqual(thy, 10*base, 1e-12) {
		t.Fatalf("thyristor die %v, trigger die %v: want 10x", thy, base)
	}
}

func TestDiodeUnknownFunction(t *testing.T) {
	if got := DiodeBaseRate("varactor", false); got != 0 {
		t.Fatalf("unknown function base rate: got %v want 0", got)
	}
}

func TestTransistorStressFactorNeutralDefaults(t *testing.T) {
	// Absent ratings map to max=0, min=1: the bipolar stress collapses to 0.22.
	p := TransistorParams{Family: FamilyBipolar, VceMax: 0, VceMin: 0}
	if got := TransistorStressFactor(p); !almostEqual(got, 0.22, 1e-12) {
		t.Fatalf("neutral bipolar stress: got %v want 0.22", got)
	}

	mos := TransistorParams{Family: FamilyMOS, VdsMax: 2, VdsMin: 2, VgsMax: 0, VgsMin: 0}
	want := 0.22 * math.Exp(1.7) * 0.22
	if got := TransistorStressFactor(mos); !almostEqual(got, want, 1e-9) {
		t.Fatalf("mos stress: got %v want %v", got, want)
	}

	if got := TransistorStressFactor(TransistorParams{Family: "JFET"}); got != 0 {
		t.Fatalf("unknown family stress: got %v want 0", got)
	}
}

func TestTransistorTotal(t *testing.T) {
	m := models.DefaultMission()
	p := TransistorParams{
		Family:        FamilyBipolar,
		Power:         false,
		JunctionTemp:  100, // 373 K, temperature factor 1
		PackageLambda: 1,
		VceMax:        0,
		VceMin:        1,
	}
	want := (0.22*0.75*1 + 2.75e-3*math.Pow(5256, 0.76)*math.Pow(3, 0.68)*1 + 40) * 1e-9
	if got := Transistor(p, m); !almostEqual(got, want, 1e-18) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCapacitorRates(t *testing.T) {
	m := models.DefaultMission()
	// 30 C ambient is the 303 K reference, so the thermal factor is 1.
	cycling := math.Pow(5256, 0.76) * math.Pow(3, 0.68)

	ceramic := Capacitor(CapacitorParams{Dielectric: DielectricCeramic, AmbientTemp: 30}, m)
	if want := 0.15 * (1 + 3.3e-3*cycling) * 1e-9; !almostEqual(ceramic, want, 1e-18) {
		t.Fatalf("ceramic: got %v want %v", ceramic, want)
	}

	tantalum := Capacitor(CapacitorParams{Dielectric: DielectricTantalum, AmbientTemp: 30}, m)
	if want := 0.4 * (1 + 3.8e-3*cycling) * 1e-9; !almostEqual(tantalum, want, 1e-18) {
		t.Fatalf("tantalum: got %v want %v", tantalum, want)
	}

	if got := Capacitor(CapacitorParams{Dielectric: "film", AmbientTemp: 30}, m); got != 0 {
		t.Fatalf("unknown dielectric: got %v want 0", got)
	}
}

func TestResistorRate(t *testing.T) {
	m := models.DefaultMission()
	// Ta 30, P_op = 0: self heating vanishes and the thermal factor is 1.
	p := ResistorParams{AmbientTemp: 30, OperatingPower: 0, RatedPower: 0.25}
	want := 0.1 * (1 + 1.4e-3*math.Pow(5256, 0.76)*math.Pow(3, 0.68)) * 1e-9
	if got := Resistor(p, m); !almostEqual(got, want, 1e-18) {
		t.Fatalf("got %v want %v", got, want)
	}

	if got := Resistor(ResistorParams{AmbientTemp: 30, RatedPower: 0}, m); got != 0 {
		t.Fatalf("zero rated power: got %v want 0", got)
	}
}

func TestInductorRate(t *testing.T) {
	m := models.DefaultMission()
	// No power loss keeps the winding at ambient 30 C (factor 1).
	p := InductorParams{
		Kind:        "inductor",
		Subtype:     "Power Inductor",
		AmbientTemp: 30,
		PowerLoss:   0,
		SurfaceArea: 0.06,
	}
	want := 0.6 * (1 + 7e-3*math.Pow(5256, 0.76)*math.Pow(3, 0.68)) * 1e-9
	if got := Inductor(p, m); !almostEqual(got, want, 1e-18) {
		t.Fatalf("got %v want %v", got, want)
	}

	if got := Inductor(InductorParams{Kind: "inductor", Subtype: "Power Inductor", SurfaceArea: 0}, m); got != 0 {
		t.Fatalf("zero surface: got %v want 0", got)
	}
	if got := InductorBaseRate("memristor", "Power Inductor"); got != 0 {
		t.Fatalf("unknown kind base rate: got %v want 0", got)
	}
}

func TestPrimaryBatteryConstant(t *testing.T) {
	if got := PrimaryBattery(); got != 20e-9 {
		t.Fatalf("got %v want 20e-9", got)
	}
}

func TestConverterRates(t *testing.T) {
	m := models.DefaultMission()
	cycling := math.Pow(5256, 0.76) * math.Pow(3, 0.68)
	small := Converter(true, m)
	if want := 100 * (1 + 3e-3*cycling) * 1e-9; !almostEqual(small, want, 1e-18) {
		t.Fatalf("under 10W: got %v want %v", small, want)
	}
	large := Converter(false, m)
	if want := 130 * (1 + 3e-3*cycling) * 1e-9; !almostEqual(large, want, 1e-18) {
		t.Fatalf("over 10W: got %v want %v", large, want)
	}
}

func TestAllModelsNonNegative(t *testing.T) {
	m := models.DefaultMission()
	rates := []float64{
		IntegratedCircuit(ICParams{Characteristic: "MOS Asic, Gate Arrays, 12 gates", ConstructionYear: 2005, JunctionTemp: 80, Lambda3: 1.3}, m),
		Diode(DiodeParams{Function: "signal", JunctionTemp: 60, PackageLambda: 1}, m),
		Transistor(TransistorParams{Family: FamilyMOS, JunctionTemp: 90, PackageLambda: 5.1, VdsMax: 20, VdsMin: 30, VgsMax: 4, VgsMin: 20}, m),
		Capacitor(CapacitorParams{Dielectric: DielectricTantalum, AmbientTemp: 45}, m),
		Resistor(ResistorParams{AmbientTemp: 45, OperatingPower: 0.1, RatedPower: 0.25}, m),
		Inductor(InductorParams{Kind: "transformer", Subtype: "power", AmbientTemp: 45, PowerLoss: 2, SurfaceArea: 0.2}, m),
		PrimaryBattery(),
		Converter(false, m),
	}
	for i, r := range rates {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			t.Fatalf("rate %d not a finite non-negative value: %v", i, r)
		}
		rel := ReliabilityFromFailureRate(r, m.MissionHours)
		if rel <= 0 || rel > 1 {
			t.Fatalf("rate %d reliability out of (0,1]: %v", i, rel)
		}
	}
}
