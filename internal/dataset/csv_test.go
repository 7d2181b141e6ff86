package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reliastack/relia-engine/internal/models"
)

const sampleSheet = `Reference,Class,Sheet,Temperature_Junction,Temperature_Ambiant,Construction Date,Transistor type,Operating_Power,Rated_Power,Power loss,Radiating surface,diode_type,alpha_s,alpha_c,Table 16,Table 18,Lam3,Inductor type
U1,Integrated Circuit (7),/Power/Boost/,55,,1998,,,,,,,Epoxy,FR4,"MOS Standard, Digital circuits, 2 gates",,1.3,
D1,Low power diode (8.2),/Power/Boost/,40,,,,,,,,zener,,,,SOT-23,,
Q1,Power Transistor (8.5),/Power/Boost/,80,,,N-MOSFET,,,,,,,,,TO-220,,
R1,Resistor (11.1),/Power/Boost/,,30,,,0.05,0.25,,,,,,,,,
L1,Inductor (12),/Power/Boost/,,30,,,,,0.1,22 x 6,,,,,,,Power Inductor
C1,Ceramic Capacitor (10.3),/Power/Filter/,,30,,,,,,,,,,,,,
BT1,Primary batteries (19.1),/Power/Filter/,,,,,,,,,,,,,,,
X1,,/Power/Filter/,,,,,,,,,,,,,,,
R2,Resistor (11.1),/Power/Filter/,,NaN,,,0.05,0.25,,,,,,,,,
`

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	src := NewCSVSource(writeSheet(t, sampleSheet), nil)
	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// The class-less row X1 is dropped.
	if len(records) != 8 {
		t.Fatalf("loaded %d records, want 8", len(records))
	}

	byRef := make(map[string]models.ComponentRecord, len(records))
	for _, rec := range records {
		byRef[rec.Reference] = rec
	}

	ic := byRef["U1"]
	if ic.Class != models.ClassIntegratedCircuit {
		t.Fatalf("U1 class = %s", ic.Class)
	}
	if year, ok := ic.Param(models.ParamConstructionYear); !ok || year != 1998 {
		t.Fatalf("U1 construction year = %g, %v", year, ok)
	}
	if ic.Attr(models.AttrSubstrateMaterial) != "Epoxy" || ic.Attr(models.AttrComponentMaterial) != "FR4" {
		t.Fatalf("U1 materials = %q/%q", ic.Attr(models.AttrSubstrateMaterial), ic.Attr(models.AttrComponentMaterial))
	}

	q := byRef["Q1"]
	if q.Attr(models.AttrTransistorFamily) != "MOS" {
		t.Fatalf("Q1 family = %q, want MOS from the N-MOSFET label", q.Attr(models.AttrTransistorFamily))
	}
	if q.Attr(models.AttrPackageType) != "TO-220" {
		t.Fatalf("Q1 package = %q", q.Attr(models.AttrPackageType))
	}

	l := byRef["L1"]
	if l.Attr(models.AttrSurfaceSpec) != "22 x 6" {
		t.Fatalf("L1 surface spec = %q", l.Attr(models.AttrSurfaceSpec))
	}
	if _, ok := l.Param(models.ParamRadiatingSurface); ok {
		t.Fatal("dimension string should stay an attribute, not a parameter")
	}

	// NaN cells leave the parameter absent.
	r2 := byRef["R2"]
	if _, ok := r2.Param(models.ParamAmbientTemp); ok {
		t.Fatal("NaN ambient temperature should be absent")
	}
}

func TestCSVSourceBlockPaths(t *testing.T) {
	src := NewCSVSource(writeSheet(t, sampleSheet), nil)
	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	paths := BlockPaths(records)
	want := []string{"/Power/Boost/", "/Power/Filter/"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}
}

func TestCSVSourceMissingRequiredColumn(t *testing.T) {
	src := NewCSVSource(writeSheet(t, "Reference,Sheet\nR1,/Power/\n"), nil)
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for a sheet without a Class column")
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), nil)
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
