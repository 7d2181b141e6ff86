package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/reliastack/relia-engine/internal/models"
)

func testMission() models.Mission {
	return models.DefaultMission()
}

func resistorRecord(ref, block string) models.ComponentRecord {
	return models.ComponentRecord{
		Reference: ref,
		Class:     models.ClassResistor,
		BlockPath: block,
		Params: map[string]float64{
			models.ParamAmbientTemp:    30,
			models.ParamOperatingPower: 0.05,
			models.ParamRatedPower:     0.25,
		},
		Attrs: map[string]string{},
	}
}

func batteryRecord(ref, block string) models.ComponentRecord {
	return models.ComponentRecord{
		Reference: ref,
		Class:     models.ClassPrimaryBattery,
		BlockPath: block,
		Params:    map[string]float64{},
		Attrs:     map[string]string{},
	}
}

func TestDispatcherBatteryConstantRate(t *testing.T) {
	d := NewDispatcher(nil)
	result := d.Evaluate(batteryRecord("BT1", "psu"), nil, testMission())

	if result.Excluded {
		t.Fatalf("battery excluded: %s", result.ExclusionReason)
	}
	if math.Abs(result.FailureRate-20e-9) > 1e-18 {
		t.Fatalf("battery failure rate = %g, want 20e-9", result.FailureRate)
	}
}

func TestDispatcherUnrecognizedClass(t *testing.T) {
	d := NewDispatcher(nil)
	rec := models.ComponentRecord{Reference: "X1", Class: "varistor", BlockPath: "psu"}

	result := d.Evaluate(rec, nil, testMission())
	if !result.Excluded {
		t.Fatal("expected exclusion for unrecognized class")
	}
	if !strings.Contains(result.ExclusionReason, `"varistor"`) {
		t.Fatalf("exclusion reason %q does not name the class", result.ExclusionReason)
	}
	if result.FailureRate != 0 {
		t.Fatalf("excluded record carries failure rate %g", result.FailureRate)
	}
}

func TestDispatcherMissingParametersNamed(t *testing.T) {
	d := NewDispatcher(nil)
	rec := resistorRecord("R1", "psu")
	delete(rec.Params, models.ParamRatedPower)
	delete(rec.Params, models.ParamAmbientTemp)

	result := d.Evaluate(rec, nil, testMission())
	if !result.Excluded {
		t.Fatal("expected exclusion for missing parameters")
	}
	for _, name := range []string{models.ParamRatedPower, models.ParamAmbientTemp} {
		if !strings.Contains(result.ExclusionReason, name) {
			t.Fatalf("exclusion reason %q does not name %s", result.ExclusionReason, name)
		}
	}
}

func TestDispatcherZeroRatedPowerExcluded(t *testing.T) {
	d := NewDispatcher(nil)
	rec := resistorRecord("R1", "psu")
	rec.Params[models.ParamRatedPower] = 0

	result := d.Evaluate(rec, nil, testMission())
	if !result.Excluded {
		t.Fatal("expected exclusion for zero rated power")
	}
	if !strings.Contains(result.ExclusionReason, models.ParamRatedPower) {
		t.Fatalf("exclusion reason %q does not name %s", result.ExclusionReason, models.ParamRatedPower)
	}
}

func TestDispatcherInductorSurfaceFallback(t *testing.T) {
	d := NewDispatcher(nil)
	rec := models.ComponentRecord{
		Reference: "L1",
		Class:     models.ClassInductor,
		BlockPath: "psu",
		Params: map[string]float64{
			models.ParamAmbientTemp: 30,
			models.ParamPowerLoss:   0.1,
		},
		Attrs: map[string]string{models.AttrSurfaceSpec: "not-a-dimension"},
	}

	result := d.Evaluate(rec, nil, testMission())
	if result.Excluded {
		t.Fatalf("malformed surface should fall back, got exclusion: %s", result.ExclusionReason)
	}
	if len(result.Anomalies) != 1 {
		t.Fatalf("anomalies = %v, want one fallback note", result.Anomalies)
	}

	// A missing surface altogether is a hard exclusion, not a fallback.
	delete(rec.Attrs, models.AttrSurfaceSpec)
	result = d.Evaluate(rec, nil, testMission())
	if !result.Excluded {
		t.Fatal("expected exclusion when no radiating surface is given")
	}
}

func TestDispatcherOverridesWinOverRecord(t *testing.T) {
	d := NewDispatcher(nil)
	rec := resistorRecord("R1", "psu")

	base := d.Evaluate(rec, nil, testMission())
	hot := d.Evaluate(rec, map[string]float64{models.ParamAmbientTemp: 90}, testMission())

	if hot.FailureRate <= base.FailureRate {
		t.Fatalf("hotter override should raise failure rate: base %g, hot %g", base.FailureRate, hot.FailureRate)
	}
	if v := rec.Params[models.ParamAmbientTemp]; v != 30 {
		t.Fatalf("record mutated by override: ambient temp now %g", v)
	}
}
