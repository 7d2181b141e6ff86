package engine

import (
	"context"
	"math"
	"testing"

	"github.com/reliastack/relia-engine/internal/models"
)

func TestOneAtATimeTemperatureLowersReliability(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	se := NewSensitivityEngine(nil, nil)

	targets := []models.ParameterTarget{{Reference: "R1", Parameter: models.ParamAmbientTemp}}
	results, err := se.OneAtATime(records, "board/psu", targets, 0.1, testMission())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Coefficient >= 0 {
		t.Fatalf("raising ambient temperature should lower reliability: S = %g", r.Coefficient)
	}
	if r.IncreasedR >= r.DecreasedR {
		t.Fatalf("R+ = %g should be below R- = %g", r.IncreasedR, r.DecreasedR)
	}
	if r.Baseline != 30 {
		t.Fatalf("baseline = %g, want the recorded value 30", r.Baseline)
	}
}

func TestOneAtATimeDefaultsToAllParameters(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	se := NewSensitivityEngine(nil, nil)

	results, err := se.OneAtATime(records, "board/psu", nil, 0.1, testMission())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	// The resistor carries three numeric parameters, none zero.
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if math.Abs(results[i].Coefficient) > math.Abs(results[i-1].Coefficient) {
			t.Fatal("results not sorted by descending |coefficient|")
		}
	}
}

func TestOneAtATimeSkipsZeroBaseline(t *testing.T) {
	rec := resistorRecord("R1", "board/psu")
	rec.Params[models.ParamOperatingPower] = 0
	se := NewSensitivityEngine(nil, nil)

	results, err := se.OneAtATime([]models.ComponentRecord{rec}, "board/psu", nil, 0.1, testMission())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	for _, r := range results {
		if r.Parameter == models.ParamOperatingPower {
			t.Fatal("zero-baseline parameter should be skipped")
		}
	}
}

func TestOneAtATimeRejectsBadVariation(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	se := NewSensitivityEngine(nil, nil)

	if _, err := se.OneAtATime(records, "board/psu", nil, 0, testMission()); err == nil {
		t.Fatal("expected error for zero variation")
	}
}

func TestOneAtATimeDegenerateBlock(t *testing.T) {
	records := []models.ComponentRecord{{Reference: "X1", Class: "varistor", BlockPath: "board/psu"}}
	se := NewSensitivityEngine(nil, nil)

	if _, err := se.OneAtATime(records, "board/psu", nil, 0.1, testMission()); err == nil {
		t.Fatal("expected error for a block with no valid components")
	}
}

func TestSobolSingleParameterExplainsVariance(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	study := uniformStudy("R1", models.ParamAmbientTemp, 20, 80)
	se := NewSensitivityEngine(nil, nil)

	indices, err := se.Sobol(context.Background(), records, "board/psu", study, 4000, 11, testMission())
	if err != nil {
		t.Fatalf("estimation failed: %v", err)
	}
	if len(indices) != 1 {
		t.Fatalf("got %d indices, want 1", len(indices))
	}

	// With a single varied input both indices should estimate close to 1.
	idx := indices[0]
	if math.Abs(idx.FirstOrder-1) > 0.25 {
		t.Fatalf("first-order index = %g, want about 1", idx.FirstOrder)
	}
	if math.Abs(idx.TotalOrder-1) > 0.25 {
		t.Fatalf("total-order index = %g, want about 1", idx.TotalOrder)
	}
}

func TestSobolOrderedByTotalIndex(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	study := []models.UncertainParameter{
		{Target: "R1", Parameter: models.ParamAmbientTemp, Law: models.Law{Kind: models.LawUniform, Low: 20, High: 80}},
		{Target: "R1", Parameter: models.ParamOperatingPower, Law: models.Law{Kind: models.LawUniform, Low: 0.049, High: 0.051}},
	}
	se := NewSensitivityEngine(nil, nil)

	indices, err := se.Sobol(context.Background(), records, "board/psu", study, 2000, 5, testMission())
	if err != nil {
		t.Fatalf("estimation failed: %v", err)
	}
	if len(indices) != 2 {
		t.Fatalf("got %d indices, want 2", len(indices))
	}
	if indices[0].TotalOrder < indices[1].TotalOrder {
		t.Fatal("indices not sorted by descending total order")
	}
	if indices[0].Parameter != models.ParamAmbientTemp {
		t.Fatalf("dominant parameter = %s, want the wide temperature law", indices[0].Parameter)
	}
}

func TestSobolNoVariance(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	study := uniformStudy("R1", models.ParamAmbientTemp, 30, 30)
	se := NewSensitivityEngine(nil, nil)

	if _, err := se.Sobol(context.Background(), records, "board/psu", study, 100, 1, testMission()); err == nil {
		t.Fatal("expected error for a degenerate law with no spread")
	}
}

func TestSobolCancelledContext(t *testing.T) {
	records := []models.ComponentRecord{resistorRecord("R1", "board/psu")}
	study := uniformStudy("R1", models.ParamAmbientTemp, 20, 80)
	se := NewSensitivityEngine(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := se.Sobol(ctx, records, "board/psu", study, 100, 1, testMission()); err == nil {
		t.Fatal("expected error when cancelled")
	}
}
