package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reliastack/relia-engine/internal/cache"
	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/study"
)

func testRecords() []models.ComponentRecord {
	return []models.ComponentRecord{
		{
			Reference: "R1",
			Class:     models.ClassResistor,
			BlockPath: "/Power/Boost/",
			Params: map[string]float64{
				models.ParamAmbientTemp:    30,
				models.ParamOperatingPower: 0.05,
				models.ParamRatedPower:     0.25,
			},
		},
		{
			Reference: "BT1",
			Class:     models.ClassPrimaryBattery,
			BlockPath: "/Power/Filter/",
			Params:    map[string]float64{},
		},
	}
}

func testPack(t *testing.T) *study.Pack {
	t.Helper()
	path := filepath.Join(t.TempDir(), "study.yaml")
	content := `uncertain_parameters:
  - target: R1
    parameter: temperature_ambient
    law:
      kind: uniform
      low: 20
      high: 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	pack, err := study.Load(path, nil)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return pack
}

func newTestService(t *testing.T, pack *study.Pack) *AnalysisService {
	t.Helper()
	return NewAnalysisService(nil, testRecords(), pack, cache.NewMemoryProvider(), time.Minute,
		models.DefaultMission(), Limits{DefaultDraws: 100, MaxDraws: 1000, Variation: 0.1}, 1)
}

func TestListBlocks(t *testing.T) {
	svc := newTestService(t, nil)
	blocks := svc.ListBlocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks = %v", blocks)
	}
	if blocks[0].BlockPath != "/Power/Boost/" || blocks[0].ComponentCount != 1 {
		t.Fatalf("first block = %+v", blocks[0])
	}
}

func TestEvaluateUnknownBlock(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Evaluate(context.Background(), models.EvaluateRequest{BlockPaths: []string{"/Nope/"}})
	if !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("err = %v, want ErrUnknownBlock", err)
	}
}

func TestEvaluateEmptyRequest(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Evaluate(context.Background(), models.EvaluateRequest{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestEvaluateGroupSeries(t *testing.T) {
	svc := newTestService(t, nil)
	group, err := svc.Evaluate(context.Background(), models.EvaluateRequest{
		BlockPaths: []string{"/Power/Boost/", "/Power/Filter/"},
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(group.Blocks) != 2 {
		t.Fatalf("group blocks = %d", len(group.Blocks))
	}
	if group.Reliability <= 0 || group.Reliability >= 1 {
		t.Fatalf("series reliability = %g", group.Reliability)
	}
}

func TestEvaluateBaselineCached(t *testing.T) {
	svc := newTestService(t, nil)
	req := models.EvaluateRequest{BlockPaths: []string{"/Power/Filter/"}}

	first, err := svc.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	second, err := svc.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("cached evaluate failed: %v", err)
	}
	if first.TotalFailureRate != second.TotalFailureRate {
		t.Fatalf("cache changed the answer: %g vs %g", first.TotalFailureRate, second.TotalFailureRate)
	}
}

func TestMonteCarloRequiresStudy(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.MonteCarlo(context.Background(), models.MonteCarloRequest{BlockPath: "/Power/Boost/"})
	if !errors.Is(err, ErrNoStudy) {
		t.Fatalf("err = %v, want ErrNoStudy", err)
	}
}

func TestMonteCarloDefaultsAndBounds(t *testing.T) {
	svc := newTestService(t, testPack(t))

	run, err := svc.MonteCarlo(context.Background(), models.MonteCarloRequest{BlockPath: "/Power/Boost/", Seed: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if run.Draws != 100 {
		t.Fatalf("draws = %d, want the default 100", run.Draws)
	}
	if run.RunID == "" {
		t.Fatal("run has no id")
	}

	_, err = svc.MonteCarlo(context.Background(), models.MonteCarloRequest{BlockPath: "/Power/Boost/", Draws: 10000, Seed: 1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest for draws over the maximum", err)
	}
}

func TestSensitivityDefaultVariation(t *testing.T) {
	svc := newTestService(t, nil)
	results, err := svc.Sensitivity(context.Background(), models.SensitivityRequest{BlockPath: "/Power/Boost/"})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no sensitivity rows")
	}
}

func TestSobolRunsOverStudy(t *testing.T) {
	svc := newTestService(t, testPack(t))
	indices, err := svc.Sobol(context.Background(), models.SobolRequest{BlockPath: "/Power/Boost/", Draws: 200, Seed: 1})
	if err != nil {
		t.Fatalf("sobol failed: %v", err)
	}
	if len(indices) != 1 {
		t.Fatalf("indices = %v", indices)
	}
}
