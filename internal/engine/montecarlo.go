package engine

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/utils"
)

// convergenceCheckpoints caps the number of running-mean samples kept on a
// run so large draw counts stay reportable.
const convergenceCheckpoints = 100

// binding connects one declared uncertain parameter to the in-block
// component references it affects.
type binding struct {
	target    string
	parameter string
	law       models.Law
	refs      []string
}

// MonteCarloEngine propagates declared parameter uncertainty through the
// dispatch/aggregation pipeline.
type MonteCarloEngine struct {
	logger    *slog.Logger
	evaluator *Evaluator
	workers   int
}

// NewMonteCarloEngine constructs the engine. workers <= 1 runs draws
// sequentially; higher values fan draws out without changing semantics.
func NewMonteCarloEngine(logger *slog.Logger, evaluator *Evaluator, workers int) *MonteCarloEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if evaluator == nil {
		evaluator = NewEvaluator(logger)
	}
	if workers < 1 {
		workers = 1
	}
	return &MonteCarloEngine{logger: logger, evaluator: evaluator, workers: workers}
}

// Run executes draws independent draws for one block, resampling every
// declared uncertain parameter per draw and per affected component.
// Cancelling ctx between draws returns the statistics of the draws already
// completed, flagged Interrupted.
func (e *MonteCarloEngine) Run(ctx context.Context, records []models.ComponentRecord, blockPath string, study []models.UncertainParameter, draws int, seed int64, m models.Mission) (models.MonteCarloRun, error) {
	if draws <= 0 {
		return models.MonteCarloRun{}, utils.NewAppError("montecarlo", "draw count must be positive", nil)
	}
	bindings := bindStudy(records, blockPath, study)
	if len(bindings) == 0 {
		return models.MonteCarloRun{}, utils.NewAppError("montecarlo", "no uncertain parameter applies to block "+blockPath, nil)
	}

	run := models.MonteCarloRun{
		BlockPath: blockPath,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}

	var lambdas, reliabilities []float64
	if e.workers > 1 {
		lambdas, reliabilities = e.drawParallel(ctx, records, blockPath, bindings, draws, seed, m)
	} else {
		lambdas, reliabilities = e.drawSequential(ctx, records, blockPath, bindings, draws, seed, m)
	}

	run.Draws = len(lambdas)
	run.Interrupted = run.Draws < draws
	if run.Draws == 0 {
		return run, utils.NewAppError("montecarlo", "cancelled before the first draw completed", ctx.Err())
	}

	run.LambdaSamples = lambdas
	run.ReliabilitySamples = reliabilities
	run.LambdaMean, run.LambdaStdDev = meanStdDev(lambdas)
	run.ReliabilityMean, run.ReliabilityStdDev = meanStdDev(reliabilities)
	run.ReliabilityCI = models.ConfidenceInterval{
		Level: 0.95,
		Lower: percentile(reliabilities, 2.5),
		Upper: percentile(reliabilities, 97.5),
	}
	run.Convergence = runningMeans(lambdas)

	e.logger.Debug("monte carlo run complete",
		slog.String("block", blockPath),
		slog.Int("draws", run.Draws),
		slog.Bool("interrupted", run.Interrupted))
	return run, nil
}

func (e *MonteCarloEngine) drawSequential(ctx context.Context, records []models.ComponentRecord, blockPath string, bindings []binding, draws int, seed int64, m models.Mission) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	lambdas := make([]float64, 0, draws)
	reliabilities := make([]float64, 0, draws)
	for i := 0; i < draws; i++ {
		if ctx.Err() != nil {
			break
		}
		block, _ := e.evaluator.EvaluateBlock(records, blockPath, sampleOverrides(rng, bindings), m)
		lambdas = append(lambdas, block.TotalFailureRate)
		reliabilities = append(reliabilities, block.Reliability)
	}
	return lambdas, reliabilities
}

func (e *MonteCarloEngine) drawParallel(ctx context.Context, records []models.ComponentRecord, blockPath string, bindings []binding, draws int, seed int64, m models.Mission) ([]float64, []float64) {
	type segment struct {
		lambdas       []float64
		reliabilities []float64
	}

	workers := e.workers
	if workers > draws {
		workers = draws
	}
	segments := make([]segment, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		share := draws / workers
		if w < draws%workers {
			share++
		}
		wg.Add(1)
		go func(w, share int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(w)))
			seg := segment{
				lambdas:       make([]float64, 0, share),
				reliabilities: make([]float64, 0, share),
			}
			for i := 0; i < share; i++ {
				if ctx.Err() != nil {
					break
				}
				block, _ := e.evaluator.EvaluateBlock(records, blockPath, sampleOverrides(rng, bindings), m)
				seg.lambdas = append(seg.lambdas, block.TotalFailureRate)
				seg.reliabilities = append(seg.reliabilities, block.Reliability)
			}
			segments[w] = seg
		}(w, share)
	}
	wg.Wait()

	lambdas := make([]float64, 0, draws)
	reliabilities := make([]float64, 0, draws)
	for _, seg := range segments {
		lambdas = append(lambdas, seg.lambdas...)
		reliabilities = append(reliabilities, seg.reliabilities...)
	}
	return lambdas, reliabilities
}

// bindStudy resolves study entries against the block's records. Targets
// match a component reference exactly or a component class tag.
func bindStudy(records []models.ComponentRecord, blockPath string, study []models.UncertainParameter) []binding {
	bindings := make([]binding, 0, len(study))
	for _, up := range study {
		refs := make([]string, 0)
		for _, rec := range records {
			if rec.BlockPath != blockPath {
				continue
			}
			if rec.Reference == up.Target || string(rec.Class) == up.Target {
				refs = append(refs, rec.Reference)
			}
		}
		if len(refs) == 0 {
			continue
		}
		bindings = append(bindings, binding{target: up.Target, parameter: up.Parameter, law: up.Law, refs: refs})
	}
	return bindings
}

// sampleOverrides draws one value per binding per affected component.
// Draws are independent across components, bindings and calls.
func sampleOverrides(rng *rand.Rand, bindings []binding) Overrides {
	overrides := make(Overrides)
	for _, b := range bindings {
		for _, ref := range b.refs {
			overrides.Set(ref, b.parameter, sampleLaw(rng, b.law))
		}
	}
	return overrides
}

func sampleLaw(rng *rand.Rand, law models.Law) float64 {
	switch law.Kind {
	case models.LawUniform:
		return law.Low + rng.Float64()*(law.High-law.Low)
	case models.LawTwoPoint:
		if rng.Float64() < 0.5 {
			return law.First
		}
		return law.Second
	}
	return 0
}

func meanStdDev(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, v := range samples {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(samples))
	return mean, math.Sqrt(variance)
}

// percentile returns the p-th percentile (0-100) of the samples.
func percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	index := int((p / 100.0) * float64(len(sorted)-1))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// runningMeans records the running mean of lambda at bounded checkpoints.
func runningMeans(lambdas []float64) []models.ConvergencePoint {
	if len(lambdas) == 0 {
		return nil
	}
	step := len(lambdas) / convergenceCheckpoints
	if step < 1 {
		step = 1
	}
	points := make([]models.ConvergencePoint, 0, convergenceCheckpoints+1)
	sum := 0.0
	for i, v := range lambdas {
		sum += v
		if (i+1)%step == 0 || i == len(lambdas)-1 {
			points = append(points, models.ConvergencePoint{Draws: i + 1, LambdaMean: sum / float64(i+1)})
		}
	}
	return points
}
