package engine

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/utils"
)

// Impact tier thresholds on the absolute normalised coefficient.
const (
	impactHighThreshold   = 0.5
	impactMediumThreshold = 0.05
)

// SensitivityEngine ranks parameters by their influence on block
// reliability, by local perturbation or by variance decomposition.
type SensitivityEngine struct {
	logger    *slog.Logger
	evaluator *Evaluator
}

// NewSensitivityEngine constructs the engine.
func NewSensitivityEngine(logger *slog.Logger, evaluator *Evaluator) *SensitivityEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if evaluator == nil {
		evaluator = NewEvaluator(logger)
	}
	return &SensitivityEngine{logger: logger, evaluator: evaluator}
}

// OneAtATime perturbs each target parameter by +/- variation (a fraction,
// e.g. 0.1 for 10%) around its recorded baseline while holding everything
// else fixed, and reports the central-difference coefficient
//
//	S = ((R+ - R-) / R0) / (2 * variation)
//
// normalised by the baseline block reliability R0. Targets with a zero
// baseline value are skipped: a relative perturbation of zero is still
// zero. Results come back sorted by |S| descending.
func (s *SensitivityEngine) OneAtATime(records []models.ComponentRecord, blockPath string, targets []models.ParameterTarget, variation float64, m models.Mission) ([]models.SensitivityResult, error) {
	if variation <= 0 {
		return nil, utils.NewAppError("sensitivity", "variation must be positive", nil)
	}

	if len(targets) == 0 {
		targets = allNumericTargets(records, blockPath)
	}
	if len(targets) == 0 {
		return nil, utils.NewAppError("sensitivity", "no numeric parameters found in block "+blockPath, nil)
	}

	baseline, _ := s.evaluator.EvaluateBlock(records, blockPath, nil, m)
	if baseline.Degenerate {
		return nil, utils.NewAppError("sensitivity", "block "+blockPath+" has no valid components", nil)
	}
	if baseline.Reliability == 0 {
		return nil, utils.NewAppError("sensitivity", "baseline reliability is zero, coefficients undefined", nil)
	}

	results := make([]models.SensitivityResult, 0, len(targets))
	for _, target := range targets {
		value, ok := lookupParam(records, blockPath, target)
		if !ok {
			s.logger.Warn("sensitivity target not found, skipping",
				slog.String("reference", target.Reference),
				slog.String("parameter", target.Parameter))
			continue
		}
		if value == 0 {
			continue
		}

		up := make(Overrides)
		up.Set(target.Reference, target.Parameter, value*(1+variation))
		increased, _ := s.evaluator.EvaluateBlock(records, blockPath, up, m)

		down := make(Overrides)
		down.Set(target.Reference, target.Parameter, value*(1-variation))
		decreased, _ := s.evaluator.EvaluateBlock(records, blockPath, down, m)

		coeff := ((increased.Reliability - decreased.Reliability) / baseline.Reliability) / (2 * variation)
		results = append(results, models.SensitivityResult{
			Reference:   target.Reference,
			Parameter:   target.Parameter,
			Baseline:    value,
			BaselineR:   baseline.Reliability,
			IncreasedR:  increased.Reliability,
			DecreasedR:  decreased.Reliability,
			Coefficient: coeff,
			Impact:      classifyImpact(coeff),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Coefficient) > math.Abs(results[j].Coefficient)
	})
	return results, nil
}

// Sobol estimates first-order and total-order indices for each declared
// uncertain parameter via the Saltelli pick-freeze scheme: two independent
// sample matrices A and B of size draws x k, plus k hybrid matrices AB_i
// taking column i from B, for (k+2)*draws block evaluations in total.
func (s *SensitivityEngine) Sobol(ctx context.Context, records []models.ComponentRecord, blockPath string, study []models.UncertainParameter, draws int, seed int64, m models.Mission) ([]models.SobolIndex, error) {
	if draws <= 0 {
		return nil, utils.NewAppError("sensitivity", "draw count must be positive", nil)
	}
	bindings := bindStudy(records, blockPath, study)
	if len(bindings) == 0 {
		return nil, utils.NewAppError("sensitivity", "no uncertain parameter applies to block "+blockPath, nil)
	}

	rng := rand.New(rand.NewSource(seed))
	matA := sampleMatrix(rng, bindings, draws)
	matB := sampleMatrix(rng, bindings, draws)

	fA, err := s.evalMatrix(ctx, records, blockPath, bindings, matA, m)
	if err != nil {
		return nil, err
	}
	fB, err := s.evalMatrix(ctx, records, blockPath, bindings, matB, m)
	if err != nil {
		return nil, err
	}

	_, std := meanStdDev(fA)
	variance := std * std
	if variance == 0 {
		return nil, utils.NewAppError("sensitivity", "block reliability shows no variance under the declared laws", nil)
	}

	indices := make([]models.SobolIndex, 0, len(bindings))
	for i, b := range bindings {
		hybrid := make([][]float64, draws)
		for j := 0; j < draws; j++ {
			row := append([]float64(nil), matA[j]...)
			row[i] = matB[j][i]
			hybrid[j] = row
		}
		fABi, err := s.evalMatrix(ctx, records, blockPath, bindings, hybrid, m)
		if err != nil {
			return nil, err
		}

		var first, total float64
		for j := 0; j < draws; j++ {
			first += fB[j] * (fABi[j] - fA[j])
			diff := fA[j] - fABi[j]
			total += diff * diff
		}
		indices = append(indices, models.SobolIndex{
			Target:     b.target,
			Parameter:  b.parameter,
			FirstOrder: first / float64(draws) / variance,
			TotalOrder: total / (2 * float64(draws)) / variance,
		})
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return indices[i].TotalOrder > indices[j].TotalOrder
	})
	return indices, nil
}

// sampleMatrix draws a draws x len(bindings) matrix of law samples.
func sampleMatrix(rng *rand.Rand, bindings []binding, draws int) [][]float64 {
	matrix := make([][]float64, draws)
	for j := range matrix {
		row := make([]float64, len(bindings))
		for i, b := range bindings {
			row[i] = sampleLaw(rng, b.law)
		}
		matrix[j] = row
	}
	return matrix
}

// evalMatrix evaluates the block once per matrix row. Each binding's value
// is applied uniformly to every component it targets: one row is one point
// in the k-dimensional input space.
func (s *SensitivityEngine) evalMatrix(ctx context.Context, records []models.ComponentRecord, blockPath string, bindings []binding, matrix [][]float64, m models.Mission) ([]float64, error) {
	out := make([]float64, len(matrix))
	for j, row := range matrix {
		if err := ctx.Err(); err != nil {
			return nil, utils.NewAppError("sensitivity", "cancelled during variance estimation", err)
		}
		overrides := make(Overrides)
		for i, b := range bindings {
			for _, ref := range b.refs {
				overrides.Set(ref, b.parameter, row[i])
			}
		}
		block, _ := s.evaluator.EvaluateBlock(records, blockPath, overrides, m)
		out[j] = block.Reliability
	}
	return out, nil
}

// allNumericTargets lists every parameter carried by the block's records,
// ordered by reference then parameter name for stable output.
func allNumericTargets(records []models.ComponentRecord, blockPath string) []models.ParameterTarget {
	targets := make([]models.ParameterTarget, 0)
	for _, rec := range records {
		if rec.BlockPath != blockPath {
			continue
		}
		names := make([]string, 0, len(rec.Params))
		for name := range rec.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			targets = append(targets, models.ParameterTarget{Reference: rec.Reference, Parameter: name})
		}
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Reference != targets[j].Reference {
			return targets[i].Reference < targets[j].Reference
		}
		return targets[i].Parameter < targets[j].Parameter
	})
	return targets
}

func lookupParam(records []models.ComponentRecord, blockPath string, target models.ParameterTarget) (float64, bool) {
	for _, rec := range records {
		if rec.BlockPath != blockPath || rec.Reference != target.Reference {
			continue
		}
		return rec.Param(target.Parameter)
	}
	return 0, false
}

func classifyImpact(coefficient float64) models.Impact {
	abs := math.Abs(coefficient)
	switch {
	case abs >= impactHighThreshold:
		return models.ImpactHigh
	case abs >= impactMediumThreshold:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
