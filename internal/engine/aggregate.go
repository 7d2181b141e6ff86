package engine

import (
	"fmt"
	"log/slog"

	"github.com/reliastack/relia-engine/internal/iec62380"
	"github.com/reliastack/relia-engine/internal/models"
)

// exclusionPreviewLimit bounds the exclusion reasons carried on a block
// result so large blocks stay readable.
const exclusionPreviewLimit = 10

// AggregateBlock folds dispatch results for one block into a BlockResult.
// A block with zero valid components is flagged degenerate: it reports
// lambda 0 and reliability 1 but must not be read as genuinely reliable.
func AggregateBlock(blockPath string, results []models.FailureRateResult, missionHours float64) models.BlockResult {
	block := models.BlockResult{
		BlockPath:      blockPath,
		ComponentCount: len(results),
	}

	for _, r := range results {
		if r.Excluded {
			block.ExcludedCount++
			if len(block.ExclusionPreview) < exclusionPreviewLimit {
				block.ExclusionPreview = append(block.ExclusionPreview, fmt.Sprintf("%s: %s", r.Reference, r.ExclusionReason))
			} else {
				block.OmittedReasons++
			}
			continue
		}
		block.TotalFailureRate += r.FailureRate
	}

	block.Reliability = iec62380.ReliabilityFromFailureRate(block.TotalFailureRate, missionHours)
	block.Degenerate = block.ComponentCount == block.ExcludedCount
	return block
}

// Evaluator runs the dispatch and aggregation pipeline over a record set.
type Evaluator struct {
	logger     *slog.Logger
	dispatcher *Dispatcher
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger, dispatcher: NewDispatcher(logger)}
}

// EvaluateBlock dispatches every record whose BlockPath matches and
// aggregates the outcomes. Overrides may be nil for a baseline pass.
func (e *Evaluator) EvaluateBlock(records []models.ComponentRecord, blockPath string, overrides Overrides, m models.Mission) (models.BlockResult, []models.FailureRateResult) {
	results := make([]models.FailureRateResult, 0)
	for _, rec := range records {
		if rec.BlockPath != blockPath {
			continue
		}
		results = append(results, e.dispatcher.Evaluate(rec, overrides[rec.Reference], m))
	}

	block := AggregateBlock(blockPath, results, m.MissionHours)
	if block.Degenerate {
		e.logger.Warn("degenerate block: no valid components",
			slog.String("block", blockPath),
			slog.Int("components", block.ComponentCount))
	}
	return block, results
}

// EvaluateGroup evaluates several blocks and combines them in series.
func (e *Evaluator) EvaluateGroup(records []models.ComponentRecord, blockPaths []string, m models.Mission) models.GroupResult {
	group := models.GroupResult{Blocks: make([]models.BlockResult, 0, len(blockPaths))}
	rs := make([]float64, 0, len(blockPaths))
	for _, path := range blockPaths {
		block, results := e.EvaluateBlock(records, path, nil, m)
		block.Components = results
		group.Blocks = append(group.Blocks, block)
		group.TotalFailureRate += block.TotalFailureRate
		rs = append(rs, block.Reliability)
	}
	group.Reliability = iec62380.SeriesReliability(rs)
	return group
}
