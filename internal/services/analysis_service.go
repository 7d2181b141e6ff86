package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reliastack/relia-engine/internal/cache"
	"github.com/reliastack/relia-engine/internal/engine"
	"github.com/reliastack/relia-engine/internal/metrics"
	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/study"
	"github.com/reliastack/relia-engine/internal/utils"
)

// Sentinel errors the transport layer maps onto status codes.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownBlock   = errors.New("unknown block")
	ErrNoStudy        = errors.New("no study pack configured")
)

// Limits bounds the statistical workloads a single request may ask for.
type Limits struct {
	DefaultDraws int
	MaxDraws     int
	Variation    float64
}

// BlockSummary describes one block of the loaded dataset.
type BlockSummary struct {
	BlockPath      string `json:"blockPath"`
	ComponentCount int    `json:"componentCount"`
}

// AnalysisService is the facade over the evaluation and analysis engines
// for one loaded dataset. Records are immutable after construction, so the
// service is safe for concurrent requests.
type AnalysisService struct {
	logger      *slog.Logger
	records     []models.ComponentRecord
	pack        *study.Pack
	evaluator   *engine.Evaluator
	monteCarlo  *engine.MonteCarloEngine
	sensitivity *engine.SensitivityEngine
	provider    cache.Provider
	cacheTTL    time.Duration
	mission     models.Mission
	limits      Limits
	blockSet    map[string]int
	latencies   *utils.LatencyTracker
}

// NewAnalysisService wires the engines over a loaded dataset. pack may be
// nil when no study file is configured; provider may be nil to disable
// baseline caching.
func NewAnalysisService(logger *slog.Logger, records []models.ComponentRecord, pack *study.Pack, provider cache.Provider, cacheTTL time.Duration, mission models.Mission, limits Limits, workers int) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	if limits.DefaultDraws <= 0 {
		limits.DefaultDraws = 1000
	}
	if limits.MaxDraws < limits.DefaultDraws {
		limits.MaxDraws = limits.DefaultDraws
	}
	if limits.Variation <= 0 {
		limits.Variation = 0.1
	}

	evaluator := engine.NewEvaluator(logger)
	blockSet := make(map[string]int)
	for _, rec := range records {
		blockSet[rec.BlockPath]++
	}

	return &AnalysisService{
		logger:      logger,
		records:     records,
		pack:        pack,
		evaluator:   evaluator,
		monteCarlo:  engine.NewMonteCarloEngine(logger, evaluator, workers),
		sensitivity: engine.NewSensitivityEngine(logger, evaluator),
		provider:    provider,
		cacheTTL:    cacheTTL,
		mission:     mission,
		limits:      limits,
		blockSet:    blockSet,
		latencies:   utils.NewLatencyTracker(1024),
	}
}

// ListBlocks returns the blocks of the loaded dataset in record order.
func (s *AnalysisService) ListBlocks() []BlockSummary {
	seen := make(map[string]bool, len(s.blockSet))
	out := make([]BlockSummary, 0, len(s.blockSet))
	for _, rec := range s.records {
		if seen[rec.BlockPath] {
			continue
		}
		seen[rec.BlockPath] = true
		out = append(out, BlockSummary{BlockPath: rec.BlockPath, ComponentCount: s.blockSet[rec.BlockPath]})
	}
	return out
}

// Evaluate computes deterministic failure rates for the requested blocks,
// combined in series when more than one is named.
func (s *AnalysisService) Evaluate(ctx context.Context, req models.EvaluateRequest) (models.GroupResult, error) {
	if len(req.BlockPaths) == 0 {
		return models.GroupResult{}, fmt.Errorf("%w: at least one block path is required", ErrInvalidRequest)
	}
	for _, path := range req.BlockPaths {
		if _, ok := s.blockSet[path]; !ok {
			return models.GroupResult{}, fmt.Errorf("%w: %s", ErrUnknownBlock, path)
		}
	}

	mission := s.resolveMission(req.Mission)
	start := time.Now()

	// Single-block default-mission requests serve from cache when warm.
	cacheable := len(req.BlockPaths) == 1 && req.Mission == nil
	if cacheable {
		if group, ok := s.cachedBaseline(ctx, req.BlockPaths[0]); ok {
			metrics.ObserveEvaluation(time.Since(start), metrics.OutcomeSuccess)
			return group, nil
		}
	}

	group := s.evaluator.EvaluateGroup(s.records, req.BlockPaths, mission)
	for _, block := range group.Blocks {
		metrics.AddExclusions(block.ExcludedCount)
	}

	duration := time.Since(start)
	s.observe(duration)
	metrics.ObserveEvaluation(duration, metrics.OutcomeSuccess)

	if cacheable {
		s.storeBaseline(ctx, req.BlockPaths[0], group)
	}
	return group, nil
}

// MonteCarlo runs uncertainty propagation for one block using the study
// pack's declarations.
func (s *AnalysisService) MonteCarlo(ctx context.Context, req models.MonteCarloRequest) (models.MonteCarloRun, error) {
	if _, ok := s.blockSet[req.BlockPath]; !ok {
		return models.MonteCarloRun{}, fmt.Errorf("%w: %s", ErrUnknownBlock, req.BlockPath)
	}
	if s.pack == nil {
		return models.MonteCarloRun{}, ErrNoStudy
	}
	draws, err := s.resolveDraws(req.Draws)
	if err != nil {
		return models.MonteCarloRun{}, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	declarations := s.pack.ForBlock(s.records, req.BlockPath)
	start := time.Now()
	run, err := s.monteCarlo.Run(ctx, s.records, req.BlockPath, declarations, draws, seed, s.resolveMission(req.Mission))
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveEvaluation(duration, metrics.OutcomeError)
		return models.MonteCarloRun{}, err
	}

	run.RunID = uuid.NewString()
	metrics.AddDraws(run.Draws)
	metrics.ObserveEvaluation(duration, metrics.OutcomeSuccess)
	s.observe(duration)

	s.logger.Info("monte carlo run",
		slog.String("run_id", run.RunID),
		slog.String("block", req.BlockPath),
		slog.Int("draws", run.Draws),
		slog.Duration("took", duration))
	return run, nil
}

// Sensitivity runs a one-at-a-time perturbation sweep for one block.
func (s *AnalysisService) Sensitivity(ctx context.Context, req models.SensitivityRequest) ([]models.SensitivityResult, error) {
	if _, ok := s.blockSet[req.BlockPath]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, req.BlockPath)
	}
	variation := req.Variation
	if variation == 0 {
		variation = s.limits.Variation
	}
	if variation < 0 || variation >= 1 {
		return nil, fmt.Errorf("%w: variation must be in (0, 1)", ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.sensitivity.OneAtATime(s.records, req.BlockPath, req.Targets, variation, s.resolveMission(req.Mission))
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveEvaluation(duration, metrics.OutcomeError)
		return nil, err
	}
	metrics.ObserveEvaluation(duration, metrics.OutcomeSuccess)
	s.observe(duration)
	return results, nil
}

// Sobol estimates variance-based sensitivity indices for one block using
// the study pack's declarations.
func (s *AnalysisService) Sobol(ctx context.Context, req models.SobolRequest) ([]models.SobolIndex, error) {
	if _, ok := s.blockSet[req.BlockPath]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, req.BlockPath)
	}
	if s.pack == nil {
		return nil, ErrNoStudy
	}
	draws, err := s.resolveDraws(req.Draws)
	if err != nil {
		return nil, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	declarations := s.pack.ForBlock(s.records, req.BlockPath)
	start := time.Now()
	indices, err := s.sensitivity.Sobol(ctx, s.records, req.BlockPath, declarations, draws, seed, s.resolveMission(req.Mission))
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveEvaluation(duration, metrics.OutcomeError)
		return nil, err
	}
	metrics.AddDraws(draws * (len(indices) + 2))
	metrics.ObserveEvaluation(duration, metrics.OutcomeSuccess)
	s.observe(duration)
	return indices, nil
}

func (s *AnalysisService) resolveMission(override *models.Mission) models.Mission {
	if override != nil {
		return *override
	}
	return s.mission
}

func (s *AnalysisService) resolveDraws(requested int) (int, error) {
	if requested == 0 {
		return s.limits.DefaultDraws, nil
	}
	if requested < 0 {
		return 0, fmt.Errorf("%w: draws must be positive", ErrInvalidRequest)
	}
	if requested > s.limits.MaxDraws {
		return 0, fmt.Errorf("%w: draws exceed the configured maximum of %d", ErrInvalidRequest, s.limits.MaxDraws)
	}
	return requested, nil
}

func (s *AnalysisService) observe(duration time.Duration) {
	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Int("samples", count))
	}
}

func baselineKey(blockPath string) string {
	return "baseline:" + blockPath
}

func (s *AnalysisService) cachedBaseline(ctx context.Context, blockPath string) (models.GroupResult, bool) {
	data, err := s.provider.Get(ctx, baselineKey(blockPath))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("baseline cache read failed", slog.Any("error", err))
		}
		return models.GroupResult{}, false
	}
	var group models.GroupResult
	if err := json.Unmarshal(data, &group); err != nil {
		s.logger.Warn("baseline cache entry corrupt, dropping", slog.String("block", blockPath))
		_ = s.provider.Del(ctx, baselineKey(blockPath))
		return models.GroupResult{}, false
	}
	return group, true
}

func (s *AnalysisService) storeBaseline(ctx context.Context, blockPath string, group models.GroupResult) {
	data, err := json.Marshal(group)
	if err != nil {
		return
	}
	if err := s.provider.Set(ctx, baselineKey(blockPath), data, s.cacheTTL); err != nil {
		s.logger.Warn("baseline cache write failed", slog.Any("error", err))
	}
}
