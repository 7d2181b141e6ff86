package api

import (
	"time"

	"github.com/reliastack/relia-engine/internal/models"
)

// MissionDTO overrides the mission profile for one request. Zero fields
// fall back to the configured defaults.
type MissionDTO struct {
	CyclesPerYear      float64 `json:"cyclesPerYear"`
	CycleAmplitude     float64 `json:"cycleAmplitude"`
	MissionHours       float64 `json:"missionHours"`
	OverstressFactor   float64 `json:"overstressFactor"`
	OverstressBaseline float64 `json:"overstressBaseline"`
}

// EvaluateRequestDTO asks for a deterministic evaluation of named blocks.
type EvaluateRequestDTO struct {
	BlockPaths []string    `json:"blockPaths"`
	Mission    *MissionDTO `json:"mission,omitempty"`
}

// MonteCarloRequestDTO configures an uncertainty-propagation run.
type MonteCarloRequestDTO struct {
	BlockPath string      `json:"blockPath"`
	Draws     int         `json:"draws"`
	Seed      int64       `json:"seed"`
	Mission   *MissionDTO `json:"mission,omitempty"`
}

// SensitivityRequestDTO configures a one-at-a-time sweep.
type SensitivityRequestDTO struct {
	BlockPath string               `json:"blockPath"`
	Variation float64              `json:"variation"`
	Targets   []ParameterTargetDTO `json:"targets,omitempty"`
	Mission   *MissionDTO          `json:"mission,omitempty"`
}

// ParameterTargetDTO names one (component, parameter) pair.
type ParameterTargetDTO struct {
	Reference string `json:"reference"`
	Parameter string `json:"parameter"`
}

// SobolRequestDTO configures a variance-based sensitivity estimation.
type SobolRequestDTO struct {
	BlockPath string      `json:"blockPath"`
	Draws     int         `json:"draws"`
	Seed      int64       `json:"seed"`
	Mission   *MissionDTO `json:"mission,omitempty"`
}

// FailureRateResultDTO is one row of the per-component evaluation table.
type FailureRateResultDTO struct {
	Reference       string   `json:"reference"`
	Class           string   `json:"class"`
	FailureRate     float64  `json:"failureRate"`
	Reliability     float64  `json:"reliability"`
	Excluded        bool     `json:"excluded"`
	ExclusionReason string   `json:"exclusionReason,omitempty"`
	Anomalies       []string `json:"anomalies,omitempty"`
}

// BlockResultDTO is the wire form of one evaluated block.
type BlockResultDTO struct {
	BlockPath        string                 `json:"blockPath"`
	TotalFailureRate float64                `json:"totalFailureRate"`
	Reliability      float64                `json:"reliability"`
	ComponentCount   int                    `json:"componentCount"`
	ExcludedCount    int                    `json:"excludedCount"`
	Degenerate       bool                   `json:"degenerate"`
	ExclusionPreview []string               `json:"exclusionPreview,omitempty"`
	OmittedReasons   int                    `json:"omittedReasons,omitempty"`
	Components       []FailureRateResultDTO `json:"components,omitempty"`
}

// GroupResultDTO is the wire form of a series combination of blocks.
type GroupResultDTO struct {
	Blocks           []BlockResultDTO `json:"blocks"`
	TotalFailureRate float64          `json:"totalFailureRate"`
	Reliability      float64          `json:"reliability"`
}

// ConfidenceIntervalDTO is a percentile interval on a sampled quantity.
type ConfidenceIntervalDTO struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ConvergencePointDTO is one running-mean checkpoint.
type ConvergencePointDTO struct {
	Draws      int     `json:"draws"`
	LambdaMean float64 `json:"lambdaMean"`
}

// MonteCarloRunDTO summarises one uncertainty-propagation run.
type MonteCarloRunDTO struct {
	RunID             string                `json:"runId"`
	BlockPath         string                `json:"blockPath"`
	Draws             int                   `json:"draws"`
	Seed              int64                 `json:"seed"`
	Interrupted       bool                  `json:"interrupted"`
	LambdaMean        float64               `json:"lambdaMean"`
	LambdaStdDev      float64               `json:"lambdaStdDev"`
	ReliabilityMean   float64               `json:"reliabilityMean"`
	ReliabilityStdDev float64               `json:"reliabilityStdDev"`
	ReliabilityCI     ConfidenceIntervalDTO `json:"reliabilityCI"`
	Convergence       []ConvergencePointDTO `json:"convergence"`
	CreatedAt         time.Time             `json:"createdAt"`
}

// SensitivityResultDTO is one ranked row of a sensitivity sweep.
type SensitivityResultDTO struct {
	Reference   string  `json:"reference"`
	Parameter   string  `json:"parameter"`
	Baseline    float64 `json:"baseline"`
	Coefficient float64 `json:"coefficient"`
	Impact      string  `json:"impact"`
}

// SobolIndexDTO attributes variance to one uncertain parameter.
type SobolIndexDTO struct {
	Target     string  `json:"target"`
	Parameter  string  `json:"parameter"`
	FirstOrder float64 `json:"firstOrder"`
	TotalOrder float64 `json:"totalOrder"`
}

func toMission(dto *MissionDTO) *models.Mission {
	if dto == nil {
		return nil
	}
	m := models.DefaultMission()
	if dto.CyclesPerYear > 0 {
		m.CyclesPerYear = dto.CyclesPerYear
	}
	if dto.CycleAmplitude > 0 {
		m.CycleAmplitude = dto.CycleAmplitude
	}
	if dto.MissionHours > 0 {
		m.MissionHours = dto.MissionHours
	}
	if dto.OverstressFactor > 0 {
		m.OverstressFactor = dto.OverstressFactor
	}
	if dto.OverstressBaseline > 0 {
		m.OverstressBaseline = dto.OverstressBaseline
	}
	return &m
}

func toEvaluateRequest(dto EvaluateRequestDTO) models.EvaluateRequest {
	return models.EvaluateRequest{BlockPaths: dto.BlockPaths, Mission: toMission(dto.Mission)}
}

func toMonteCarloRequest(dto MonteCarloRequestDTO) models.MonteCarloRequest {
	return models.MonteCarloRequest{
		BlockPath: dto.BlockPath,
		Draws:     dto.Draws,
		Seed:      dto.Seed,
		Mission:   toMission(dto.Mission),
	}
}

func toSensitivityRequest(dto SensitivityRequestDTO) models.SensitivityRequest {
	targets := make([]models.ParameterTarget, 0, len(dto.Targets))
	for _, t := range dto.Targets {
		targets = append(targets, models.ParameterTarget{Reference: t.Reference, Parameter: t.Parameter})
	}
	return models.SensitivityRequest{
		BlockPath: dto.BlockPath,
		Variation: dto.Variation,
		Targets:   targets,
		Mission:   toMission(dto.Mission),
	}
}

func toSobolRequest(dto SobolRequestDTO) models.SobolRequest {
	return models.SobolRequest{
		BlockPath: dto.BlockPath,
		Draws:     dto.Draws,
		Seed:      dto.Seed,
		Mission:   toMission(dto.Mission),
	}
}

func fromBlockResult(block models.BlockResult) BlockResultDTO {
	components := make([]FailureRateResultDTO, 0, len(block.Components))
	for _, r := range block.Components {
		components = append(components, FailureRateResultDTO{
			Reference:       r.Reference,
			Class:           string(r.Class),
			FailureRate:     r.FailureRate,
			Reliability:     r.Reliability,
			Excluded:        r.Excluded,
			ExclusionReason: r.ExclusionReason,
			Anomalies:       r.Anomalies,
		})
	}
	return BlockResultDTO{
		BlockPath:        block.BlockPath,
		TotalFailureRate: block.TotalFailureRate,
		Reliability:      block.Reliability,
		ComponentCount:   block.ComponentCount,
		ExcludedCount:    block.ExcludedCount,
		Degenerate:       block.Degenerate,
		ExclusionPreview: block.ExclusionPreview,
		OmittedReasons:   block.OmittedReasons,
		Components:       components,
	}
}

func fromGroupResult(group models.GroupResult) GroupResultDTO {
	blocks := make([]BlockResultDTO, 0, len(group.Blocks))
	for _, block := range group.Blocks {
		blocks = append(blocks, fromBlockResult(block))
	}
	return GroupResultDTO{
		Blocks:           blocks,
		TotalFailureRate: group.TotalFailureRate,
		Reliability:      group.Reliability,
	}
}

func fromMonteCarloRun(run models.MonteCarloRun) MonteCarloRunDTO {
	convergence := make([]ConvergencePointDTO, 0, len(run.Convergence))
	for _, point := range run.Convergence {
		convergence = append(convergence, ConvergencePointDTO{Draws: point.Draws, LambdaMean: point.LambdaMean})
	}
	return MonteCarloRunDTO{
		RunID:             run.RunID,
		BlockPath:         run.BlockPath,
		Draws:             run.Draws,
		Seed:              run.Seed,
		Interrupted:       run.Interrupted,
		LambdaMean:        run.LambdaMean,
		LambdaStdDev:      run.LambdaStdDev,
		ReliabilityMean:   run.ReliabilityMean,
		ReliabilityStdDev: run.ReliabilityStdDev,
		ReliabilityCI: ConfidenceIntervalDTO{
			Level: run.ReliabilityCI.Level,
			Lower: run.ReliabilityCI.Lower,
			Upper: run.ReliabilityCI.Upper,
		},
		Convergence: convergence,
		CreatedAt:   run.CreatedAt,
	}
}

func fromSensitivityResults(results []models.SensitivityResult) []SensitivityResultDTO {
	out := make([]SensitivityResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, SensitivityResultDTO{
			Reference:   r.Reference,
			Parameter:   r.Parameter,
			Baseline:    r.Baseline,
			Coefficient: r.Coefficient,
			Impact:      string(r.Impact),
		})
	}
	return out
}

func fromSobolIndices(indices []models.SobolIndex) []SobolIndexDTO {
	out := make([]SobolIndexDTO, 0, len(indices))
	for _, idx := range indices {
		out = append(out, SobolIndexDTO{
			Target:     idx.Target,
			Parameter:  idx.Parameter,
			FirstOrder: idx.FirstOrder,
			TotalOrder: idx.TotalOrder,
		})
	}
	return out
}
