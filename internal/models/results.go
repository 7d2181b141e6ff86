package models

import "time"

// FailureRateResult is the per-component outcome of one evaluation pass.
// Created fresh on every pass and never mutated.
type FailureRateResult struct {
	Reference       string
	Class           ComponentClass
	FailureRate     float64
	Reliability     float64
	Excluded        bool
	ExclusionReason string
	Anomalies       []string
}

// BlockResult aggregates the non-excluded results sharing a block path.
// Components is populated on deterministic reporting passes only; sampling
// passes leave it nil.
type BlockResult struct {
	BlockPath        string
	TotalFailureRate float64
	Reliability      float64
	ComponentCount   int
	ExcludedCount    int
	Degenerate       bool
	ExclusionPreview []string
	OmittedReasons   int
	Components       []FailureRateResult
}

// GroupResult combines several block results in series.
type GroupResult struct {
	Blocks           []BlockResult
	TotalFailureRate float64
	Reliability      float64
}

// ConfidenceInterval is a percentile-based interval for a sampled quantity.
type ConfidenceInterval struct {
	Level float64
	Lower float64
	Upper float64
}

// ConvergencePoint records the running mean of lambda after a draw prefix.
type ConvergencePoint struct {
	Draws      int
	LambdaMean float64
}

// MonteCarloRun summarises one uncertainty-propagation run for a block.
// The artifact is owned by the engine that produced it and discarded after
// reporting.
type MonteCarloRun struct {
	RunID              string
	BlockPath          string
	Draws              int
	Seed               int64
	Interrupted        bool
	LambdaMean         float64
	LambdaStdDev       float64
	ReliabilityMean    float64
	ReliabilityStdDev  float64
	ReliabilityCI      ConfidenceInterval
	Convergence        []ConvergencePoint
	LambdaSamples      []float64
	ReliabilitySamples []float64
	CreatedAt          time.Time
}

// Impact classifies the magnitude of a sensitivity coefficient.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// SensitivityResult is one row of a one-at-a-time sensitivity table.
type SensitivityResult struct {
	Reference   string
	Parameter   string
	Baseline    float64
	BaselineR   float64
	IncreasedR  float64
	DecreasedR  float64
	Coefficient float64
	Impact      Impact
}

// SobolIndex attributes a share of block reliability variance to one
// uncertain parameter.
type SobolIndex struct {
	Target     string
	Parameter  string
	FirstOrder float64
	TotalOrder float64
}
