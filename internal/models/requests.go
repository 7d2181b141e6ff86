package models

// EvaluateRequest asks for a deterministic evaluation of one or more blocks.
// Multiple blocks are combined in series.
type EvaluateRequest struct {
	BlockPaths []string
	Mission    *Mission
}

// MonteCarloRequest configures an uncertainty-propagation run.
type MonteCarloRequest struct {
	BlockPath string
	Draws     int
	Seed      int64
	Mission   *Mission
}

// ParameterTarget names one (component, parameter) pair for perturbation.
type ParameterTarget struct {
	Reference string
	Parameter string
}

// SensitivityRequest configures a one-at-a-time sensitivity sweep. An empty
// Targets list means every numeric parameter of every component in the block.
type SensitivityRequest struct {
	BlockPath string
	Variation float64
	Targets   []ParameterTarget
	Mission   *Mission
}

// SobolRequest configures a variance-based sensitivity estimation.
type SobolRequest struct {
	BlockPath string
	Draws     int
	Seed      int64
	Mission   *Mission
}
