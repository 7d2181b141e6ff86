package models

// LawKind enumerates the supported probability laws for uncertain parameters.
type LawKind string

const (
	LawUniform  LawKind = "uniform"
	LawTwoPoint LawKind = "two_point"
)

// Law declares the probability distribution of an uncertain parameter.
// Uniform draws from [Low, High]; TwoPoint draws First or Second with equal
// probability.
type Law struct {
	Kind   LawKind
	Low    float64
	High   float64
	First  float64
	Second float64
}

// UncertainParameter binds a (target, parameter) pair to a declared law.
// Target is either a component reference (e.g. "Q5") or a component class
// tag, in which case the law applies to every record of that class.
// Immutable configuration data; never derived from a ComponentRecord.
type UncertainParameter struct {
	Target    string
	Parameter string
	Law       Law
}
