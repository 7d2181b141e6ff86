package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/reliastack/relia-engine/internal/iec62380"
	"github.com/reliastack/relia-engine/internal/models"
)

// Overrides carries derived parameter values keyed by component reference
// then parameter name. Records themselves are never mutated; a sampling or
// perturbation pass expresses itself entirely through overrides.
type Overrides map[string]map[string]float64

// Set records an override value, allocating the inner map on first use.
func (o Overrides) Set(reference, parameter string, value float64) {
	if o[reference] == nil {
		o[reference] = make(map[string]float64)
	}
	o[reference][parameter] = value
}

// paramSet resolves a record's numeric parameters with overrides applied.
type paramSet struct {
	rec       models.ComponentRecord
	overrides map[string]float64
}

func (p paramSet) value(name string) (float64, bool) {
	if v, ok := p.overrides[name]; ok {
		return v, true
	}
	return p.rec.Param(name)
}

func (p paramSet) valueOr(name string, fallback float64) float64 {
	if v, ok := p.value(name); ok {
		return v
	}
	return fallback
}

// evalFunc computes a failure rate for a validated record. The string slice
// reports non-fatal data-quality anomalies.
type evalFunc func(ps paramSet, m models.Mission) (float64, []string)

// classSpec describes one component class: the fields that must be present
// and the model that consumes them.
type classSpec struct {
	requiredParams []string
	requiredAttrs  []string
	eval           evalFunc
}

// classSpecs is the closed dispatch table. Adding a component class means
// adding one entry here.
var classSpecs = map[models.ComponentClass]classSpec{
	models.ClassIntegratedCircuit: {
		requiredParams: []string{models.ParamConstructionYear, models.ParamJunctionTemp},
		requiredAttrs:  []string{models.AttrCharacteristic, models.AttrSubstrateMaterial, models.AttrComponentMaterial},
		eval:           evalIntegratedCircuit,
	},
	models.ClassLowPowerDiode: {
		requiredParams: []string{models.ParamJunctionTemp},
		requiredAttrs:  []string{models.AttrDiodeFunction},
		eval:           evalDiode(false),
	},
	models.ClassPowerDiode: {
		requiredParams: []string{models.ParamJunctionTemp},
		requiredAttrs:  []string{models.AttrDiodeFunction},
		eval:           evalDiode(true),
	},
	models.ClassLowPowerTransistor: {
		requiredParams: []string{models.ParamJunctionTemp},
		eval:           evalTransistor(false),
	},
	models.ClassPowerTransistor: {
		requiredParams: []string{models.ParamJunctionTemp},
		eval:           evalTransistor(true),
	},
	models.ClassCeramicCapacitor: {
		requiredParams: []string{models.ParamAmbientTemp},
		eval:           evalCapacitor(iec62380.DielectricCeramic),
	},
	models.ClassTantalumCapacitor: {
		requiredParams: []string{models.ParamAmbientTemp},
		eval:           evalCapacitor(iec62380.DielectricTantalum),
	},
	models.ClassResistor: {
		requiredParams: []string{models.ParamAmbientTemp, models.ParamOperatingPower, models.ParamRatedPower},
		eval:           evalResistor,
	},
	models.ClassInductor: {
		requiredParams: []string{models.ParamAmbientTemp, models.ParamPowerLoss},
		eval:           evalInductor,
	},
	models.ClassPrimaryBattery: {
		eval: func(paramSet, models.Mission) (float64, []string) { return iec62380.PrimaryBattery(), nil },
	},
	models.ClassConverterUnder10W: {
		eval: func(_ paramSet, m models.Mission) (float64, []string) { return iec62380.Converter(true, m), nil },
	},
	models.ClassConverterOver10W: {
		eval: func(_ paramSet, m models.Mission) (float64, []string) { return iec62380.Converter(false, m), nil },
	},
}

// Dispatcher routes component records to their class model, validating
// inputs and converting every fault into an exclusion so a bad record never
// aborts the batch.
type Dispatcher struct {
	logger *slog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Evaluate computes one FailureRateResult for a record under the given
// mission constants and optional parameter overrides. It never panics past
// this boundary.
func (d *Dispatcher) Evaluate(rec models.ComponentRecord, overrides map[string]float64, m models.Mission) (result models.FailureRateResult) {
	result = models.FailureRateResult{Reference: rec.Reference, Class: rec.Class}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("model evaluation fault",
				slog.String("reference", rec.Reference),
				slog.Any("fault", r))
			result.Excluded = true
			result.ExclusionReason = fmt.Sprintf("model evaluation failed: %v", r)
			result.FailureRate = 0
			result.Reliability = 0
		}
	}()

	spec, ok := classSpecs[rec.Class]
	if !ok {
		result.Excluded = true
		result.ExclusionReason = fmt.Sprintf("unrecognized class %q", rec.Class)
		return result
	}

	ps := paramSet{rec: rec, overrides: overrides}
	if missing := missingFields(ps, spec); len(missing) > 0 {
		result.Excluded = true
		result.ExclusionReason = "missing required parameters: " + strings.Join(missing, ", ")
		return result
	}

	if rec.Class == models.ClassResistor {
		if rated, _ := ps.value(models.ParamRatedPower); rated <= 0 {
			result.Excluded = true
			result.ExclusionReason = fmt.Sprintf("%s must be positive", models.ParamRatedPower)
			return result
		}
	}

	if rec.Class == models.ClassInductor {
		_, hasArea := ps.value(models.ParamRadiatingSurface)
		if !hasArea && rec.Attr(models.AttrSurfaceSpec) == "" {
			result.Excluded = true
			result.ExclusionReason = "missing required parameters: " + models.ParamRadiatingSurface
			return result
		}
	}

	lambda, anomalies := spec.eval(ps, m)
	result.FailureRate = lambda
	result.Reliability = iec62380.ReliabilityFromFailureRate(lambda, m.MissionHours)
	result.Anomalies = anomalies
	return result
}

func missingFields(ps paramSet, spec classSpec) []string {
	missing := make([]string, 0)
	for _, name := range spec.requiredParams {
		if _, ok := ps.value(name); !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range spec.requiredAttrs {
		if ps.rec.Attr(name) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func evalIntegratedCircuit(ps paramSet, m models.Mission) (float64, []string) {
	p := iec62380.ICParams{
		Characteristic:    ps.rec.Attr(models.AttrCharacteristic),
		ConstructionYear:  ps.valueOr(models.ParamConstructionYear, 0),
		JunctionTemp:      ps.valueOr(models.ParamJunctionTemp, 0),
		SubstrateMaterial: ps.rec.Attr(models.AttrSubstrateMaterial),
		ComponentMaterial: ps.rec.Attr(models.AttrComponentMaterial),
		Lambda3:           ps.valueOr(models.ParamLambda3, iec62380.DefaultLambda3),
	}
	return iec62380.IntegratedCircuit(p, m), nil
}

func evalDiode(power bool) evalFunc {
	return func(ps paramSet, m models.Mission) (float64, []string) {
		p := iec62380.DiodeParams{
			Function:      ps.rec.Attr(models.AttrDiodeFunction),
			Power:         power,
			JunctionTemp:  ps.valueOr(models.ParamJunctionTemp, 0),
			PackageLambda: packageLambda(ps),
		}
		return iec62380.Diode(p, m), nil
	}
}

func evalTransistor(power bool) evalFunc {
	return func(ps paramSet, m models.Mission) (float64, []string) {
		family := ps.rec.Attr(models.AttrTransistorFamily)
		if family == "" {
			family = iec62380.FamilyBipolar
		}
		p := iec62380.TransistorParams{
			Family:        family,
			Power:         power,
			JunctionTemp:  ps.valueOr(models.ParamJunctionTemp, 0),
			PackageLambda: packageLambda(ps),
			VceMax:        ps.valueOr(models.ParamVceMax, 0),
			VceMin:        ps.valueOr(models.ParamVceMin, 1),
			VdsMax:        ps.valueOr(models.ParamVdsMax, 0),
			VdsMin:        ps.valueOr(models.ParamVdsMin, 1),
			VgsMax:        ps.valueOr(models.ParamVgsMax, 0),
			VgsMin:        ps.valueOr(models.ParamVgsMin, 1),
		}
		return iec62380.Transistor(p, m), nil
	}
}

func evalCapacitor(d iec62380.Dielectric) evalFunc {
	return func(ps paramSet, m models.Mission) (float64, []string) {
		p := iec62380.CapacitorParams{
			Dielectric:  d,
			AmbientTemp: ps.valueOr(models.ParamAmbientTemp, 0),
		}
		return iec62380.Capacitor(p, m), nil
	}
}

func evalResistor(ps paramSet, m models.Mission) (float64, []string) {
	p := iec62380.ResistorParams{
		AmbientTemp:    ps.valueOr(models.ParamAmbientTemp, 0),
		OperatingPower: ps.valueOr(models.ParamOperatingPower, 0),
		RatedPower:     ps.valueOr(models.ParamRatedPower, 0),
	}
	return iec62380.Resistor(p, m), nil
}

func evalInductor(ps paramSet, m models.Mission) (float64, []string) {
	subtype := ps.rec.Attr(models.AttrInductorSubtype)
	if subtype == "" {
		subtype = "Power Inductor"
	}

	var anomalies []string
	area, ok := ps.value(models.ParamRadiatingSurface)
	if !ok {
		spec := ps.rec.Attr(models.AttrSurfaceSpec)
		parsed, err := iec62380.ParseRadiatingSurface(spec)
		if err != nil {
			anomalies = append(anomalies, fmt.Sprintf("%v; using fallback surface %v dm²", err, iec62380.FallbackRadiatingSurface))
			parsed = iec62380.FallbackRadiatingSurface
		}
		area = parsed
	}

	p := iec62380.InductorParams{
		Kind:        "inductor",
		Subtype:     subtype,
		AmbientTemp: ps.valueOr(models.ParamAmbientTemp, 0),
		PowerLoss:   ps.valueOr(models.ParamPowerLoss, 0),
		SurfaceArea: area,
	}
	return iec62380.Inductor(p, m), anomalies
}

// packageLambda resolves the package base rate: an explicit numeric
// parameter (possibly sampled) wins, otherwise the package-type table.
func packageLambda(ps paramSet) float64 {
	if v, ok := ps.value(models.ParamPackageLambda); ok {
		return v
	}
	return iec62380.PackageLambda(ps.rec.Attr(models.AttrPackageType))
}
