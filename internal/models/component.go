package models

// ComponentClass selects the applicable failure-rate model for a record.
type ComponentClass string

const (
	ClassIntegratedCircuit  ComponentClass = "integrated_circuit"
	ClassLowPowerDiode      ComponentClass = "low_power_diode"
	ClassPowerDiode         ComponentClass = "power_diode"
	ClassLowPowerTransistor ComponentClass = "low_power_transistor"
	ClassPowerTransistor    ComponentClass = "power_transistor"
	ClassCeramicCapacitor   ComponentClass = "ceramic_capacitor"
	ClassTantalumCapacitor  ComponentClass = "tantalum_capacitor"
	ClassResistor           ComponentClass = "resistor"
	ClassInductor           ComponentClass = "inductor"
	ClassPrimaryBattery     ComponentClass = "primary_battery"
	ClassConverterUnder10W  ComponentClass = "converter_under_10w"
	ClassConverterOver10W   ComponentClass = "converter_over_10w"
)

// Numeric parameter names shared by the model library, dispatcher, dataset
// loader and study laws. Values sampled by the Monte Carlo engine are keyed
// by these names.
const (
	ParamJunctionTemp     = "temperature_junction"
	ParamAmbientTemp      = "temperature_ambient"
	ParamConstructionYear = "construction_year"
	ParamPackageLambda    = "package_lambda"
	ParamLambda3          = "lambda3"
	ParamVceMax           = "vce_max"
	ParamVceMin           = "vce_min"
	ParamVdsMax           = "vds_max"
	ParamVdsMin           = "vds_min"
	ParamVgsMax           = "vgs_max"
	ParamVgsMin           = "vgs_min"
	ParamOperatingPower   = "operating_power"
	ParamRatedPower       = "rated_power"
	ParamPowerLoss        = "power_loss"
	ParamRadiatingSurface = "radiating_surface"
)

// knownParams is the closed set of numeric parameter names the dispatch
// layer understands, whether carried by a record or supplied as overrides.
var knownParams = map[string]struct{}{
	ParamJunctionTemp:     {},
	ParamAmbientTemp:      {},
	ParamConstructionYear: {},
	ParamPackageLambda:    {},
	ParamLambda3:          {},
	ParamVceMax:           {},
	ParamVceMin:           {},
	ParamVdsMax:           {},
	ParamVdsMin:           {},
	ParamVgsMax:           {},
	ParamVgsMin:           {},
	ParamOperatingPower:   {},
	ParamRatedPower:       {},
	ParamPowerLoss:        {},
	ParamRadiatingSurface: {},
}

// KnownParameter reports whether name is a recognized numeric parameter.
func KnownParameter(name string) bool {
	_, ok := knownParams[name]
	return ok
}

// Categorical attribute names carried by a record.
const (
	AttrCharacteristic    = "characteristic"
	AttrSubstrateMaterial = "substrate_material"
	AttrComponentMaterial = "component_material"
	AttrTransistorFamily  = "transistor_family"
	AttrDiodeFunction     = "diode_function"
	AttrInductorSubtype   = "inductor_subtype"
	AttrPackageType       = "package_type"
	AttrSurfaceSpec       = "surface_spec"
)

// ComponentRecord is one electronic part as parsed from the tabular source.
// Records are immutable after construction; analysis passes derive parameter
// sets from them without mutation.
type ComponentRecord struct {
	Reference string
	Class     ComponentClass
	BlockPath string
	Params    map[string]float64
	Attrs     map[string]string
}

// Param returns a numeric parameter and whether it is present.
func (r ComponentRecord) Param(name string) (float64, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// Attr returns a categorical attribute, or "" when absent.
func (r ComponentRecord) Attr(name string) string {
	return r.Attrs[name]
}

// Mission bundles the global mission constants consumed by every model call.
// A single immutable instance is shared across parallel draws.
type Mission struct {
	CyclesPerYear      float64
	CycleAmplitude     float64
	MissionHours       float64
	OverstressFactor   float64
	OverstressBaseline float64
}

// DefaultMission returns the standard mission profile (5 year mission).
func DefaultMission() Mission {
	return Mission{
		CyclesPerYear:      5256,
		CycleAmplitude:     3,
		MissionHours:       43800,
		OverstressFactor:   1,
		OverstressBaseline: 40,
	}
}
