package dataset

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/utils"
)

// Column headers of the exported component sheet.
const (
	colReference        = "Reference"
	colClass            = "Class"
	colSheet            = "Sheet"
	colJunctionTemp     = "Temperature_Junction"
	colAmbientTemp      = "Temperature_Ambiant"
	colConstructionDate = "Construction Date"
	colTransistorType   = "Transistor type"
	colVceMax           = "Max repetitive VCE"
	colVceMin           = "Min specified VCE"
	colVdsMax           = "Max applied VDS"
	colVdsMin           = "Min specified VDS"
	colVgsMax           = "Max applied VGS"
	colVgsMin           = "Min specified VGS"
	colOperatingPower   = "Operating_Power"
	colRatedPower       = "Rated_Power"
	colPowerLoss        = "Power loss"
	colSurface          = "Radiating surface"
	colDiodeType        = "diode_type"
	colSubstrate        = "alpha_s"
	colComponent        = "alpha_c"
	colCharacteristic   = "Table 16"
	colPackageType      = "Table 18"
	colLambda3          = "Lam3"
	colInductorType     = "Inductor type"
)

// classTags maps the sheet's class labels to the internal class enum.
var classTags = map[string]models.ComponentClass{
	"Integrated Circuit (7)":     models.ClassIntegratedCircuit,
	"Low power diode (8.2)":      models.ClassLowPowerDiode,
	"Power diodes (8.3)":         models.ClassPowerDiode,
	"Low Power transistor (8.4)": models.ClassLowPowerTransistor,
	"Power Transistor (8.5)":     models.ClassPowerTransistor,
	"Ceramic Capacitor (10.3)":   models.ClassCeramicCapacitor,
	"Tantlum Capacitor (10.4)":   models.ClassTantalumCapacitor,
	"Resistor (11.1)":            models.ClassResistor,
	"Inductor (12)":              models.ClassInductor,
	"Primary batteries (19.1)":   models.ClassPrimaryBattery,
	"Converter <10W (19.6)":      models.ClassConverterUnder10W,
	"Converter >10W (19.6)":      models.ClassConverterOver10W,
}

// numericColumns maps sheet columns straight onto record parameters.
var numericColumns = map[string]string{
	colJunctionTemp:   models.ParamJunctionTemp,
	colAmbientTemp:    models.ParamAmbientTemp,
	colVceMax:         models.ParamVceMax,
	colVceMin:         models.ParamVceMin,
	colVdsMax:         models.ParamVdsMax,
	colVdsMin:         models.ParamVdsMin,
	colVgsMax:         models.ParamVgsMax,
	colVgsMin:         models.ParamVgsMin,
	colOperatingPower: models.ParamOperatingPower,
	colRatedPower:     models.ParamRatedPower,
	colPowerLoss:      models.ParamPowerLoss,
	colLambda3:        models.ParamLambda3,
}

// attrColumns maps sheet columns onto categorical attributes.
var attrColumns = map[string]string{
	colDiodeType:      models.AttrDiodeFunction,
	colSubstrate:      models.AttrSubstrateMaterial,
	colComponent:      models.AttrComponentMaterial,
	colCharacteristic: models.AttrCharacteristic,
	colPackageType:    models.AttrPackageType,
	colInductorType:   models.AttrInductorSubtype,
}

// CSVSource loads component records from a CSV export of the component
// sheet. Blank or NaN cells simply leave the parameter absent; the
// dispatcher decides whether that excludes the record.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource constructs a source reading the file at path.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{path: path, logger: logger}
}

// Load parses the whole file. Rows without a class tag are dropped with a
// warning; every other parse decision is deferred to evaluation time.
func (s *CSVSource) Load(ctx context.Context) ([]models.ComponentRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, utils.NewAppError("dataset", "open component sheet", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, utils.NewAppError("dataset", "parse component sheet", err)
	}
	if len(rows) < 1 {
		return nil, utils.NewAppError("dataset", "component sheet is empty", nil)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colReference, colClass, colSheet} {
		if _, ok := header[required]; !ok {
			return nil, utils.NewAppError("dataset", "missing required column "+required, nil)
		}
	}

	records := make([]models.ComponentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, utils.NewAppError("dataset", "cancelled while loading", err)
		}

		cell := func(name string) string {
			i, ok := header[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		reference := cell(colReference)
		classLabel := cell(colClass)
		if classLabel == "" {
			s.logger.Warn("row has no class tag, dropping", slog.String("reference", reference))
			continue
		}

		rec := models.ComponentRecord{
			Reference: reference,
			Class:     resolveClass(classLabel),
			BlockPath: cell(colSheet),
			Params:    make(map[string]float64),
			Attrs:     make(map[string]string),
		}

		for column, param := range numericColumns {
			if v, ok := parseCell(cell(column)); ok {
				rec.Params[param] = v
			}
		}
		for column, attr := range attrColumns {
			if v := cell(column); v != "" {
				rec.Attrs[attr] = v
			}
		}

		if v := cell(colConstructionDate); v != "" {
			if year, err := utils.ParseConstructionYear(v); err == nil {
				rec.Params[models.ParamConstructionYear] = year
			} else {
				s.logger.Warn("unparseable construction date",
					slog.String("reference", reference),
					slog.String("value", v))
			}
		}

		// The transistor family is derived, not stored: any label
		// mentioning MOS is MOS, everything else is bipolar.
		if v := cell(colTransistorType); v != "" {
			family := "Bipolar"
			if strings.Contains(strings.ToUpper(v), "MOS") {
				family = "MOS"
			}
			rec.Attrs[models.AttrTransistorFamily] = family
		}

		// A numeric surface cell is already in dm²; a "W x H" string is
		// kept verbatim for the dispatcher to parse.
		if v := cell(colSurface); v != "" {
			if area, ok := parseCell(v); ok {
				rec.Params[models.ParamRadiatingSurface] = area
			} else {
				rec.Attrs[models.AttrSurfaceSpec] = v
			}
		}

		records = append(records, rec)
	}

	s.logger.Info("component sheet loaded",
		slog.String("path", s.path),
		slog.Int("records", len(records)),
		slog.Int("blocks", len(BlockPaths(records))))
	return records, nil
}

// resolveClass accepts both the sheet's labels and the internal tags, so
// hand-written datasets do not need the standard's section numbering.
func resolveClass(label string) models.ComponentClass {
	if class, ok := classTags[label]; ok {
		return class
	}
	return models.ComponentClass(label)
}

// parseCell reads a numeric cell, treating blanks and NaN markers as absent.
func parseCell(value string) (float64, bool) {
	if value == "" || strings.EqualFold(value, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
