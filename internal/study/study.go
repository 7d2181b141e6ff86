package study

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reliastack/relia-engine/internal/models"
	"github.com/reliastack/relia-engine/internal/utils"
)

// lawEntry is the YAML shape of a probability law.
type lawEntry struct {
	Kind   string  `yaml:"kind"`
	Low    float64 `yaml:"low"`
	High   float64 `yaml:"high"`
	First  float64 `yaml:"first"`
	Second float64 `yaml:"second"`
}

// parameterEntry binds one target/parameter pair to a law.
type parameterEntry struct {
	Target    string   `yaml:"target"`
	Parameter string   `yaml:"parameter"`
	Law       lawEntry `yaml:"law"`
}

// packFile is the YAML root structure of a study pack.
type packFile struct {
	UncertainParameters []parameterEntry `yaml:"uncertain_parameters"`
}

// Pack is a validated set of uncertain-parameter declarations.
type Pack struct {
	Parameters []models.UncertainParameter
	logger     *slog.Logger
}

// Load reads a study pack from path. An empty path returns a nil pack so
// deterministic-only deployments need no study file.
func Load(path string, logger *slog.Logger) (*Pack, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewAppError("study", "read study pack", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var file packFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, utils.NewAppError("study", "parse study pack", err)
	}
	if len(file.UncertainParameters) == 0 {
		return nil, utils.NewAppError("study", "study pack declares no uncertain parameters", nil)
	}

	pack := &Pack{
		Parameters: make([]models.UncertainParameter, 0, len(file.UncertainParameters)),
		logger:     logger,
	}
	for i, entry := range file.UncertainParameters {
		up, err := convertEntry(entry)
		if err != nil {
			return nil, utils.NewAppError("study", fmt.Sprintf("entry %d", i), err)
		}
		pack.Parameters = append(pack.Parameters, up)
	}

	logger.Info("study pack loaded",
		slog.String("path", path),
		slog.Int("parameters", len(pack.Parameters)))
	return pack, nil
}

func convertEntry(entry parameterEntry) (models.UncertainParameter, error) {
	if entry.Target == "" {
		return models.UncertainParameter{}, fmt.Errorf("target is required")
	}
	if entry.Parameter == "" {
		return models.UncertainParameter{}, fmt.Errorf("parameter is required")
	}

	law := models.Law{
		Kind:   models.LawKind(entry.Law.Kind),
		Low:    entry.Law.Low,
		High:   entry.Law.High,
		First:  entry.Law.First,
		Second: entry.Law.Second,
	}
	switch law.Kind {
	case models.LawUniform:
		if law.High < law.Low {
			return models.UncertainParameter{}, fmt.Errorf("uniform law for %s/%s has high < low", entry.Target, entry.Parameter)
		}
	case models.LawTwoPoint:
		// Any pair of values is legal, including equal ones.
	default:
		return models.UncertainParameter{}, fmt.Errorf("unknown law kind %q", entry.Law.Kind)
	}

	return models.UncertainParameter{Target: entry.Target, Parameter: entry.Parameter, Law: law}, nil
}

// Validate checks every declaration against the loaded dataset: the target
// must name a known component reference or class, and the parameter must be
// one the dispatch layer recognizes. Overrides may name parameters a record
// does not carry, such as a package base rate normally served by the
// package-type table. Faults are reported here, at setup, never mid-run.
func (p *Pack) Validate(records []models.ComponentRecord) error {
	if p == nil {
		return nil
	}
	for _, up := range p.Parameters {
		if !models.KnownParameter(up.Parameter) {
			return utils.NewAppError("study", fmt.Sprintf("unrecognized parameter %q for target %q", up.Parameter, up.Target), nil)
		}
		matched := false
		for _, rec := range records {
			if rec.Reference == up.Target || string(rec.Class) == up.Target {
				matched = true
				break
			}
		}
		if !matched {
			return utils.NewAppError("study", fmt.Sprintf("target %q matches no component or class in the dataset", up.Target), nil)
		}
	}
	return nil
}

// ForBlock returns the declarations whose target matches at least one
// record of the block.
func (p *Pack) ForBlock(records []models.ComponentRecord, blockPath string) []models.UncertainParameter {
	if p == nil {
		return nil
	}
	out := make([]models.UncertainParameter, 0, len(p.Parameters))
	for _, up := range p.Parameters {
		for _, rec := range records {
			if rec.BlockPath != blockPath {
				continue
			}
			if rec.Reference == up.Target || string(rec.Class) == up.Target {
				out = append(out, up)
				break
			}
		}
	}
	return out
}
