package catalog

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/kiso-design/intake-cli/internal/model"
)

// LoadFieldsFromFile reads a JSON array of FieldSpec from the given path.
// Used to override the built-in pattern table without a rebuild.
func LoadFieldsFromFile(path string) ([]FieldSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read fields fixture")
	}

	var fields []FieldSpec
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, eris.Wrap(err, "catalog: unmarshal fields fixture")
	}

	return fields, nil
}

// LoadPhasesFromFile reads a YAML list of phase definitions.
func LoadPhasesFromFile(path string) ([]model.PhaseDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read phases fixture")
	}

	var phases []model.PhaseDefinition
	if err := yaml.Unmarshal(data, &phases); err != nil {
		return nil, eris.Wrap(err, "catalog: unmarshal phases fixture")
	}

	return phases, nil
}

// LoadOrDefault builds a catalog from the optional fixture paths, falling
// back to the built-in table for whichever path is empty.
func LoadOrDefault(fieldsPath, phasesPath string) (*Catalog, error) {
	fields := defaultFields
	phases := defaultPhases

	if fieldsPath != "" {
		loaded, err := LoadFieldsFromFile(fieldsPath)
		if err != nil {
			return nil, err
		}
		fields = loaded
	}
	if phasesPath != "" {
		loaded, err := LoadPhasesFromFile(phasesPath)
		if err != nil {
			return nil, err
		}
		phases = loaded
	}

	return New(fields, phases)
}
