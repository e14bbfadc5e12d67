package plan

import (
	"gopkg.in/yaml.v3"

	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/schema"
)

// Document is the YAML form of an UpgradePlan.
type Document struct {
	Version      string      `yaml:"version"`
	Types        []PairDoc   `yaml:"types"`
	Fields       []PairDoc   `yaml:"fields"`
	Hints        hint.List   `yaml:"hints"`
	SchemaHints  schema.List `yaml:"schema_hints"`
	Explanations []string    `yaml:"explanations,omitempty"`
}

// PairDoc is one old -> new mapping entry.
type PairDoc struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Export converts a plan into its document form. Fields are listed as "Type.Field".
func Export(plan *UpgradePlan, explain bool) *Document {
	doc := &Document{
		Version:     "1",
		Types:       []PairDoc{},
		Fields:      []PairDoc{},
		Hints:       plan.Hints,
		SchemaHints: schema.List(plan.SchemaHints),
	}

	for _, oldType := range plan.Types.Keys() {
		newType, _ := plan.Types.Get(oldType)
		doc.Types = append(doc.Types, PairDoc{Old: oldType.Name, New: newType.Name})
	}

	for _, oldField := range plan.Fields.Keys() {
		newField, _ := plan.Fields.Get(oldField)
		doc.Fields = append(doc.Fields, PairDoc{Old: oldField.String(), New: newField.String()})
	}

	if explain {
		for _, d := range plan.Diagnostics.Infos {
			doc.Explanations = append(doc.Explanations, d.String())
		}
	}

	return doc
}

// ExportYAML renders a plan as YAML.
func ExportYAML(plan *UpgradePlan, explain bool) ([]byte, error) {
	return yaml.Marshal(Export(plan, explain))
}
