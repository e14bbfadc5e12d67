package plan

import (
	"errors"
	"fmt"
	"log/slog"

	"upgrade-planner/internal/common"
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/logging"
	"upgrade-planner/internal/match"
	"upgrade-planner/internal/model"
)

// planner carries the state of one GenerateHints run.
type planner struct {
	oldModel *model.Model
	newModel *model.Model
	config   Config
	logger   *slog.Logger

	hints  hint.List
	types  *common.BiMap[*model.Type, *model.Type]
	fields *common.BiMap[*model.Field, *model.Field]
	// typeHints and fieldHints remember the hint behind a mapping, keyed by
	// both of its ends. Identity mappings have no entry.
	typeHints  map[*model.Type]hint.Hint
	fieldHints map[*model.Field]hint.Hint
	// nested holds mapped field pairs whose nested fields are still unmapped.
	nested []fieldPair
	diags  diagnostic.Diagnostics

	renamedTypes  map[string]*hint.RenameType        // by old name
	removedTypes  map[string]*hint.RemoveType        // by old name
	renamedFields map[fieldKey]*hint.RenameField     // by new type and old field
	retypedFields map[fieldKey]*hint.ChangeFieldType // by new type and field
	removedFields map[fieldKey]*hint.RemoveField     // by old type and field
}

// GenerateHints maps oldModel onto newModel under the given hints and
// synthesizes the schema hints needed to upgrade the physical schema.
func GenerateHints(oldModel, newModel *model.Model, hints []hint.Hint, config Config) (*UpgradePlan, error) {
	if oldModel == nil || newModel == nil {
		return nil, errors.New("both model snapshots are required")
	}

	p := &planner{
		oldModel:      oldModel,
		newModel:      newModel,
		config:        config,
		logger:        config.Logger,
		types:         common.NewBiMap[*model.Type, *model.Type](),
		fields:        common.NewBiMap[*model.Field, *model.Field](),
		typeHints:     make(map[*model.Type]hint.Hint),
		fieldHints:    make(map[*model.Field]hint.Hint),
		renamedTypes:  make(map[string]*hint.RenameType),
		removedTypes:  make(map[string]*hint.RemoveType),
		renamedFields: make(map[fieldKey]*hint.RenameField),
		retypedFields: make(map[fieldKey]*hint.ChangeFieldType),
		removedFields: make(map[fieldKey]*hint.RemoveField),
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}

	return p.run(hints)
}

func (p *planner) run(hints []hint.Hint) (*UpgradePlan, error) {
	p.hints = p.normalize(hints)
	p.index()
	p.logger.Debug("hints normalized", "input", len(hints), "normalized", len(p.hints))

	stages := []struct {
		name string
		run  func() error
	}{
		{"map_types", p.mapTypes},
		{"map_fields", p.mapFields},
		{"map_junctions", p.mapJunctions},
		{"validate", p.validate},
	}

	for _, stage := range stages {
		if err := stage.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", stage.name, err)
		}

		p.logger.Debug("stage complete",
			"stage", stage.name, "types", p.types.Len(), "fields", p.fields.Len())
	}

	schemaHints, err := p.synthesize()
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	p.logger.Debug("stage complete", "stage", "synthesize", "schema_hints", len(schemaHints))

	native := p.assemble()
	p.logger.Debug("stage complete", "stage", "assemble", "hints", len(native))

	return &UpgradePlan{
		Types:       p.types,
		Fields:      p.fields,
		Hints:       native,
		SchemaHints: schemaHints,
		Diagnostics: p.diags,
	}, nil
}

// index builds the hint lookups used by the mappers. The first hint wins;
// duplicates are reported by validate.
func (p *planner) index() {
	for _, h := range p.hints {
		switch h := h.(type) {
		case *hint.RenameType:
			if _, ok := p.renamedTypes[h.OldName]; !ok {
				p.renamedTypes[h.OldName] = h
			}
		case *hint.RemoveType:
			if _, ok := p.removedTypes[h.Type]; !ok {
				p.removedTypes[h.Type] = h
			}
		case *hint.RenameField:
			key := fieldKey{h.Type, h.OldName}
			if _, ok := p.renamedFields[key]; !ok {
				p.renamedFields[key] = h
			}
		case *hint.ChangeFieldType:
			key := fieldKey{h.Type, h.Field}
			if _, ok := p.retypedFields[key]; !ok {
				p.retypedFields[key] = h
			}
		case *hint.RemoveField:
			key := fieldKey{h.Type, h.Field}
			if _, ok := p.removedFields[key]; !ok {
				p.removedFields[key] = h
			}
		}
	}
}

func (p *planner) suggest(name string, candidates []string) []string {
	return match.Suggest(name, candidates, p.config.MaxSuggestions)
}
