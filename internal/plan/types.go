package plan

import (
	"upgrade-planner/internal/common"
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
	"upgrade-planner/internal/schema"
)

// UpgradePlan is the result of GenerateHints.
type UpgradePlan struct {
	// Types maps old types onto new types. Unmapped old types are removed.
	Types *common.BiMap[*model.Type, *model.Type]
	// Fields maps old fields, nested ones included, onto new fields.
	Fields *common.BiMap[*model.Field, *model.Field]
	// Hints are the native hints: normalized input hints followed by derived
	// removals, annotated with the physical paths they affect.
	Hints hint.List
	// SchemaHints are the physical schema operations in application order.
	SchemaHints []schema.Hint
	// Diagnostics explains every mapping decision.
	Diagnostics diagnostic.Diagnostics
}

// MappedType returns the new type old maps to, or nil.
func (p *UpgradePlan) MappedType(old *model.Type) *model.Type {
	t, _ := p.Types.Get(old)
	return t
}

// MappedField returns the new field old maps to, or nil.
func (p *UpgradePlan) MappedField(old *model.Field) *model.Field {
	f, _ := p.Fields.Get(old)
	return f
}

type fieldKey struct {
	typeName string
	field    string
}

type fieldPair struct {
	old *model.Field
	new *model.Field
}
