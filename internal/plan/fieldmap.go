package plan

import (
	"errors"

	"upgrade-planner/internal/common"
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
)

// mapFields maps the declared fields of every mapped type pair, then the
// nested fields of every mapped structure and reference field.
func (p *planner) mapFields() error {
	for _, oldType := range p.types.Keys() {
		newType, _ := p.types.Get(oldType)

		for _, f := range oldType.Fields {
			if err := p.mapDeclaredField(newType, f); err != nil {
				return err
			}
		}
	}

	return p.drainNested()
}

func (p *planner) mapDeclaredField(newType *model.Type, f *model.Field) error {
	if p.isRemoved(f) {
		return nil
	}

	name := f.Name
	code := diagnostic.CodeFieldIdentity

	var source hint.Hint
	if r, ok := p.renamedFields[fieldKey{newType.Name, f.Name}]; ok {
		name, source, code = r.NewName, r, diagnostic.CodeFieldRenamed
	}

	target := newType.DeclaredField(name)
	if target == nil {
		return nil
	}

	if c, ok := p.retypedFields[fieldKey{newType.Name, target.Name}]; ok {
		if source == nil {
			source = c
		}

		code = diagnostic.CodeFieldRetyped
	} else if !p.compatible(f, target) {
		// A changed value type without ChangeFieldType drops the field.
		return nil
	}

	return p.mapField(f, target, source, code)
}

// isRemoved reports whether a RemoveField names f by its declaring type and
// full path. The nested fields of a removed field are never queued.
func (p *planner) isRemoved(f *model.Field) bool {
	_, removed := p.removedFields[fieldKey{f.DeclaringType.Name, f.Name}]
	return removed
}

// compatible reports whether oldField may map onto newField without a
// ChangeFieldType hint. References may widen to an ancestor of the mapped target.
func (p *planner) compatible(oldField, newField *model.Field) bool {
	if oldField.Kind != newField.Kind {
		return false
	}

	switch oldField.Kind {
	case model.FieldStructure:
		return true
	case model.FieldEntity:
		return p.referenceCompatible(oldField.ValueType, newField.ValueType)
	case model.FieldEntitySet:
		return p.referenceCompatible(oldField.ItemType, newField.ItemType)
	default:
		return oldField.ValueType == newField.ValueType
	}
}

func (p *planner) referenceCompatible(oldName, newName string) bool {
	oldTarget, newTarget := p.oldModel.Type(oldName), p.newModel.Type(newName)
	if oldTarget == nil || newTarget == nil {
		return false
	}

	mapped, ok := p.types.Get(oldTarget)

	return ok && mapped.IsA(newTarget)
}

// mapField records oldField -> newField and queues the pair for the nested
// pass when both sides have nested fields.
func (p *planner) mapField(oldField, newField *model.Field, source hint.Hint, code string) error {
	if err := p.fields.Map(oldField, newField); err != nil {
		var mapped *common.AlreadyMappedError[*model.Field, *model.Field]
		if errors.As(err, &mapped) && mapped.Forward {
			return conflict(p.fieldHints[oldField], source, oldField.String())
		}

		return conflict(p.fieldHints[newField], source, newField.String())
	}

	if source != nil {
		p.fieldHints[oldField] = source
		p.fieldHints[newField] = source
	}

	p.diags.AddInfo(code, explain(code, source),
		diagnostic.TypePair(oldField.DeclaringType.Name, newField.DeclaringType.Name), oldField.Name)

	if len(oldField.Fields) > 0 && len(newField.Fields) > 0 {
		p.nested = append(p.nested, fieldPair{old: oldField, new: newField})
	}

	return nil
}

// drainNested maps nested fields breadth-first. Mapping a nested field with
// nested fields of its own queues it again.
func (p *planner) drainNested() error {
	for len(p.nested) > 0 {
		pair := p.nested[0]
		p.nested = p.nested[1:]

		for _, oldNested := range pair.old.Fields {
			if p.isRemoved(oldNested) {
				continue
			}

			newNested := p.nestedTarget(pair, oldNested)
			if newNested == nil {
				continue
			}

			if err := p.mapField(oldNested, newNested, nil, diagnostic.CodeNestedField); err != nil {
				return err
			}
		}
	}

	return nil
}

// nestedTarget finds the counterpart of oldNested under pair.new. When the
// value types are mapped it follows the mapping of the value type's field,
// otherwise it matches by original name and shape.
func (p *planner) nestedTarget(pair fieldPair, oldNested *model.Field) *model.Field {
	oldValue := p.oldModel.Type(pair.old.ValueType)
	newValue := p.newModel.Type(pair.new.ValueType)

	if oldValue != nil && newValue != nil {
		if mappedValue, ok := p.types.Get(oldValue); ok && mappedValue.IsA(newValue) {
			if declared := fieldByOriginalName(oldValue, oldNested.OriginalName); declared != nil {
				newDeclared, mapped := p.fields.Get(declared)
				if !mapped {
					return nil
				}

				return pair.new.NestedByOriginalName(newDeclared.OriginalName)
			}
		}
	}

	candidate := pair.new.NestedByOriginalName(oldNested.OriginalName)
	if candidate == nil || candidate.Kind != oldNested.Kind {
		return nil
	}

	if candidate.IsPrimitive() && candidate.ValueType != oldNested.ValueType {
		return nil
	}

	return candidate
}

func fieldByOriginalName(t *model.Type, name string) *model.Field {
	for _, f := range t.AllFields() {
		if f.OriginalName == name {
			return f
		}
	}

	return nil
}
