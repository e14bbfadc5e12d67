package plan

import (
	"upgrade-planner/internal/common"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
	"upgrade-planner/internal/schema"
)

// synthesize emits, in order: table renames, column renames, data copies,
// removed-type deletes, moved-type deletes and association cleanup.
// Rename paths go from the old to the new schema; cleanup addresses the old one.
func (p *planner) synthesize() ([]schema.Hint, error) {
	var out []schema.Hint

	out = append(out, p.tableRenames()...)
	out = append(out, p.columnRenames()...)

	for _, h := range p.hints {
		c, ok := h.(*hint.CopyField)
		if !ok {
			continue
		}

		copies, err := p.copyData(c)
		if err != nil {
			return nil, err
		}

		out = append(out, copies...)
	}

	out = append(out, p.typeCleanup()...)
	out = append(out, p.associationCleanup()...)

	return common.Dedup(out, schema.Hint.String), nil
}

// tableRenames renames the tables of mapped types. SingleTable hierarchies
// only have the root table.
func (p *planner) tableRenames() []schema.Hint {
	var out []schema.Hint

	for _, oldType := range p.types.Keys() {
		newType, _ := p.types.Get(oldType)

		if !model.HasTable(oldType) || !model.HasTable(newType) || oldType.MappingName == newType.MappingName {
			continue
		}

		out = append(out, &schema.Rename{
			OldPath: schema.TablePath(oldType.MappingName),
			NewPath: schema.TablePath(newType.MappingName),
		})
	}

	return out
}

// columnRenames renames the columns of mapped primitive fields in every
// table holding them, as laid out by the new type's inheritance schema.
func (p *planner) columnRenames() []schema.Hint {
	var out []schema.Hint

	for _, oldField := range p.fields.Keys() {
		newField, _ := p.fields.Get(oldField)

		if !oldField.IsPrimitive() || !newField.IsPrimitive() || oldField.MappingName == newField.MappingName {
			continue
		}

		for _, newTable := range model.ColumnTables(newField.DeclaringType, newField.Root(), true) {
			oldTable, ok := p.types.Reverse(newTable)
			if !ok || !model.HasTable(oldTable) {
				continue
			}

			out = append(out, &schema.Rename{
				OldPath: schema.ColumnPath(oldTable.MappingName, oldField.MappingName),
				NewPath: schema.ColumnPath(newTable.MappingName, newField.MappingName),
			})
		}
	}

	return out
}

// copyData emits one CopyData per source and destination table pair, joined
// on the paired keys of both hierarchies.
func (p *planner) copyData(h *hint.CopyField) ([]schema.Hint, error) {
	source := p.oldModel.Type(h.SourceType)
	target := p.newModel.Type(h.TargetType)
	sourceField := source.FieldByPath(h.SourceField)
	targetField := target.FieldByPath(h.TargetField)

	if source.Hierarchy == nil {
		return nil, &TypeNotInHierarchyError{Type: source.Name}
	}

	if target.Hierarchy == nil {
		return nil, &TypeNotInHierarchyError{Type: target.Name}
	}

	keys, ok := pairKeys(source.Hierarchy, target.Hierarchy)
	if !ok {
		return nil, &KeysDoNotMatchError{Source: source.Name, Target: target.Name}
	}

	columns, ok := pairColumns(sourceField, targetField)
	if !ok {
		return nil, &FieldsDoNotMatchError{Source: sourceField.String(), Target: targetField.String()}
	}

	sourceTables := model.ColumnTables(source, sourceField.Root(), false)
	if len(sourceTables) == 0 {
		sourceTables = model.ColumnTables(source, sourceField.Root(), true)
	}

	var out []schema.Hint

	for _, from := range sourceTables {
		for _, to := range model.ColumnTables(target, targetField.Root(), true) {
			cd := &schema.CopyData{SourceTable: schema.TablePath(from.MappingName)}

			for _, k := range keys {
				cd.Identities = append(cd.Identities, schema.IdentityPair{
					Column: schema.ColumnPath(to.MappingName, k.new.MappingName),
					Source: schema.ColumnPath(from.MappingName, k.old.MappingName),
				})
			}

			for _, c := range columns {
				cd.Columns = append(cd.Columns, schema.ColumnPair{
					Source: schema.ColumnPath(from.MappingName, c.old.MappingName),
					Target: schema.ColumnPath(to.MappingName, c.new.MappingName),
				})
			}

			out = append(out, cd)
		}
	}

	return out, nil
}

// pairKeys pairs the key columns of two hierarchies by original name. Counts,
// names and value types must all match.
func pairKeys(source, target *model.Hierarchy) ([]fieldPair, bool) {
	sourceKeys, targetKeys := source.KeyColumns(), target.KeyColumns()
	if len(sourceKeys) != len(targetKeys) {
		return nil, false
	}

	pairs := make([]fieldPair, 0, len(sourceKeys))
	used := make(map[*model.Field]bool, len(sourceKeys))

	for _, tk := range targetKeys {
		for _, sk := range sourceKeys {
			if !used[sk] && sk.OriginalName == tk.OriginalName {
				used[sk] = true
				pairs = append(pairs, fieldPair{old: sk, new: tk})

				break
			}
		}
	}

	if len(pairs) != len(targetKeys) {
		return nil, false
	}

	for _, pair := range pairs {
		if pair.old.ValueType != pair.new.ValueType {
			return nil, false
		}
	}

	return pairs, true
}

// pairColumns pairs the primitive leaves of two fields of the same shape.
func pairColumns(source, target *model.Field) ([]fieldPair, bool) {
	if source.IsEntitySet() || target.IsEntitySet() {
		return nil, false
	}

	if len(source.Fields) == 0 || len(target.Fields) == 0 {
		if len(source.Fields) != len(target.Fields) || !source.IsPrimitive() || !target.IsPrimitive() {
			return nil, false
		}

		return []fieldPair{{old: source, new: target}}, true
	}

	if len(source.Fields) != len(target.Fields) {
		return nil, false
	}

	var out []fieldPair

	for _, sn := range source.Fields {
		tn := target.NestedByOriginalName(sn.OriginalName)
		if tn == nil {
			return nil, false
		}

		nested, ok := pairColumns(sn, tn)
		if !ok {
			return nil, false
		}

		out = append(out, nested...)
	}

	return out, true
}
