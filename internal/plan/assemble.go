package plan

import (
	"upgrade-planner/internal/common"
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
	"upgrade-planner/internal/schema"
)

// assemble returns the native hints: normalized input hints, removals of
// unmapped connectors, type-id column removals and primary-key cascades,
// each annotated with the physical paths it affects.
func (p *planner) assemble() hint.List {
	out := make(hint.List, 0, len(p.hints))

	out = append(out, p.hints...)
	out = append(out, p.connectorRemovals()...)
	out = append(out, p.typeIDRemovals()...)
	out = append(out, p.keyCascades()...)
	out = common.Dedup(out, hint.Hint.String)

	for i, h := range out {
		out[i] = p.annotate(h)
	}

	return out
}

func (p *planner) connectorRemovals() []hint.Hint {
	var out []hint.Hint

	for _, t := range p.oldModel.Types() {
		if !t.IsConnector() || p.types.HasKey(t) {
			continue
		}

		out = append(out, &hint.RemoveType{Type: t.Name})
		p.diags.AddInfo(diagnostic.CodeConnectorRemoved, "no new association is backed by a matching connector", "", t.Name)
	}

	return out
}

// typeIDRemovals drops the discriminator column of mapped hierarchies that
// no longer carry one.
func (p *planner) typeIDRemovals() []hint.Hint {
	var out []hint.Hint

	for _, h := range p.oldModel.Hierarchies() {
		if !h.IncludeTypeID {
			continue
		}

		newRoot, ok := p.types.Get(h.Root)
		if !ok || newRoot.Hierarchy == nil || newRoot.Hierarchy.IncludeTypeID {
			continue
		}

		out = append(out, &hint.RemoveField{Type: h.Root.Name, Field: model.TypeIDColumn})
	}

	return out
}

// keyCascades removes the embedded copies of every removed primary-key field:
// connector role columns and inline reference columns.
func (p *planner) keyCascades() []hint.Hint {
	var out []hint.Hint

	for _, h := range p.hints {
		rf, ok := h.(*hint.RemoveField)
		if !ok {
			continue
		}

		t := p.oldModel.Type(rf.Type)
		if t == nil || t.Hierarchy == nil {
			continue
		}

		key := t.FieldByPath(rf.Field)
		if key == nil || !key.IsPrimaryKey {
			continue
		}

		out = append(out, p.cascade(t.Hierarchy, key)...)
	}

	return out
}

func (p *planner) cascade(h *model.Hierarchy, key *model.Field) []hint.Hint {
	var out []hint.Hint

	removeEmbedded := func(owner *model.Type, ref *model.Field) {
		for _, c := range key.Columns() {
			path := ref.Name + "." + c.Name
			if owner.FieldByPath(path) != nil {
				out = append(out, &hint.RemoveField{Type: owner.Name, Field: path})
			}
		}
	}

	for _, a := range p.oldModel.Associations() {
		connector := a.ConnectorType
		if connector == nil {
			continue
		}

		ownerRole, referencedRole := a.Roles()

		if a.ReferencedType.Hierarchy == h {
			if role := connector.Field(referencedRole); role != nil {
				removeEmbedded(connector, role)
			}
		}

		if a.OwningType().Hierarchy == h {
			if role := connector.Field(ownerRole); role != nil {
				removeEmbedded(connector, role)
			}
		}
	}

	for _, t := range p.oldModel.Types() {
		if t.IsConnector() {
			continue
		}

		for _, f := range t.Fields {
			for _, ref := range p.referencesInto(f, h) {
				removeEmbedded(t, ref)
			}
		}
	}

	return out
}

// referencesInto returns f and its nested fields that reference an entity of h.
func (p *planner) referencesInto(f *model.Field, h *model.Hierarchy) []*model.Field {
	var out []*model.Field

	if f.IsEntity() {
		if target := p.oldModel.Type(f.ValueType); target != nil && target.Hierarchy == h {
			out = append(out, f)
		}
	}

	for _, n := range f.Fields {
		out = append(out, p.referencesInto(n, h)...)
	}

	return out
}

// annotate returns a copy of h carrying the table and column paths it
// affects. RemoveType and RemoveField address the old schema, ChangeFieldType the new one.
func (p *planner) annotate(h hint.Hint) hint.Hint {
	switch h := h.(type) {
	case *hint.RemoveType:
		c := *h
		c.AffectedTables, c.AffectedColumns = removedTypePaths(p.oldModel.Type(h.Type))

		return &c
	case *hint.RemoveField:
		c := *h
		c.AffectedColumns = fieldPaths(p.oldModel.Type(h.Type), h.Field)

		return &c
	case *hint.ChangeFieldType:
		c := *h
		c.AffectedColumns = fieldPaths(p.newModel.Type(h.Type), h.Field)

		return &c
	default:
		return h
	}
}

// removedTypePaths returns the table of t, or its columns in the shared
// root table when t has no table of its own.
func removedTypePaths(t *model.Type) (tables, columns []string) {
	if t == nil || t.Hierarchy == nil {
		return nil, nil
	}

	if model.HasTable(t) {
		return []string{schema.TablePath(t.MappingName)}, nil
	}

	if t.Hierarchy.Schema != model.SingleTable {
		return nil, nil
	}

	root := t.Hierarchy.Root
	for _, f := range t.Fields {
		for _, c := range f.Columns() {
			columns = append(columns, schema.ColumnPath(root.MappingName, c.MappingName))
		}
	}

	return nil, columns
}

// fieldPaths returns the column paths of the field at path in every table holding it.
func fieldPaths(t *model.Type, path string) []string {
	if t == nil || t.Hierarchy == nil {
		return nil
	}

	if path == model.TypeIDColumn && t.FieldByPath(path) == nil {
		return typeIDPaths(t.Hierarchy)
	}

	f := t.FieldByPath(path)
	if f == nil {
		return nil
	}

	var out []string

	for _, table := range model.ColumnTables(t, f.Root(), true) {
		for _, c := range f.Columns() {
			out = append(out, schema.ColumnPath(table.MappingName, c.MappingName))
		}
	}

	return out
}

func typeIDPaths(h *model.Hierarchy) []string {
	tables := []*model.Type{h.Root}
	if h.Schema == model.ConcreteTable {
		tables = common.Filter(h.Types(), model.HasTable)
	}

	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, schema.ColumnPath(t.MappingName, model.TypeIDColumn))
	}

	return out
}
