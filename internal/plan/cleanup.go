package plan

import (
	"strconv"

	"upgrade-planner/internal/model"
	"upgrade-planner/internal/schema"
)

// rowSelector identifies the rows of one old type: rows of table whose key
// matches, narrowed by filters (the discriminator).
type rowSelector struct {
	table   *model.Type
	filters []schema.IdentityPair
}

// selectRows builds the selector of t's own rows. It fails for SingleTable
// types sharing the table without a discriminator value.
func selectRows(t *model.Type) (rowSelector, bool) {
	h := t.Hierarchy
	discriminated := h.IncludeTypeID && t.TypeID != 0

	switch h.Schema {
	case model.ConcreteTable:
		if t.IsAbstract {
			return rowSelector{}, false
		}

		return rowSelector{table: t}, true
	case model.SingleTable:
		if discriminated {
			return rowSelector{table: h.Root, filters: []schema.IdentityPair{typeIDFilter(h.Root, t)}}, true
		}

		if t == h.Root && len(t.Descendants) == 0 {
			return rowSelector{table: t}, true
		}

		return rowSelector{}, false
	default:
		if discriminated {
			return rowSelector{table: h.Root, filters: []schema.IdentityPair{typeIDFilter(h.Root, t)}}, true
		}

		return rowSelector{table: t}, true
	}
}

func typeIDFilter(root, t *model.Type) schema.IdentityPair {
	return schema.IdentityPair{
		Column:     schema.ColumnPath(root.MappingName, model.TypeIDColumn),
		Source:     strconv.Itoa(t.TypeID),
		IsConstant: true,
	}
}

// join selects the rows of table whose columns hold the key of a selected row.
func (s rowSelector) join(table string, columns []*model.Field) []schema.IdentityPair {
	keys := s.table.Hierarchy.KeyColumns()

	var out []schema.IdentityPair
	for i := 0; i < len(columns) && i < len(keys); i++ {
		out = append(out, schema.IdentityPair{
			Column: schema.ColumnPath(table, columns[i].MappingName),
			Source: schema.ColumnPath(s.table.MappingName, keys[i].MappingName),
		})
	}

	return append(out, s.filters...)
}

// in selects the rows of table itself.
func (s rowSelector) in(table *model.Type) []schema.IdentityPair {
	if table == s.table {
		return s.filters
	}

	return s.join(table.MappingName, table.Hierarchy.KeyColumns())
}

func cleanupCandidate(t *model.Type) bool {
	return t.IsEntity() && t.Hierarchy != nil && !t.IsAbstract && !t.IsGeneric && !t.IsConnector()
}

// typeCleanup deletes the rows of removed types, then of moved types: types
// whose hierarchy root now maps to a different root.
func (p *planner) typeCleanup() []schema.Hint {
	var removed, moved []schema.Hint

	for _, t := range p.oldModel.Types() {
		if !cleanupCandidate(t) {
			continue
		}

		newType, mapped := p.types.Get(t)

		switch {
		case !mapped:
			removed = append(removed, p.deleteRows(t, false)...)
		case p.isMoved(t, newType):
			moved = append(moved, p.deleteRows(t, true)...)
		}
	}

	return append(removed, moved...)
}

func (p *planner) isMoved(oldType, newType *model.Type) bool {
	if newType.Hierarchy == nil {
		return false
	}

	root, ok := p.types.Get(oldType.Hierarchy.Root)

	return !ok || root != newType.Hierarchy.Root
}

// deleteRows deletes t's rows from the mapped ancestor tables (ClassTable),
// the shared root table (SingleTable) or t's own table (ConcreteTable).
func (p *planner) deleteRows(t *model.Type, isMove bool) []schema.Hint {
	rows, ok := selectRows(t)
	if !ok {
		return nil
	}

	var tables []*model.Type

	switch t.Hierarchy.Schema {
	case model.SingleTable:
		tables = []*model.Type{t.Hierarchy.Root}
	case model.ConcreteTable:
		tables = []*model.Type{t}
	default:
		for _, a := range t.Ancestors() {
			if p.types.HasKey(a) {
				tables = append(tables, a)
			}
		}
	}

	out := make([]schema.Hint, 0, len(tables))
	for _, table := range tables {
		out = append(out, &schema.DeleteData{
			Table:      schema.TablePath(table.MappingName),
			Identities: rows.in(table),
			IsMove:     isMove,
		})
	}

	return out
}

// associationCleanup removes references to the rows of removed types:
// inline foreign keys are nulled, rows of surviving connectors are deleted.
func (p *planner) associationCleanup() []schema.Hint {
	var out []schema.Hint

	for _, removed := range p.oldModel.Types() {
		if !cleanupCandidate(removed) || p.types.HasKey(removed) {
			continue
		}

		rows, ok := selectRows(removed)
		if !ok {
			continue
		}

		for _, a := range p.oldModel.Associations() {
			if a.ConnectorType != nil {
				out = append(out, p.connectorCleanup(a, removed, rows)...)
			} else {
				out = append(out, p.referenceCleanup(a, removed, rows)...)
			}
		}
	}

	return out
}

// referenceCleanup nulls the foreign key of a surviving owner pointing at a
// row of the removed type.
func (p *planner) referenceCleanup(a *model.Association, removed *model.Type, rows rowSelector) []schema.Hint {
	owner := a.OwningType()
	if !a.OwningField.IsEntity() || !removed.IsA(a.ReferencedType) || !p.types.HasKey(owner) {
		return nil
	}

	foreignKey := a.OwningField.Columns()

	var out []schema.Hint

	for _, table := range model.ColumnTables(owner, a.OwningField, true) {
		nulls := make([]string, 0, len(foreignKey))
		for _, c := range foreignKey {
			nulls = append(nulls, schema.ColumnPath(table.MappingName, c.MappingName))
		}

		out = append(out, &schema.UpdateData{
			Table:      schema.TablePath(table.MappingName),
			Identities: rows.join(table.MappingName, foreignKey),
			Nulls:      nulls,
		})
	}

	return out
}

// connectorCleanup deletes the rows of a surviving connector whose role
// columns point at a row of the removed type. Dropped connectors need nothing.
func (p *planner) connectorCleanup(a *model.Association, removed *model.Type, rows rowSelector) []schema.Hint {
	connector := a.ConnectorType
	if !p.types.HasKey(connector) {
		return nil
	}

	table := model.TableOf(connector)
	if table == nil {
		return nil
	}

	ownerRole, referencedRole := a.Roles()

	var roles []string
	if removed.IsA(a.ReferencedType) {
		roles = append(roles, referencedRole)
	}

	if removed.IsA(a.OwningType()) {
		roles = append(roles, ownerRole)
	}

	var out []schema.Hint

	for _, role := range roles {
		f := connector.Field(role)
		if f == nil {
			continue
		}

		out = append(out, &schema.DeleteData{
			Table:      schema.TablePath(table.MappingName),
			Identities: rows.join(table.MappingName, f.Columns()),
		})
	}

	return out
}
