package model

import "upgrade-planner/internal/common"

// InheritanceSchema decides how the types of a hierarchy map onto tables.
type InheritanceSchema int

const (
	ClassTable    InheritanceSchema = iota // one table per type, joined by key
	SingleTable                            // one shared table with a discriminator
	ConcreteTable                          // one table per concrete type, no discriminator
)

// String returns a human-readable representation of the InheritanceSchema.
func (s InheritanceSchema) String() string {
	switch s {
	case ClassTable:
		return "class_table"
	case SingleTable:
		return "single_table"
	case ConcreteTable:
		return "concrete_table"
	default:
		return common.UnknownStr
	}
}

// TypeIDColumn is the discriminator column of ClassTable and SingleTable roots.
const TypeIDColumn = "TypeId"

// Hierarchy groups an entity root with all types inheriting from it.
type Hierarchy struct {
	Root   *Type
	Schema InheritanceSchema
	// Keys are the root's primary-key fields in declaration order.
	Keys []*Field
	// IncludeTypeID is true when the root table carries the discriminator column.
	IncludeTypeID bool
}

// Types returns the root followed by every descendant.
func (h *Hierarchy) Types() []*Type {
	return append([]*Type{h.Root}, h.Root.AllDescendants()...)
}

// KeyColumns returns the primitive leaves of the key fields.
func (h *Hierarchy) KeyColumns() []*Field {
	var out []*Field
	for _, k := range h.Keys {
		out = append(out, k.Columns()...)
	}

	return out
}

// HasTable reports whether t owns a physical table.
func HasTable(t *Type) bool {
	if !t.IsEntity() || t.Hierarchy == nil {
		return false
	}

	switch t.Hierarchy.Schema {
	case SingleTable:
		return t == t.Hierarchy.Root
	case ConcreteTable:
		return !t.IsAbstract
	default:
		return true
	}
}

// TableOf returns the type whose table holds t's own rows: the root for
// SingleTable hierarchies, t itself otherwise. It is nil when no such table exists.
func TableOf(t *Type) *Type {
	if !t.IsEntity() || t.Hierarchy == nil {
		return nil
	}

	if t.Hierarchy.Schema == SingleTable {
		return t.Hierarchy.Root
	}

	if HasTable(t) {
		return t
	}

	return nil
}

// ColumnTables returns the types whose tables hold the columns of the
// top-level field f as seen from t (f is declared by t or an ancestor).
// With includeDescendants the tables of t's descendants are considered too.
func ColumnTables(t *Type, f *Field, includeDescendants bool) []*Type {
	if t.Hierarchy == nil {
		return nil
	}

	candidates := []*Type{t}
	if includeDescendants {
		candidates = append(candidates, t.AllDescendants()...)
	}

	switch t.Hierarchy.Schema {
	case SingleTable:
		return []*Type{t.Hierarchy.Root}
	case ConcreteTable:
		return common.Filter(candidates, func(c *Type) bool { return !c.IsAbstract })
	default:
		if f.IsPrimaryKey {
			return candidates
		}

		return []*Type{f.DeclaringType}
	}
}
