package model

import (
	"strings"

	"upgrade-planner/internal/common"
)

// TypeKind classifies a persisted type.
type TypeKind int

const (
	KindEntity    TypeKind = iota // persisted with its own identity
	KindStructure                 // value type embedded into owning rows
	KindInterface                 // contract implemented by entities
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindStructure:
		return "structure"
	case KindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// FieldKind classifies a persisted field.
type FieldKind int

const (
	FieldPrimitive FieldKind = iota // a single column
	FieldEntity                     // reference, holds the target's key columns
	FieldStructure                  // embedded structure, holds nested columns
	FieldEntitySet                  // many-valued reference, no columns
)

// String returns a human-readable representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case FieldPrimitive:
		return "primitive"
	case FieldEntity:
		return "entity"
	case FieldStructure:
		return "structure"
	case FieldEntitySet:
		return "entity_set"
	default:
		return common.UnknownStr
	}
}

// Type is a persisted type of a model snapshot.
type Type struct {
	Name        string   // Stable identity, referenced by hints
	MappingName string   // Physical table name
	Kind        TypeKind // Entity, structure or interface
	IsAbstract  bool
	IsGeneric   bool // Open generic definition
	// GenericDefinition names the open definition of a closed instantiation.
	GenericDefinition string
	// GenericArguments lists the type names a closed instantiation is built from.
	GenericArguments []string
	// TypeID is the discriminator value, zero when the type has none.
	TypeID       int
	Fields       []*Field // Declared top-level fields
	Base         *Type
	Descendants  []*Type // Direct descendants
	Hierarchy    *Hierarchy
	Associations []*Association // Associations owned by fields of this type
	Model        *Model
}

// IsEntity reports whether t is an entity type.
func (t *Type) IsEntity() bool { return t.Kind == KindEntity }

// IsStructure reports whether t is a structure type.
func (t *Type) IsStructure() bool { return t.Kind == KindStructure }

// IsInterface reports whether t is an interface type.
func (t *Type) IsInterface() bool { return t.Kind == KindInterface }

// IsClosedGeneric reports whether t instantiates an open generic definition.
func (t *Type) IsClosedGeneric() bool { return t.GenericDefinition != "" }

// IsConnector reports whether t backs a many-valued association of its model.
func (t *Type) IsConnector() bool {
	if t.Model == nil {
		return false
	}

	_, ok := t.Model.connectors[t]

	return ok
}

// String returns the type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	return t.Name
}

// Ancestors returns the base chain, nearest first.
func (t *Type) Ancestors() []*Type {
	var out []*Type
	for b := t.Base; b != nil; b = b.Base {
		out = append(out, b)
	}

	return out
}

// AllDescendants returns every transitive descendant in pre-order.
func (t *Type) AllDescendants() []*Type {
	var out []*Type

	queue := append([]*Type(nil), t.Descendants...)
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		out = append(out, d)
		queue = append(queue, d.Descendants...)
	}

	return out
}

// IsA reports whether t is other or inherits from it.
func (t *Type) IsA(other *Type) bool {
	for c := t; c != nil; c = c.Base {
		if c == other {
			return true
		}
	}

	return false
}

// AllFields returns inherited fields first, then the fields t declares.
func (t *Type) AllFields() []*Field {
	ancestors := t.Ancestors()

	var out []*Field
	for i := len(ancestors) - 1; i >= 0; i-- {
		out = append(out, ancestors[i].Fields...)
	}

	return append(out, t.Fields...)
}

// DeclaredField returns the top-level field t declares with the given name.
func (t *Type) DeclaredField(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// Field returns the top-level field with the given name, searching inherited fields too.
func (t *Type) Field(name string) *Field {
	for c := t; c != nil; c = c.Base {
		if f := c.DeclaredField(name); f != nil {
			return f
		}
	}

	return nil
}

// FieldByPath resolves a dotted path such as "Address.Street" or "Author.Id".
func (t *Type) FieldByPath(path string) *Field {
	parts := strings.Split(path, ".")

	f := t.Field(parts[0])
	for i := 1; f != nil && i < len(parts); i++ {
		f = f.Nested(strings.Join(parts[:i+1], "."))
	}

	return f
}

// Field is a persisted field. Nested fields carry the dotted path as Name.
type Field struct {
	Name         string // Full dotted path within the declaring type
	OriginalName string // Leaf name as declared on the value type
	MappingName  string // Physical column name (leaf fields)
	Kind         FieldKind
	IsPrimaryKey bool
	// ValueType names the primitive type, the referenced entity or the structure type.
	ValueType string
	// ItemType names the item entity of an entity set.
	ItemType      string
	Fields        []*Field // Nested fields of structure and reference fields
	Parent        *Field
	DeclaringType *Type
}

// IsPrimitive reports whether f maps to exactly one column.
func (f *Field) IsPrimitive() bool { return f.Kind == FieldPrimitive }

// IsEntity reports whether f references an entity.
func (f *Field) IsEntity() bool { return f.Kind == FieldEntity }

// IsStructure reports whether f embeds a structure.
func (f *Field) IsStructure() bool { return f.Kind == FieldStructure }

// IsEntitySet reports whether f is a many-valued reference.
func (f *Field) IsEntitySet() bool { return f.Kind == FieldEntitySet }

// String returns "Type.Field".
func (f *Field) String() string {
	if f == nil {
		return "<nil>"
	}

	if f.DeclaringType == nil {
		return f.Name
	}

	return f.DeclaringType.Name + "." + f.Name
}

// Root returns the top-level field f belongs to.
func (f *Field) Root() *Field {
	r := f
	for r.Parent != nil {
		r = r.Parent
	}

	return r
}

// Nested returns the direct nested field with the given full name.
func (f *Field) Nested(name string) *Field {
	for _, n := range f.Fields {
		if n.Name == name {
			return n
		}
	}

	return nil
}

// NestedByOriginalName returns the direct nested field declared as name.
func (f *Field) NestedByOriginalName(name string) *Field {
	for _, n := range f.Fields {
		if n.OriginalName == name {
			return n
		}
	}

	return nil
}

// Columns returns the primitive leaves of f in declaration order.
func (f *Field) Columns() []*Field {
	if f.IsEntitySet() {
		return nil
	}

	if len(f.Fields) == 0 {
		if f.IsPrimitive() {
			return []*Field{f}
		}

		return nil
	}

	var out []*Field
	for _, n := range f.Fields {
		out = append(out, n.Columns()...)
	}

	return out
}
