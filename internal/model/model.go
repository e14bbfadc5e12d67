package model

// Model is an immutable snapshot of a persisted domain model.
type Model struct {
	types        []*Type
	byName       map[string]*Type
	associations []*Association
	connectors   map[*Type]struct{}
}

// Types returns all types in declaration order.
func (m *Model) Types() []*Type {
	return m.types
}

// Type returns the type with the given name, or nil.
func (m *Model) Type(name string) *Type {
	return m.byName[name]
}

// TypeNames returns all type names in declaration order.
func (m *Model) TypeNames() []string {
	names := make([]string, 0, len(m.types))
	for _, t := range m.types {
		names = append(names, t.Name)
	}

	return names
}

// Associations returns all associations in declaration order.
func (m *Model) Associations() []*Association {
	return m.associations
}

// AssociationOf returns the association owned by f, or nil.
func (m *Model) AssociationOf(f *Field) *Association {
	for _, a := range m.associations {
		if a.OwningField == f {
			return a
		}
	}

	return nil
}

// Instantiations returns the closed instantiations of the named open generic definition.
func (m *Model) Instantiations(definition string) []*Type {
	var out []*Type

	for _, t := range m.types {
		if t.GenericDefinition == definition {
			out = append(out, t)
		}
	}

	return out
}

// Hierarchies returns the distinct hierarchies in root declaration order.
func (m *Model) Hierarchies() []*Hierarchy {
	var out []*Hierarchy

	for _, t := range m.types {
		if t.Hierarchy != nil && t.Hierarchy.Root == t {
			out = append(out, t.Hierarchy)
		}
	}

	return out
}
