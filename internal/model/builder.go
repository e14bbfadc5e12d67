package model

import (
	"fmt"
	"strings"
)

var typeKinds = map[string]TypeKind{
	"":          KindEntity,
	"entity":    KindEntity,
	"structure": KindStructure,
	"interface": KindInterface,
}

var fieldKinds = map[string]FieldKind{
	"":           FieldPrimitive,
	"primitive":  FieldPrimitive,
	"entity":     FieldEntity,
	"structure":  FieldStructure,
	"entity_set": FieldEntitySet,
}

var schemas = map[string]InheritanceSchema{
	"":               ClassTable,
	"class_table":    ClassTable,
	"single_table":   SingleTable,
	"concrete_table": ConcreteTable,
}

var multiplicities = map[string]Multiplicity{
	"one_to_one":   OneToOne,
	"zero_to_one":  ZeroToOne,
	"one_to_many":  OneToMany,
	"many_to_one":  ManyToOne,
	"many_to_many": ManyToMany,
	"zero_to_many": ZeroToMany,
}

// ParseMultiplicity parses a snake_case multiplicity name.
func ParseMultiplicity(s string) (Multiplicity, error) {
	m, ok := multiplicities[s]
	if !ok {
		return 0, fmt.Errorf("unknown multiplicity %q", s)
	}

	return m, nil
}

// ParseSchema parses a snake_case inheritance schema name.
func ParseSchema(s string) (InheritanceSchema, error) {
	sc, ok := schemas[s]
	if !ok {
		return 0, fmt.Errorf("unknown inheritance schema %q", s)
	}

	return sc, nil
}

// builder links a Document into a Model.
type builder struct {
	doc   *Document
	model *Model
	// state tracks nested-field derivation: 1 while in progress, 2 when done.
	state map[*Field]int
}

// Build links a snapshot document into an immutable Model.
func Build(doc *Document) (*Model, error) {
	b := &builder{
		doc: doc,
		model: &Model{
			byName:     make(map[string]*Type),
			connectors: make(map[*Type]struct{}),
		},
		state: make(map[*Field]int),
	}

	steps := []func() error{
		b.createTypes,
		b.linkBases,
		b.createFields,
		b.createHierarchies,
		b.deriveNestedFields,
		b.createAssociations,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return b.model, nil
}

func (b *builder) createTypes() error {
	for i := range b.doc.Types {
		td := &b.doc.Types[i]
		if td.Name == "" {
			return fmt.Errorf("type #%d has no name", i)
		}

		if _, dup := b.model.byName[td.Name]; dup {
			return fmt.Errorf("duplicate type %q", td.Name)
		}

		kind, ok := typeKinds[td.Kind]
		if !ok {
			return fmt.Errorf("type %q: unknown kind %q", td.Name, td.Kind)
		}

		t := &Type{
			Name:              td.Name,
			MappingName:       td.MappingName,
			Kind:              kind,
			IsAbstract:        td.Abstract,
			IsGeneric:         td.Generic,
			GenericDefinition: td.GenericDefinition,
			GenericArguments:  td.GenericArguments,
			TypeID:            td.TypeID,
			Model:             b.model,
		}
		if t.MappingName == "" {
			t.MappingName = t.Name
		}

		b.model.types = append(b.model.types, t)
		b.model.byName[t.Name] = t
	}

	return nil
}

func (b *builder) linkBases() error {
	for i := range b.doc.Types {
		td := &b.doc.Types[i]
		if td.Base == "" {
			continue
		}

		t := b.model.byName[td.Name]

		base := b.model.byName[td.Base]
		if base == nil {
			return fmt.Errorf("type %q: unknown base %q", td.Name, td.Base)
		}

		if base.Kind != t.Kind {
			return fmt.Errorf("type %q: base %q is a %s, not a %s", td.Name, td.Base, base.Kind, t.Kind)
		}

		t.Base = base
		base.Descendants = append(base.Descendants, t)
	}

	// Every base chain must terminate.
	for _, t := range b.model.types {
		steps := 0
		for c := t.Base; c != nil; c = c.Base {
			steps++
			if steps > len(b.model.types) {
				return fmt.Errorf("type %q: inheritance cycle", t.Name)
			}
		}
	}

	return nil
}

func (b *builder) createFields() error {
	for i := range b.doc.Types {
		td := &b.doc.Types[i]
		t := b.model.byName[td.Name]

		for j := range td.Fields {
			f, err := b.createField(t, nil, &td.Fields[j])
			if err != nil {
				return fmt.Errorf("type %q: %w", t.Name, err)
			}

			if t.DeclaredField(f.Name) != nil {
				return fmt.Errorf("type %q: duplicate field %q", t.Name, f.Name)
			}

			t.Fields = append(t.Fields, f)
		}
	}

	return nil
}

func (b *builder) createField(t *Type, parent *Field, fd *FieldDoc) (*Field, error) {
	if fd.Name == "" || strings.Contains(fd.Name, ".") {
		return nil, fmt.Errorf("invalid field name %q", fd.Name)
	}

	kind, ok := fieldKinds[fd.Kind]
	if !ok {
		return nil, fmt.Errorf("field %q: unknown kind %q", fd.Name, fd.Kind)
	}

	f := &Field{
		Name:          fd.Name,
		OriginalName:  fd.OriginalName,
		MappingName:   fd.MappingName,
		Kind:          kind,
		IsPrimaryKey:  fd.PrimaryKey,
		ValueType:     fd.ValueType,
		ItemType:      fd.ItemType,
		Parent:        parent,
		DeclaringType: t,
	}
	if f.OriginalName == "" {
		f.OriginalName = fd.Name
	}

	if f.MappingName == "" {
		f.MappingName = fd.Name
	}

	if parent != nil {
		f.Name = parent.Name + "." + f.Name
		f.MappingName = parent.MappingName + "." + f.MappingName
		f.IsPrimaryKey = parent.IsPrimaryKey
	}

	switch kind {
	case FieldEntitySet:
		if f.ItemType == "" {
			return nil, fmt.Errorf("entity set %q has no item type", f.Name)
		}
	case FieldPrimitive:
		if len(fd.Fields) > 0 {
			return nil, fmt.Errorf("primitive field %q cannot have nested fields", f.Name)
		}
	}

	if kind != FieldEntitySet && f.ValueType == "" {
		return nil, fmt.Errorf("field %q has no value type", f.Name)
	}

	for i := range fd.Fields {
		n, err := b.createField(t, f, &fd.Fields[i])
		if err != nil {
			return nil, err
		}

		f.Fields = append(f.Fields, n)
	}

	return f, nil
}

func (b *builder) createHierarchies() error {
	for i := range b.doc.Types {
		td := &b.doc.Types[i]
		t := b.model.byName[td.Name]

		if td.Hierarchy != nil && (t.Base != nil || !t.IsEntity()) {
			return fmt.Errorf("type %q: only entity roots declare a hierarchy", t.Name)
		}

		if !t.IsEntity() || t.Base != nil {
			continue
		}

		h := &Hierarchy{Root: t, IncludeTypeID: true}

		if td.Hierarchy != nil {
			schema, err := ParseSchema(td.Hierarchy.Schema)
			if err != nil {
				return fmt.Errorf("type %q: %w", t.Name, err)
			}

			h.Schema = schema
			if td.Hierarchy.IncludeTypeID != nil {
				h.IncludeTypeID = *td.Hierarchy.IncludeTypeID
			}
		}

		for _, f := range t.Fields {
			if f.IsPrimaryKey {
				h.Keys = append(h.Keys, f)
			}
		}

		for _, member := range h.Types() {
			member.Hierarchy = h
		}
	}

	return nil
}

func (b *builder) deriveNestedFields() error {
	for _, t := range b.model.types {
		for _, f := range t.Fields {
			if err := b.derive(f); err != nil {
				return fmt.Errorf("type %q: %w", t.Name, err)
			}
		}
	}

	return nil
}

// derive fills the nested fields of reference and structure fields declared
// without them: key columns of the referenced hierarchy, or the fields of the
// structure type.
func (b *builder) derive(f *Field) error {
	if b.state[f] == 0 && len(f.Fields) > 0 {
		b.state[f] = 2
	}

	switch b.state[f] {
	case 1:
		return fmt.Errorf("field %q is recursive", f.Name)
	case 2:
		for _, n := range f.Fields {
			if err := b.derive(n); err != nil {
				return err
			}
		}

		return nil
	}

	b.state[f] = 1
	defer func() { b.state[f] = 2 }()

	var source []*Field

	switch f.Kind {
	case FieldEntity:
		target := b.model.byName[f.ValueType]
		if target == nil || !target.IsEntity() {
			return fmt.Errorf("field %q references unknown entity %q", f.Name, f.ValueType)
		}

		if target.Hierarchy == nil {
			return fmt.Errorf("field %q references %q which is not in a hierarchy", f.Name, f.ValueType)
		}

		source = target.Hierarchy.Keys
	case FieldStructure:
		target := b.model.byName[f.ValueType]
		if target == nil || !target.IsStructure() {
			return fmt.Errorf("field %q references unknown structure %q", f.Name, f.ValueType)
		}

		source = target.AllFields()
	case FieldEntitySet:
		if item := b.model.byName[f.ItemType]; item == nil || !item.IsEntity() {
			return fmt.Errorf("entity set %q has unknown item type %q", f.Name, f.ItemType)
		}

		return nil
	default:
		return nil
	}

	for _, src := range source {
		if err := b.derive(src); err != nil {
			return err
		}

		f.Fields = append(f.Fields, clone(src, f))
	}

	return nil
}

// clone copies src, and its nested fields, under parent.
func clone(src, parent *Field) *Field {
	c := &Field{
		Name:          parent.Name + "." + lastSegment(src.Name),
		OriginalName:  src.OriginalName,
		MappingName:   parent.MappingName + "." + lastSegment(src.MappingName),
		Kind:          src.Kind,
		IsPrimaryKey:  parent.IsPrimaryKey,
		ValueType:     src.ValueType,
		ItemType:      src.ItemType,
		Parent:        parent,
		DeclaringType: parent.DeclaringType,
	}

	for _, n := range src.Fields {
		c.Fields = append(c.Fields, clone(n, c))
	}

	return c
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}

	return s
}

func (b *builder) createAssociations() error {
	byName := make(map[string]*Association, len(b.doc.Associations))

	for i := range b.doc.Associations {
		ad := &b.doc.Associations[i]

		a, err := b.createAssociation(ad)
		if err != nil {
			return fmt.Errorf("association %q: %w", ad.Name, err)
		}

		if _, dup := byName[a.Name]; dup {
			return fmt.Errorf("duplicate association %q", a.Name)
		}

		byName[a.Name] = a
		b.model.associations = append(b.model.associations, a)
		a.OwningType().Associations = append(a.OwningType().Associations, a)

		if a.ConnectorType != nil {
			b.model.connectors[a.ConnectorType] = struct{}{}
		}
	}

	for i := range b.doc.Associations {
		ad := &b.doc.Associations[i]
		if ad.Reversed == "" {
			continue
		}

		rev := byName[ad.Reversed]
		if rev == nil {
			return fmt.Errorf("association %q: unknown reversed association %q", ad.Name, ad.Reversed)
		}

		byName[ad.Name].Reversed = rev
	}

	return nil
}

func (b *builder) createAssociation(ad *AssociationDoc) (*Association, error) {
	owner := b.model.byName[ad.Owner]
	if owner == nil {
		return nil, fmt.Errorf("unknown owner %q", ad.Owner)
	}

	field := owner.Field(ad.Field)
	if field == nil {
		return nil, fmt.Errorf("unknown field %q on %q", ad.Field, ad.Owner)
	}

	ref := b.model.byName[ad.ReferencedType]
	if ref == nil {
		return nil, fmt.Errorf("unknown referenced type %q", ad.ReferencedType)
	}

	mult, err := ParseMultiplicity(ad.Multiplicity)
	if err != nil {
		return nil, err
	}

	a := &Association{
		Name:           ad.Name,
		OwningField:    field,
		ReferencedType: ref,
		Multiplicity:   mult,
		IsMaster:       ad.Master,
	}
	if a.Name == "" {
		a.Name = ad.Owner + "." + ad.Field
	}

	if ad.Connector != "" {
		a.ConnectorType = b.model.byName[ad.Connector]
		if a.ConnectorType == nil || !a.ConnectorType.IsEntity() {
			return nil, fmt.Errorf("unknown connector type %q", ad.Connector)
		}
	}

	return a, nil
}
