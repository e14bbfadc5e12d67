package model

// Document is the YAML form of a model snapshot.
//
//	types:
//	  - name: Model.Animal
//	    hierarchy: {schema: single_table}
//	    fields:
//	      - {name: Id, value_type: Int32, primary_key: true}
//	  - name: Model.Dog
//	    base: Model.Animal
//	    type_id: 101
//	associations:
//	  - name: Dog-Owner
//	    owner: Model.Dog
//	    field: Owner
//	    referenced_type: Model.Person
//	    multiplicity: many_to_one
type Document struct {
	Types        []TypeDoc        `yaml:"types"`
	Associations []AssociationDoc `yaml:"associations,omitempty"`
}

// TypeDoc describes one type.
type TypeDoc struct {
	Name              string        `yaml:"name"`
	MappingName       string        `yaml:"mapping_name,omitempty"`
	Kind              string        `yaml:"kind,omitempty"` // entity (default), structure, interface
	Abstract          bool          `yaml:"abstract,omitempty"`
	Generic           bool          `yaml:"generic,omitempty"`
	GenericDefinition string        `yaml:"generic_definition,omitempty"`
	GenericArguments  []string      `yaml:"generic_arguments,omitempty"`
	TypeID            int           `yaml:"type_id,omitempty"`
	Base              string        `yaml:"base,omitempty"`
	Hierarchy         *HierarchyDoc `yaml:"hierarchy,omitempty"`
	Fields            []FieldDoc    `yaml:"fields,omitempty"`
}

// HierarchyDoc configures the hierarchy rooted at the enclosing type.
type HierarchyDoc struct {
	Schema        string `yaml:"schema,omitempty"` // class_table (default), single_table, concrete_table
	IncludeTypeID *bool  `yaml:"include_type_id,omitempty"`
}

// FieldDoc describes one field. Nested fields use leaf names.
type FieldDoc struct {
	Name         string     `yaml:"name"`
	OriginalName string     `yaml:"original_name,omitempty"`
	MappingName  string     `yaml:"mapping_name,omitempty"`
	Kind         string     `yaml:"kind,omitempty"` // primitive (default), entity, structure, entity_set
	PrimaryKey   bool       `yaml:"primary_key,omitempty"`
	ValueType    string     `yaml:"value_type,omitempty"`
	ItemType     string     `yaml:"item_type,omitempty"`
	Fields       []FieldDoc `yaml:"fields,omitempty"`
}

// AssociationDoc describes one association.
type AssociationDoc struct {
	Name           string `yaml:"name"`
	Owner          string `yaml:"owner"`
	Field          string `yaml:"field"`
	ReferencedType string `yaml:"referenced_type"`
	Multiplicity   string `yaml:"multiplicity"`
	Connector      string `yaml:"connector,omitempty"`
	Master         bool   `yaml:"master,omitempty"`
	Reversed       string `yaml:"reversed,omitempty"`
}
