package model

//go:generate go tool stringer -type=Multiplicity -output=multiplicity_string.go

// Multiplicity describes the cardinality of an association.
type Multiplicity int

const (
	OneToOne Multiplicity = iota
	ZeroToOne
	OneToMany
	ManyToOne
	ManyToMany
	ZeroToMany
)

// Role field names of connector types.
const (
	MasterField = "Master"
	SlaveField  = "Slave"
)

// Association links an owning field to the type it references.
type Association struct {
	Name           string
	OwningField    *Field
	ReferencedType *Type
	Multiplicity   Multiplicity
	// ConnectorType is set only for associations backed by a junction table.
	ConnectorType *Type
	// IsMaster marks the side that owns the connector pairing.
	IsMaster bool
	Reversed *Association
}

// OwningType returns the type declaring the owning field.
func (a *Association) OwningType() *Type {
	return a.OwningField.DeclaringType
}

// Roles returns the connector role field names for the owning and the
// referenced side of a.
func (a *Association) Roles() (owner, referenced string) {
	if a.IsMaster {
		return MasterField, SlaveField
	}

	return SlaveField, MasterField
}

// String returns the association name.
func (a *Association) String() string {
	return a.Name
}
