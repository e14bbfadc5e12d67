package hint

import (
	"fmt"

	"upgrade-planner/internal/common"
)

// Kind identifies a hint variant.
type Kind int

const (
	KindRenameType Kind = iota
	KindRenameField
	KindChangeFieldType
	KindRemoveType
	KindRemoveField
	KindCopyField
	KindMoveField
)

// String returns the YAML key of the kind.
func (k Kind) String() string {
	switch k {
	case KindRenameType:
		return "rename_type"
	case KindRenameField:
		return "rename_field"
	case KindChangeFieldType:
		return "change_field_type"
	case KindRemoveType:
		return "remove_type"
	case KindRemoveField:
		return "remove_field"
	case KindCopyField:
		return "copy_field"
	case KindMoveField:
		return "move_field"
	default:
		return common.UnknownStr
	}
}

// Hint is one of the variants declared in this package.
type Hint interface {
	Kind() Kind
	String() string
	isHint()
}

// RenameType maps an old type onto a differently named new type.
type RenameType struct {
	OldName string `yaml:"old"`
	NewName string `yaml:"new"`
}

// RenameField maps an old field onto a differently named field of the new type.
type RenameField struct {
	Type    string `yaml:"type"` // New declaring type
	OldName string `yaml:"old"`
	NewName string `yaml:"new"`
}

// ChangeFieldType maps a field of the new type even though its value type changed.
type ChangeFieldType struct {
	Type            string   `yaml:"type"` // New declaring type
	Field           string   `yaml:"field"`
	AffectedColumns []string `yaml:"affected_columns,omitempty"`
}

// RemoveType drops an old type.
type RemoveType struct {
	Type           string   `yaml:"type"`
	AffectedTables []string `yaml:"affected_tables,omitempty"`
	// AffectedColumns is set for types sharing a table with their hierarchy.
	AffectedColumns []string `yaml:"affected_columns,omitempty"`
}

// RemoveField drops a field of an old type. Nested fields use dotted paths.
type RemoveField struct {
	Type            string   `yaml:"type"`
	Field           string   `yaml:"field"`
	AffectedColumns []string `yaml:"affected_columns,omitempty"`
}

// CopyField copies the data of an old field into a field of a new type.
type CopyField struct {
	SourceType  string `yaml:"source_type"`
	SourceField string `yaml:"source_field"`
	TargetType  string `yaml:"target_type"`
	TargetField string `yaml:"target_field"`
}

// MoveField copies an old field into a new type's field and removes the source.
type MoveField struct {
	SourceType  string `yaml:"source_type"`
	SourceField string `yaml:"source_field"`
	TargetType  string `yaml:"target_type"`
	TargetField string `yaml:"target_field"`
}

func (*RenameType) Kind() Kind      { return KindRenameType }
func (*RenameField) Kind() Kind     { return KindRenameField }
func (*ChangeFieldType) Kind() Kind { return KindChangeFieldType }
func (*RemoveType) Kind() Kind      { return KindRemoveType }
func (*RemoveField) Kind() Kind     { return KindRemoveField }
func (*CopyField) Kind() Kind       { return KindCopyField }
func (*MoveField) Kind() Kind       { return KindMoveField }

func (*RenameType) isHint()      {}
func (*RenameField) isHint()     {}
func (*ChangeFieldType) isHint() {}
func (*RemoveType) isHint()      {}
func (*RemoveField) isHint()     {}
func (*CopyField) isHint()       {}
func (*MoveField) isHint()       {}

func (h *RenameType) String() string {
	return fmt.Sprintf("RenameType(%s -> %s)", h.OldName, h.NewName)
}

func (h *RenameField) String() string {
	return fmt.Sprintf("RenameField(%s: %s -> %s)", h.Type, h.OldName, h.NewName)
}

func (h *ChangeFieldType) String() string {
	return fmt.Sprintf("ChangeFieldType(%s.%s)", h.Type, h.Field)
}

func (h *RemoveType) String() string {
	return fmt.Sprintf("RemoveType(%s)", h.Type)
}

func (h *RemoveField) String() string {
	return fmt.Sprintf("RemoveField(%s.%s)", h.Type, h.Field)
}

func (h *CopyField) String() string {
	return fmt.Sprintf("CopyField(%s.%s -> %s.%s)", h.SourceType, h.SourceField, h.TargetType, h.TargetField)
}

func (h *MoveField) String() string {
	return fmt.Sprintf("MoveField(%s.%s -> %s.%s)", h.SourceType, h.SourceField, h.TargetType, h.TargetField)
}
