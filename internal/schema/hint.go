package schema

import (
	"fmt"
	"strings"

	"upgrade-planner/internal/common"
)

// Kind identifies a schema hint variant.
type Kind int

const (
	KindRename Kind = iota
	KindCopyData
	KindDeleteData
	KindUpdateData
)

// String returns the YAML key of the kind.
func (k Kind) String() string {
	switch k {
	case KindRename:
		return "rename"
	case KindCopyData:
		return "copy_data"
	case KindDeleteData:
		return "delete_data"
	case KindUpdateData:
		return "update_data"
	default:
		return common.UnknownStr
	}
}

// Hint is one of the schema hint variants declared in this package.
type Hint interface {
	Kind() Kind
	String() string
	isSchemaHint()
}

// IdentityPair filters or joins rows: Column equals Source, which is either
// another column path or, with IsConstant, a literal value.
type IdentityPair struct {
	Column     string `yaml:"column"`
	Source     string `yaml:"source"`
	IsConstant bool   `yaml:"constant,omitempty"`
}

// String renders the pair as an equality.
func (p IdentityPair) String() string {
	if p.IsConstant {
		return fmt.Sprintf("%s = '%s'", p.Column, p.Source)
	}

	return fmt.Sprintf("%s = %s", p.Column, p.Source)
}

// ColumnPair pairs a source column path with a destination column path.
type ColumnPair struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Rename renames a table or a column.
type Rename struct {
	OldPath string `yaml:"old"`
	NewPath string `yaml:"new"`
}

// CopyData copies column values between rows joined by identity columns.
type CopyData struct {
	SourceTable string         `yaml:"source_table"`
	Identities  []IdentityPair `yaml:"identities"`
	Columns     []ColumnPair   `yaml:"columns"`
}

// DeleteData deletes the rows of a table selected by the identity filters.
// IsMove marks rows that are relocated to another hierarchy rather than destroyed.
type DeleteData struct {
	Table      string         `yaml:"table"`
	Identities []IdentityPair `yaml:"identities,omitempty"`
	IsMove     bool           `yaml:"move,omitempty"`
}

// UpdateData sets columns to null in the rows selected by the identity filters.
type UpdateData struct {
	Table      string         `yaml:"table"`
	Identities []IdentityPair `yaml:"identities"`
	Nulls      []string       `yaml:"nulls"`
}

func (*Rename) Kind() Kind     { return KindRename }
func (*CopyData) Kind() Kind   { return KindCopyData }
func (*DeleteData) Kind() Kind { return KindDeleteData }
func (*UpdateData) Kind() Kind { return KindUpdateData }

func (*Rename) isSchemaHint()     {}
func (*CopyData) isSchemaHint()   {}
func (*DeleteData) isSchemaHint() {}
func (*UpdateData) isSchemaHint() {}

func (h *Rename) String() string {
	return fmt.Sprintf("Rename(%s -> %s)", h.OldPath, h.NewPath)
}

func (h *CopyData) String() string {
	cols := make([]string, 0, len(h.Columns))
	for _, c := range h.Columns {
		cols = append(cols, c.Source+" -> "+c.Target)
	}

	return fmt.Sprintf("CopyData(%s; %s; where %s)", h.SourceTable, strings.Join(cols, ", "), joinPairs(h.Identities))
}

func (h *DeleteData) String() string {
	verb := "DeleteData"
	if h.IsMove {
		verb = "DeleteData[move]"
	}

	if len(h.Identities) == 0 {
		return fmt.Sprintf("%s(%s)", verb, h.Table)
	}

	return fmt.Sprintf("%s(%s; where %s)", verb, h.Table, joinPairs(h.Identities))
}

func (h *UpdateData) String() string {
	return fmt.Sprintf("UpdateData(%s; null %s; where %s)", h.Table, strings.Join(h.Nulls, ", "), joinPairs(h.Identities))
}

func joinPairs(pairs []IdentityPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.String())
	}

	return strings.Join(parts, " and ")
}
