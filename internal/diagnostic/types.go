package diagnostic

import (
	"fmt"
	"strings"
)

// Info codes.
const (
	CodeTypeRenamed       = "type_renamed"
	CodeTypeIdentity      = "type_identity"
	CodeFieldRenamed      = "field_renamed"
	CodeFieldRetyped      = "field_retyped"
	CodeFieldIdentity     = "field_identity"
	CodeNestedField       = "nested_field"
	CodeConnectorInferred = "connector_inferred"
	CodeConnectorRemoved  = "connector_removed"
	CodeGenericExpanded   = "generic_expanded"
	CodeMoveRewritten     = "move_rewritten"
)

// Diagnostics holds the explanation trail of one planner run. Hints dropped
// on purpose (unresolvable generic instantiations, fields whose value type changed) are not
// reported here.
type Diagnostics struct {
	Infos []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies which type mapping this relates to (if any), "Old -> New".
	TypePair string
	// FieldPath identifies which field this relates to (if any).
	FieldPath string
}

// TypePair formats an old/new type pair for Diagnostic.TypePair.
func TypePair(oldName, newName string) string {
	return oldName + " -> " + newName
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.Infos = append(d.Infos, Diagnostic{
		Code:      code,
		Message:   message,
		TypePair:  typePair,
		FieldPath: fieldPath,
	})
}

// ByCode returns all diagnostics carrying code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.Infos {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
