package plan

import (
	"fmt"
	"strings"

	"upgrade-planner/internal/common"
	"upgrade-planner/internal/hint"
)

// Side tells which snapshot a lookup ran against.
type Side int

const (
	SideOld Side = iota
	SideNew
)

// String returns a human-readable representation of the Side.
func (s Side) String() string {
	switch s {
	case SideOld:
		return "old"
	case SideNew:
		return "new"
	default:
		return common.UnknownStr
	}
}

// TypeNotFoundError reports a hint naming a type absent from the expected snapshot.
type TypeNotFoundError struct {
	Name        string
	Side        Side
	Suggestions []string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type %q not found in %s model%s", e.Name, e.Side, didYouMean(e.Suggestions))
}

// FieldNotFoundError reports a hint naming a field absent from the expected type.
type FieldNotFoundError struct {
	Type        string
	Field       string
	Side        Side
	Suggestions []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found on %s type %q%s", e.Field, e.Side, e.Type, didYouMean(e.Suggestions))
}

// HintConflictError reports two hints claiming the same source or destination.
// Second is nil when First collides with a mapping established by name identity.
type HintConflictError struct {
	First   hint.Hint
	Second  hint.Hint
	Subject string
}

func (e *HintConflictError) Error() string {
	if e.Second == nil {
		return fmt.Sprintf("hint %s conflicts with the identity mapping of %s", e.First, e.Subject)
	}

	return fmt.Sprintf("hints %s and %s conflict on %s", e.First, e.Second, e.Subject)
}

// KeysDoNotMatchError reports a CopyField between hierarchies with incompatible keys.
type KeysDoNotMatchError struct {
	Source string
	Target string
}

func (e *KeysDoNotMatchError) Error() string {
	return fmt.Sprintf("keys of %s and %s do not match", e.Source, e.Target)
}

// FieldsDoNotMatchError reports a CopyField between fields of different shape.
type FieldsDoNotMatchError struct {
	Source string
	Target string
}

func (e *FieldsDoNotMatchError) Error() string {
	return fmt.Sprintf("fields %s and %s do not match", e.Source, e.Target)
}

// TypeNotInHierarchyError reports a CopyField naming a type without a hierarchy.
type TypeNotInHierarchyError struct {
	Type string
}

func (e *TypeNotInHierarchyError) Error() string {
	return fmt.Sprintf("type %s is not part of any hierarchy", e.Type)
}

func didYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		quoted = append(quoted, fmt.Sprintf("%q", s))
	}

	return "; did you mean " + strings.Join(quoted, ", ") + "?"
}

// conflict orders the colliding hints so that a nil hint (identity) comes second.
func conflict(first, second hint.Hint, subject string) *HintConflictError {
	if first == nil {
		first, second = second, first
	}

	return &HintConflictError{First: first, Second: second, Subject: subject}
}
