package hint

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of a hint set.
type File struct {
	Version string `yaml:"version"`
	Hints   List   `yaml:"hints"`
}

// List is an ordered hint set. Each YAML item is a single-key mapping whose
// key is the hint kind.
type List []Hint

// UnmarshalYAML implements custom YAML unmarshaling for List.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of hints, got %v", node.Line, node.Kind)
	}

	out := make(List, 0, len(node.Content))

	for _, item := range node.Content {
		h, err := decodeHint(item)
		if err != nil {
			return err
		}

		out = append(out, h)
	}

	*l = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for List.
func (l List) MarshalYAML() (any, error) {
	out := make([]map[string]Hint, 0, len(l))
	for _, h := range l {
		out = append(out, map[string]Hint{h.Kind().String(): h})
	}

	return out, nil
}

func decodeHint(node *yaml.Node) (Hint, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: a hint is a mapping with exactly one kind key", node.Line)
	}

	key, value := node.Content[0].Value, node.Content[1]

	var h Hint

	switch key {
	case "rename_type":
		h = &RenameType{}
	case "rename_field":
		h = &RenameField{}
	case "change_field_type":
		h = &ChangeFieldType{}
	case "remove_type":
		// Shorthand: "- remove_type: Model.Author"
		if value.Kind == yaml.ScalarNode {
			return &RemoveType{Type: value.Value}, nil
		}

		h = &RemoveType{}
	case "remove_field":
		h = &RemoveField{}
	case "copy_field":
		h = &CopyField{}
	case "move_field":
		h = &MoveField{}
	default:
		return nil, fmt.Errorf("line %d: unknown hint kind %q", node.Line, key)
	}

	if err := value.Decode(h); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", node.Line, key, err)
	}

	if err := checkComplete(h); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", node.Line, key, err)
	}

	return h, nil
}

var errIncomplete = errors.New("missing required names")

func checkComplete(h Hint) error {
	var names []string

	switch h := h.(type) {
	case *RenameType:
		names = []string{h.OldName, h.NewName}
	case *RenameField:
		names = []string{h.Type, h.OldName, h.NewName}
	case *ChangeFieldType:
		names = []string{h.Type, h.Field}
	case *RemoveType:
		names = []string{h.Type}
	case *RemoveField:
		names = []string{h.Type, h.Field}
	case *CopyField:
		names = []string{h.SourceType, h.SourceField, h.TargetType, h.TargetField}
	case *MoveField:
		names = []string{h.SourceType, h.SourceField, h.TargetType, h.TargetField}
	}

	for _, n := range names {
		if n == "" {
			return errIncomplete
		}
	}

	return nil
}
