package schema

// List is an ordered list of schema hints. Each YAML item is a single-key
// mapping whose key is the hint kind.
type List []Hint

// MarshalYAML implements custom YAML marshaling for List.
func (l List) MarshalYAML() (any, error) {
	out := make([]map[string]Hint, 0, len(l))
	for _, h := range l {
		out = append(out, map[string]Hint{h.Kind().String(): h})
	}

	return out, nil
}
