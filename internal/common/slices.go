package common

// Filter returns the elements of s for which keep returns true, preserving order.
func Filter[S ~[]E, E any](s S, keep func(E) bool) S {
	var out S

	for _, e := range s {
		if keep(e) {
			out = append(out, e)
		}
	}

	return out
}

// Dedup drops elements whose key was already seen, preserving first occurrences.
func Dedup[S ~[]E, E any](s S, key func(E) string) S {
	seen := make(map[string]struct{}, len(s))
	out := s[:0:0]

	for _, e := range s {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, e)
	}

	return out
}
