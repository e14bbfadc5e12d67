package match

import "sort"

// DefaultMinScore is the similarity below which a candidate is not suggested.
const DefaultMinScore = 0.6

// Suggestion is a candidate name with its similarity to the wanted name.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name, best first. Qualified names are
// compared both in full and by their simple (last segment) names, keeping
// the better score.
func Rank(name string, candidates []string) []Suggestion {
	want := NormalizeName(name)
	wantSimple := NormalizeName(SimpleName(name))

	out := make([]Suggestion, 0, len(candidates))

	for _, c := range candidates {
		score := max(
			Similarity(want, NormalizeName(c)),
			Similarity(wantSimple, NormalizeName(SimpleName(c))),
		)
		out = append(out, Suggestion{Name: c, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns up to limit candidate names scoring at least DefaultMinScore.
// The name itself is never suggested.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var out []string

	for _, s := range Rank(name, candidates) {
		if s.Score < DefaultMinScore || len(out) == limit {
			break
		}

		if s.Name != name {
			out = append(out, s.Name)
		}
	}

	return out
}
