package match

import (
	"strings"
	"unicode"
)

// NormalizeName folds an identifier for fuzzy comparison: CamelCase is
// tokenized, everything is lower-cased and separators are dropped.
// "Model.BookAuthor", "model.book_author" and "Model.Book-Author" all fold to
// "modelbookauthor".
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(tokenize(s), ""))
}

// SimpleName returns the last segment of a qualified name.
func SimpleName(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}

	return s
}

// tokenize splits an identifier at separators and CamelCase boundaries.
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "Model.book_id" -> ["Model", "book", "id"]
func tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower->upper transition or the end of an acronym.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
