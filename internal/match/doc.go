// Package match ranks known type and field names against a name that could
// not be resolved, to attach "did you mean" suggestions to lookup errors.
//
// Key functions:
//   - NormalizeName: folds case and separators of (qualified) identifiers
//   - Levenshtein: computes edit distance between strings
//   - Rank / Suggest: orders candidate names by similarity
package match
