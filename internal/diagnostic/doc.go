// Package diagnostic records "why this mapped" explanations produced while
// an upgrade plan is built.
//
// Key capabilities:
//   - Explanation of type and field mapping decisions
//   - Inferred facts (connector mappings, generic expansions, move rewrites)
//   - Stable codes for filtering and tests
package diagnostic
