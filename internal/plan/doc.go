// Package plan computes an upgrade plan between two model snapshots.
//
// Pipeline (one GenerateHints call, no state survives it):
//  1. Normalize hints: expand open generic renames per instantiation,
//     rewrite moves into a copy plus a removal
//  2. Map types by rename/remove hints and name identity (connectors excluded)
//  3. Map fields of every mapped type pair, then nested fields through a queue
//  4. Map connector types by tracing mapped owning fields of associations
//  5. Validate every hint against both snapshots
//  6. Synthesize schema hints: renames, data copies, row cleanup
//  7. Assemble native hints: inferred connector removals, type-id removals,
//     primary-key cascades, affected table/column annotation
//
// Any error aborts the run; no partial plan is returned.
package plan
