// Package model holds the persisted domain model snapshots diffed by the
// upgrade planner.
//
// A Model is an immutable graph of entity, structure and interface types,
// their fields (with nested key and structure columns), the hierarchies
// that decide how types land in tables, and the associations between them.
// Snapshots are produced once per upgrade attempt and are read-only from
// then on.
//
// Key types:
//   - Type: a persisted type with its declared fields and hierarchy links
//   - Field: a (possibly nested) field and the column it maps to
//   - Hierarchy: root type, inheritance schema and key fields
//   - Association: a reference or entity-set association, optionally
//     backed by a connector (junction) type
package model
