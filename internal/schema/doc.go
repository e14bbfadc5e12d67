// Package schema defines the engine-agnostic physical schema hints emitted
// for the schema applier.
//
// Hints address tables and columns by path:
//
//	Tables/<table>
//	Tables/<table>/Columns/<column>
package schema
