// Package hint defines the upgrade hints a caller supplies to disambiguate
// model changes, as a closed set of variants.
//
// Hints name types and fields by their stable names:
//   - RenameType: old type name -> new type name
//   - RenameField: new declaring type, old field name -> new field name
//   - ChangeFieldType: new declaring type and field whose value type changed
//   - RemoveType / RemoveField: old type (and field) that is gone
//   - CopyField / MoveField: old source type and field -> new target type and field
//
// A hint file has the following structure:
//
//	version: "1"
//	hints:
//	  - rename_type: {old: Model.Author, new: Model.Writer}
//	  - rename_field: {type: Model.Book, old: Authors, new: Writers}
//	  - remove_type: Model.Draft
//	  - remove_field: {type: Model.Book, field: Isbn}
//	  - copy_field: {source_type: Model.Book, source_field: Title, target_type: Model.Edition, target_field: Title}
package hint
