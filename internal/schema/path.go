package schema

import (
	"fmt"
	"strings"
)

const (
	tablesPrefix   = "Tables/"
	columnsSegment = "/Columns/"
)

// TablePath returns the path of a table.
func TablePath(table string) string {
	return tablesPrefix + table
}

// ColumnPath returns the path of a column of a table.
func ColumnPath(table, column string) string {
	return TablePath(table) + columnsSegment + column
}

// SplitPath splits a table or column path. The column is empty for table paths.
func SplitPath(path string) (table, column string, err error) {
	rest, ok := strings.CutPrefix(path, tablesPrefix)
	if !ok || rest == "" {
		return "", "", fmt.Errorf("invalid schema path %q", path)
	}

	table, column, hasColumn := strings.Cut(rest, columnsSegment)
	if table == "" || (hasColumn && column == "") {
		return "", "", fmt.Errorf("invalid schema path %q", path)
	}

	return table, column, nil
}
