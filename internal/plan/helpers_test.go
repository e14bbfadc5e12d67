package plan

import (
	"sort"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
	"upgrade-planner/internal/schema"
)

func mustModel(t *testing.T, src string) *model.Model {
	t.Helper()

	m, err := model.Parse([]byte(src))
	require.NoError(t, err)

	return m
}

func mustHints(t *testing.T, src string) hint.List {
	t.Helper()

	if src == "" {
		return nil
	}

	f, err := hint.Parse([]byte(src))
	require.NoError(t, err)

	return f.Hints
}

func generate(t *testing.T, oldSrc, newSrc, hintSrc string) (*UpgradePlan, error) {
	t.Helper()

	return GenerateHints(mustModel(t, oldSrc), mustModel(t, newSrc), mustHints(t, hintSrc), DefaultConfig())
}

func mustGenerate(t *testing.T, oldSrc, newSrc, hintSrc string) *UpgradePlan {
	t.Helper()

	p, err := generate(t, oldSrc, newSrc, hintSrc)
	require.NoError(t, err)

	return p
}

func schemaStrings(p *UpgradePlan) []string {
	out := make([]string, 0, len(p.SchemaHints))
	for _, h := range p.SchemaHints {
		out = append(out, h.String())
	}

	return out
}

func hintStrings(p *UpgradePlan) []string {
	out := make([]string, 0, len(p.Hints))
	for _, h := range p.Hints {
		out = append(out, h.String())
	}

	return out
}

func findHint[H hint.Hint](t *testing.T, p *UpgradePlan, text string) H {
	t.Helper()

	for _, h := range p.Hints {
		if h.String() == text {
			typed, ok := h.(H)
			require.True(t, ok, "hint %s has type %T", text, h)

			return typed
		}
	}

	require.Failf(t, "hint not found", "%s not in\n%s", text, spew.Sdump(hintStrings(p)))

	var zero H

	return zero
}

// mappedTypeNames returns "Old -> New" for every type mapping.
func mappedTypeNames(p *UpgradePlan) []string {
	var out []string

	for _, o := range p.Types.Keys() {
		n, _ := p.Types.Get(o)
		out = append(out, o.Name+" -> "+n.Name)
	}

	return out
}

// requireInjective checks both mapping tables map distinct keys onto distinct values.
func requireInjective(t *testing.T, p *UpgradePlan) {
	t.Helper()

	seenTypes := make(map[*model.Type]*model.Type)
	for _, o := range p.Types.Keys() {
		n, ok := p.Types.Get(o)
		require.True(t, ok)
		require.NotContains(t, seenTypes, n, "type %s mapped twice", n)
		seenTypes[n] = o

		back, ok := p.Types.Reverse(n)
		require.True(t, ok)
		require.Same(t, o, back)
	}

	seenFields := make(map[*model.Field]*model.Field)
	for _, o := range p.Fields.Keys() {
		n, ok := p.Fields.Get(o)
		require.True(t, ok)
		require.NotContains(t, seenFields, n, "field %s mapped twice", n)
		seenFields[n] = o

		back, ok := p.Fields.Reverse(n)
		require.True(t, ok)
		require.Same(t, o, back)
	}
}

// physicalPaths lists every table and column path of a snapshot.
func physicalPaths(m *model.Model) []string {
	set := make(map[string]bool)

	for _, t := range m.Types() {
		if model.HasTable(t) {
			set[schema.TablePath(t.MappingName)] = true
		}

		for _, f := range t.AllFields() {
			for _, table := range model.ColumnTables(t, f, false) {
				for _, c := range f.Columns() {
					set[schema.ColumnPath(table.MappingName, c.MappingName)] = true
				}
			}
		}
	}

	return sortedKeys(set)
}

// applyRenames applies the Rename hints to a path list: columns first, as
// their old paths name the old tables, then tables.
func applyRenames(t *testing.T, paths []string, hints []schema.Hint) []string {
	t.Helper()

	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}

	var tables []*schema.Rename

	for _, h := range hints {
		r, ok := h.(*schema.Rename)
		if !ok {
			continue
		}

		_, column, err := schema.SplitPath(r.OldPath)
		require.NoError(t, err)

		if column == "" {
			tables = append(tables, r)
			continue
		}

		require.True(t, set[r.OldPath], "renamed column %s does not exist", r.OldPath)
		delete(set, r.OldPath)
		set[r.NewPath] = true
	}

	for _, r := range tables {
		oldTable, _, _ := schema.SplitPath(r.OldPath)
		newTable, _, _ := schema.SplitPath(r.NewPath)

		for p := range set {
			table, column, err := schema.SplitPath(p)
			require.NoError(t, err)

			if table != oldTable {
				continue
			}

			delete(set, p)

			if column == "" {
				set[schema.TablePath(newTable)] = true
			} else {
				set[schema.ColumnPath(newTable, column)] = true
			}
		}
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
