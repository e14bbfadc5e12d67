package plan

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/logging"
	"upgrade-planner/internal/model"
)

const oneToManyOld = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Author, kind: entity, value_type: Author}
associations:
  - {name: Author-Books, owner: Author, field: Books, referenced_type: Book, multiplicity: one_to_many, reversed: Book-Author}
  - {name: Book-Author, owner: Book, field: Author, referenced_type: Author, multiplicity: many_to_one, master: true, reversed: Author-Books}
`

const oneToManyNew = `
types:
  - name: Author1
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Author, kind: entity, value_type: Author1}
associations:
  - {name: Author-Books, owner: Author1, field: Books, referenced_type: Book, multiplicity: one_to_many, reversed: Book-Author}
  - {name: Book-Author, owner: Book, field: Author, referenced_type: Author1, multiplicity: many_to_one, master: true, reversed: Author-Books}
`

func TestGenerateHints_RenameTypeOneToMany(t *testing.T) {
	oldModel, newModel := mustModel(t, oneToManyOld), mustModel(t, oneToManyNew)

	p, err := GenerateHints(oldModel, newModel, mustHints(t, `
hints:
  - rename_type: {old: Author, new: Author1}
`), DefaultConfig())
	require.NoError(t, err)

	assert.Same(t, newModel.Type("Author1"), p.MappedType(oldModel.Type("Author")))
	assert.Same(t, newModel.Type("Book"), p.MappedType(oldModel.Type("Book")))
	assert.Equal(t, []string{"Rename(Tables/Author -> Tables/Author1)"}, schemaStrings(p))
	assert.Equal(t, []string{"RenameType(Author -> Author1)"}, hintStrings(p))

	oldRef := oldModel.Type("Book").FieldByPath("Author.Id")
	require.NotNil(t, oldRef)
	assert.Same(t, newModel.Type("Book").FieldByPath("Author.Id"), p.MappedField(oldRef))
	assert.Same(t, newModel.Type("Author1").Field("Books"), p.MappedField(oldModel.Type("Author").Field("Books")))

	assert.Len(t, p.Diagnostics.ByCode(diagnostic.CodeTypeRenamed), 1)
	assert.Len(t, p.Diagnostics.ByCode(diagnostic.CodeTypeIdentity), 1)
	requireInjective(t, p)
}

const manyToManyOld = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Authors, kind: entity_set, item_type: Author}
  - name: Author-Book
    fields:
      - {name: Master, kind: entity, value_type: Author, primary_key: true}
      - {name: Slave, kind: entity, value_type: Book, primary_key: true}
associations:
  - {name: Author-Books, owner: Author, field: Books, referenced_type: Book, multiplicity: many_to_many, connector: Author-Book, master: true, reversed: Book-Authors}
  - {name: Book-Authors, owner: Book, field: Authors, referenced_type: Author, multiplicity: many_to_many, connector: Author-Book, reversed: Author-Books}
`

const manyToManyNew = `
types:
  - name: Creator
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Creators, kind: entity_set, item_type: Creator}
  - name: Creator-Book
    fields:
      - {name: Master, kind: entity, value_type: Creator, primary_key: true}
      - {name: Slave, kind: entity, value_type: Book, primary_key: true}
associations:
  - {name: Creator-Books, owner: Creator, field: Books, referenced_type: Book, multiplicity: many_to_many, connector: Creator-Book, master: true, reversed: Book-Creators}
  - {name: Book-Creators, owner: Book, field: Creators, referenced_type: Creator, multiplicity: many_to_many, connector: Creator-Book, reversed: Creator-Books}
`

func TestGenerateHints_ManyToManyConnectorRemoved(t *testing.T) {
	oldModel, newModel := mustModel(t, manyToManyOld), mustModel(t, manyToManyNew)

	p, err := GenerateHints(oldModel, newModel, mustHints(t, `
hints:
  - remove_type: Author
  - rename_field: {type: Book, old: Authors, new: Creators}
`), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"RemoveType(Author)",
		"RenameField(Book: Authors -> Creators)",
		"RemoveType(Author-Book)",
	}, hintStrings(p))

	connector := findHint[*hint.RemoveType](t, p, "RemoveType(Author-Book)")
	assert.Equal(t, []string{"Tables/Author-Book"}, connector.AffectedTables)

	author := findHint[*hint.RemoveType](t, p, "RemoveType(Author)")
	assert.Equal(t, []string{"Tables/Author"}, author.AffectedTables)

	assert.Nil(t, p.MappedType(oldModel.Type("Author")))
	assert.Nil(t, p.MappedType(oldModel.Type("Author-Book")))
	assert.Nil(t, p.MappedField(oldModel.Type("Book").Field("Authors")))
	assert.Empty(t, p.SchemaHints)
	assert.Len(t, p.Diagnostics.ByCode(diagnostic.CodeConnectorRemoved), 1)
}

const compositeKeyOld = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id1, value_type: Int32, primary_key: true}
      - {name: Id2, value_type: Int32, primary_key: true}
      - {name: Title, value_type: String}
  - name: Review
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Book, kind: entity, value_type: Book}
  - name: Author-Book
    fields:
      - {name: Master, kind: entity, value_type: Author, primary_key: true}
      - {name: Slave, kind: entity, value_type: Book, primary_key: true}
associations:
  - {name: Author-Books, owner: Author, field: Books, referenced_type: Book, multiplicity: many_to_many, connector: Author-Book, master: true}
  - {name: Review-Book, owner: Review, field: Book, referenced_type: Book, multiplicity: many_to_one}
`

const compositeKeyNew = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Title, value_type: String}
  - name: Review
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Book, kind: entity, value_type: Book}
  - name: Author-Book
    fields:
      - {name: Master, kind: entity, value_type: Author, primary_key: true}
      - {name: Slave, kind: entity, value_type: Book, primary_key: true}
associations:
  - {name: Author-Books, owner: Author, field: Books, referenced_type: Book, multiplicity: many_to_many, connector: Author-Book, master: true}
  - {name: Review-Book, owner: Review, field: Book, referenced_type: Book, multiplicity: many_to_one}
`

func TestGenerateHints_CompositeKeyRemovalCascades(t *testing.T) {
	oldModel, newModel := mustModel(t, compositeKeyOld), mustModel(t, compositeKeyNew)

	p, err := GenerateHints(oldModel, newModel, mustHints(t, `
hints:
  - remove_field: {type: Book, field: Id2}
  - rename_field: {type: Book, old: Id1, new: Id}
`), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"RemoveField(Book.Id2)",
		"RenameField(Book: Id1 -> Id)",
		"RemoveField(Author-Book.Slave.Id2)",
		"RemoveField(Review.Book.Id2)",
	}, hintStrings(p))

	assert.Equal(t, []string{"Tables/Book/Columns/Id2"},
		findHint[*hint.RemoveField](t, p, "RemoveField(Book.Id2)").AffectedColumns)
	assert.Equal(t, []string{"Tables/Author-Book/Columns/Slave.Id2"},
		findHint[*hint.RemoveField](t, p, "RemoveField(Author-Book.Slave.Id2)").AffectedColumns)
	assert.Equal(t, []string{"Tables/Review/Columns/Book.Id2"},
		findHint[*hint.RemoveField](t, p, "RemoveField(Review.Book.Id2)").AffectedColumns)

	assert.ElementsMatch(t, []string{
		"Rename(Tables/Book/Columns/Id1 -> Tables/Book/Columns/Id)",
		"Rename(Tables/Review/Columns/Book.Id1 -> Tables/Review/Columns/Book.Id)",
		"Rename(Tables/Author-Book/Columns/Slave.Id1 -> Tables/Author-Book/Columns/Slave.Id)",
	}, schemaStrings(p))

	// The connector survives: its owning field is still backed by it.
	assert.Same(t, newModel.Type("Author-Book"), p.MappedType(oldModel.Type("Author-Book")))
	assert.Nil(t, p.MappedField(oldModel.Type("Author-Book").FieldByPath("Slave.Id2")))
	requireInjective(t, p)
}

func TestGenerateHints_RemovingNonKeyFieldDoesNotCascade(t *testing.T) {
	p := mustGenerate(t, compositeKeyOld, compositeKeyOld, `
hints:
  - remove_field: {type: Book, field: Title}
`)

	assert.Equal(t, []string{"RemoveField(Book.Title)"}, hintStrings(p))
}

func TestGenerateHints_RenameRoundTrip(t *testing.T) {
	const before = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Name, value_type: String}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Title, value_type: String}
      - {name: Author, kind: entity, value_type: Author}
`
	const after = `
types:
  - name: Writer
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Name, value_type: String}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Caption, value_type: String}
      - {name: Author, kind: entity, value_type: Writer}
`

	forward := mustGenerate(t, before, after, `
hints:
  - rename_type: {old: Author, new: Writer}
  - rename_field: {type: Book, old: Title, new: Caption}
`)
	backward := mustGenerate(t, after, before, `
hints:
  - rename_type: {old: Writer, new: Author}
  - rename_field: {type: Book, old: Caption, new: Title}
`)

	beforePaths := physicalPaths(mustModel(t, before))
	afterPaths := physicalPaths(mustModel(t, after))

	upgraded := applyRenames(t, beforePaths, forward.SchemaHints)
	assert.Equal(t, afterPaths, upgraded)
	assert.Equal(t, beforePaths, applyRenames(t, upgraded, backward.SchemaHints))
}

func TestGenerateHints_HintConflicts(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		hints   string
		first   string
		second  string
		subject string
	}{
		{
			name: "rename onto an identity-mapped type",
			old: `
types:
  - {name: Author, fields: [{name: Id, value_type: Int32, primary_key: true}]}
  - {name: Writer, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			new: `
types:
  - {name: Writer, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			hints: `
hints:
  - rename_type: {old: Author, new: Writer}
`,
			first:   "RenameType(Author -> Writer)",
			subject: "Writer",
		},
		{
			name: "two renames onto one type",
			old: `
types:
  - {name: A, fields: [{name: Id, value_type: Int32, primary_key: true}]}
  - {name: B, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			new: `
types:
  - {name: C, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			hints: `
hints:
  - rename_type: {old: A, new: C}
  - rename_type: {old: B, new: C}
`,
			first:   "RenameType(A -> C)",
			second:  "RenameType(B -> C)",
			subject: "C",
		},
		{
			name: "rename and removal of one type",
			old: `
types:
  - {name: A, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			new: `
types:
  - {name: B, fields: [{name: Id, value_type: Int32, primary_key: true}]}
`,
			hints: `
hints:
  - rename_type: {old: A, new: B}
  - remove_type: A
`,
			first:   "RenameType(A -> B)",
			second:  "RemoveType(A)",
			subject: "A",
		},
		{
			name: "field rename onto an identity-mapped field",
			old: `
types:
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Title, value_type: String}
      - {name: Name, value_type: String}
`,
			new: `
types:
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Name, value_type: String}
`,
			hints: `
hints:
  - rename_field: {type: Book, old: Title, new: Name}
`,
			first:   "RenameField(Book: Title -> Name)",
			subject: "Book.Name",
		},
		{
			name: "copy into a renamed field",
			old: `
types:
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Title, value_type: String}
      - {name: Subtitle, value_type: String}
`,
			new: `
types:
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Name, value_type: String}
`,
			hints: `
hints:
  - rename_field: {type: Book, old: Title, new: Name}
  - copy_field: {source_type: Book, source_field: Subtitle, target_type: Book, target_field: Name}
`,
			first:   "RenameField(Book: Title -> Name)",
			second:  "CopyField(Book.Subtitle -> Book.Name)",
			subject: "Book.Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := generate(t, tt.old, tt.new, tt.hints)
			require.Error(t, err)
			assert.Nil(t, p)

			var conflictErr *HintConflictError
			require.ErrorAs(t, err, &conflictErr)
			assert.Equal(t, tt.first, conflictErr.First.String())
			assert.Equal(t, tt.subject, conflictErr.Subject)

			if tt.second == "" {
				assert.Nil(t, conflictErr.Second)
			} else {
				require.NotNil(t, conflictErr.Second)
				assert.Equal(t, tt.second, conflictErr.Second.String())
			}
		})
	}
}

func TestGenerateHints_RequiresBothModels(t *testing.T) {
	_, err := GenerateHints(nil, mustModel(t, oneToManyNew), nil, DefaultConfig())
	require.Error(t, err)
}

func TestGenerateHints_NoHintsIsIdentity(t *testing.T) {
	p := mustGenerate(t, oneToManyOld, oneToManyOld, "")

	assert.Equal(t, []string{"Author -> Author", "Book -> Book"}, mappedTypeNames(p))
	assert.Empty(t, p.SchemaHints)
	assert.Empty(t, p.Hints)
	assert.Empty(t, p.Diagnostics.ByCode(diagnostic.CodeTypeRenamed))
	requireInjective(t, p)
}

func TestGenerateHints_LogsStages(t *testing.T) {
	var buf bytes.Buffer

	config := DefaultConfig()
	config.Logger = logging.New(logging.LevelDebug, logging.FormatText, &buf)

	_, err := GenerateHints(mustModel(t, manyToManyOld), mustModel(t, manyToManyNew), mustHints(t, `
hints:
  - remove_type: Author
`), config)
	require.NoError(t, err)

	out := buf.String()
	for _, stage := range []string{"map_types", "map_fields", "map_junctions", "validate", "synthesize", "assemble"} {
		assert.Contains(t, out, "stage="+stage)
	}
}

func TestGenerateHints_ErrorsAreWrappedWithStage(t *testing.T) {
	_, err := generate(t, oneToManyOld, oneToManyNew, `
hints:
  - rename_type: {old: Autor, new: Author1}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate: ")

	var notFound *TypeNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, SideOld, notFound.Side)
	assert.Equal(t, []string{"Author"}, notFound.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "Author"?`)
}

func TestUpgradePlan_MappedLookupsOfUnknownElements(t *testing.T) {
	p := mustGenerate(t, oneToManyOld, oneToManyOld, "")

	assert.Nil(t, p.MappedType(&model.Type{Name: "Ghost"}))
	assert.Nil(t, p.MappedField(&model.Field{Name: "Ghost"}))
}
