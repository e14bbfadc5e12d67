package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-planner/internal/diagnostic"
)

const authorBookOld = `
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

const bookAuthorNew = `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Book}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Authors, kind: entity_set, item_type: Author}
  - name: Book-Author
    fields:
      - {name: Master, kind: entity, value_type: Book, primary_key: true}
      - {name: Slave, kind: entity, value_type: Author, primary_key: true}
associations:
  - {name: Author-Books, owner: Author, field: Books, referenced_type: Book, multiplicity: many_to_many, connector: Book-Author, reversed: Book-Authors}
  - {name: Book-Authors, owner: Book, field: Authors, referenced_type: Author, multiplicity: many_to_many, connector: Book-Author, master: true, reversed: Author-Books}
`

func TestMapJunctions_ConnectorFollowsOwningField(t *testing.T) {
	oldModel := mustModel(t, authorBookOld)
	newModel := mustModel(t, strings.ReplaceAll(authorBookOld, "Author-Book", "Writes"))

	p, err := GenerateHints(oldModel, newModel, nil, DefaultConfig())
	require.NoError(t, err)

	assert.Same(t, newModel.Type("Writes"), p.MappedType(oldModel.Type("Author-Book")))
	assert.Same(t,
		newModel.Type("Writes").FieldByPath("Slave.Id"),
		p.MappedField(oldModel.Type("Author-Book").FieldByPath("Slave.Id")))
	assert.Equal(t, []string{"Rename(Tables/Author-Book -> Tables/Writes)"}, schemaStrings(p))
	assert.Empty(t, p.Hints)
}

func TestMapJunctions_SwapsRolesWhenMasterSideChanges(t *testing.T) {
	oldModel, newModel := mustModel(t, authorBookOld), mustModel(t, bookAuthorNew)

	p, err := GenerateHints(oldModel, newModel, nil, DefaultConfig())
	require.NoError(t, err)

	oldConnector, newConnector := oldModel.Type("Author-Book"), newModel.Type("Book-Author")
	assert.Same(t, newConnector, p.MappedType(oldConnector))
	assert.Same(t, newConnector.Field("Slave"), p.MappedField(oldConnector.Field("Master")))
	assert.Same(t, newConnector.Field("Master"), p.MappedField(oldConnector.Field("Slave")))
	assert.Same(t, newConnector.FieldByPath("Master.Id"), p.MappedField(oldConnector.FieldByPath("Slave.Id")))

	assert.Equal(t, []string{
		"Rename(Tables/Author-Book -> Tables/Book-Author)",
		"Rename(Tables/Author-Book/Columns/Master.Id -> Tables/Book-Author/Columns/Slave.Id)",
		"Rename(Tables/Author-Book/Columns/Slave.Id -> Tables/Book-Author/Columns/Master.Id)",
	}, schemaStrings(p))
	assert.Equal(t, physicalPaths(newModel), applyRenames(t, physicalPaths(oldModel), p.SchemaHints))

	assert.Len(t, p.Diagnostics.ByCode(diagnostic.CodeConnectorInferred), 3)
	assert.Empty(t, p.Hints)
	requireInjective(t, p)
}

func TestMapJunctions_ReferencedTypeMustStillMatch(t *testing.T) {
	oldModel := mustModel(t, authorBookOld)
	newModel := mustModel(t, `
types:
  - name: Author
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
      - {name: Books, kind: entity_set, item_type: Magazine}
  - name: Book
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
  - name: Magazine
    fields:
      - {name: Id, value_type: Int32, primary_key: true}
  - name: Author-Magazine
    fields:
      - {name: Master, kind: entity, value_type: Author, primary_key: true}
      - {name: Slave, kind: entity, value_type: Magazine, primary_key: true}
associations:
  - {name: Author-Magazines, owner: Author, field: Books, referenced_type: Magazine, multiplicity: many_to_many, connector: Author-Magazine, master: true}
`)

	p, err := GenerateHints(oldModel, newModel, nil, DefaultConfig())
	require.NoError(t, err)

	assert.Nil(t, p.MappedType(oldModel.Type("Author-Book")))
	assert.Equal(t, []string{"RemoveType(Author-Book)"}, hintStrings(p))
}
