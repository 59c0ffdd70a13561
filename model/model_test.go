package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
)

type author struct {
	ID    int64   `db:"id,pk"`
	Name  string  `db:"name"`
	Email *string `db:"email"`
	Books []*book `db:"-"`
}

type book struct {
	ID       int64  `db:"id,pk"`
	AuthorID int64  `db:"author_id" ref:"author.id"`
	Title    string `db:"title"`
}

var (
	authors = MustRegister[author]("")
	books   = MustRegister[book]("")
)

func TestRegisterDefaultsTableName(t *testing.T) {
	assert.Equal(t, "author", authors.Name())
	assert.Equal(t, "author", authors.Alias())
	assert.False(t, authors.IsAliased())
}

func TestRegisterRejectsBadTypes(t *testing.T) {
	_, err := Register[int]("nope")
	require.Error(t, err)

	type empty struct {
		Hidden string
	}
	_, err = Register[empty]("")
	require.Error(t, err)
}

func TestMetaOf(t *testing.T) {
	m, err := MetaOf(&author{})
	require.NoError(t, err)
	assert.Same(t, authors.TableMeta(), m)

	// Value and pointer resolve to the same metadata.
	m, err = MetaOf(author{})
	require.NoError(t, err)
	assert.Same(t, authors.TableMeta(), m)

	type unregistered struct {
		ID int64 `db:"id,pk"`
	}
	_, err = MetaOf(&unregistered{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotRegistered))
}

func TestFieldDescriptors(t *testing.T) {
	name := authors.C("name")
	assert.Equal(t, expr.OpField, name.ExprOp())
	assert.Equal(t, "author", name.TableAlias())
	assert.Equal(t, "name", name.ColumnName())
	assert.Equal(t, "Name", name.Attr())

	pks := authors.PrimaryKeys()
	require.Len(t, pks, 1)
	assert.Equal(t, "id", pks[0].ColumnName())

	_, err := authors.Column("missing")
	require.Error(t, err)
	assert.Panics(t, func() { authors.C("missing") })
}

func TestForeignKeyReferences(t *testing.T) {
	table, column, ok := books.C("author_id").References()
	require.True(t, ok)
	assert.Equal(t, "author", table)
	assert.Equal(t, "id", column)

	_, _, ok = books.C("title").References()
	assert.False(t, ok)
}

func TestAliasedTable(t *testing.T) {
	a := authors.As("a")
	assert.Equal(t, "author", a.Name())
	assert.Equal(t, "a", a.Alias())
	assert.True(t, a.IsAliased())

	// Aliased descriptors are distinct and render under the alias.
	assert.Equal(t, "a", a.C("id").TableAlias())
	assert.Equal(t, "author", authors.C("id").TableAlias())
	assert.NotSame(t, authors.C("id"), a.C("id"))
}

func TestAttachmentPoints(t *testing.T) {
	attr, ok := authors.AttachAttrFor(books.TableMeta())
	require.True(t, ok)
	assert.Equal(t, "Books", attr)

	_, ok = books.AttachAttrFor(authors.TableMeta())
	assert.False(t, ok)

	parent := &author{ID: 1}
	child := &book{ID: 10, AuthorID: 1}
	require.NoError(t, authors.Attach(parent, "Books", child))
	require.Len(t, parent.Books, 1)
	assert.Same(t, child, parent.Books[0])
}

func TestSetColumnConversions(t *testing.T) {
	inst := authors.NewInstance().(*author)

	// Drivers return int64 regardless of the declared integer width.
	require.NoError(t, authors.SetColumn(inst, authors.C("id"), int64(7)))
	assert.Equal(t, int64(7), inst.ID)

	// []byte stands in for text.
	require.NoError(t, authors.SetColumn(inst, authors.C("name"), []byte("ada")))
	assert.Equal(t, "ada", inst.Name)

	// Values are allocated through pointers; nil zeroes them.
	require.NoError(t, authors.SetColumn(inst, authors.C("email"), "ada@example.com"))
	require.NotNil(t, inst.Email)
	assert.Equal(t, "ada@example.com", *inst.Email)

	require.NoError(t, authors.SetColumn(inst, authors.C("email"), nil))
	assert.Nil(t, inst.Email)
}

func TestFluentExpressionsOnFields(t *testing.T) {
	e := authors.C("name").Eq("ada")
	require.Equal(t, expr.OpEq, e.ExprOp())

	ops := e.Operands()
	require.Len(t, ops, 2)
	assert.Same(t, authors.C("name"), ops[0])
	assert.Equal(t, "ada", ops[1])
}
