package relation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/quill/engine"
	"github.com/grovetools/quill/model"
	"github.com/grovetools/quill/query"
	"github.com/grovetools/quill/relation"
	"github.com/grovetools/quill/testutil"
)

type author struct {
	ID   int64  `db:"id,pk"`
	Name string `db:"name"`
}

type book struct {
	ID       int64  `db:"id,pk"`
	AuthorID int64  `db:"author_id" ref:"author.id"`
	Title    string `db:"title"`
}

var (
	authors = model.MustRegister[author]("")
	books   = model.MustRegister[book]("")

	authorBooks = relation.MustHasManyOf(authors, books)
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := testutil.SQLiteEngine(t)
	ctx := context.Background()

	_, err := e.ExecSQL(ctx, `CREATE TABLE author (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`)
	require.NoError(t, err)

	_, err = e.ExecSQL(ctx, `CREATE TABLE book (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL REFERENCES author(id),
		title TEXT NOT NULL
	)`)
	require.NoError(t, err)
	return e
}

func seed(t *testing.T, e *engine.Engine) *author {
	t.Helper()
	ctx := context.Background()

	out, err := engine.All[author](ctx, e, query.InsertInto(authors).Set("name", "ada").Returning(authors))
	require.NoError(t, err)
	ada := out[0]

	for _, title := range []string{"one", "two"} {
		_, err := e.Exec(ctx, query.InsertInto(books).Set("author_id", ada.ID).Set("title", title))
		require.NoError(t, err)
	}
	return ada
}

func TestInferenceFailsWithoutForeignKey(t *testing.T) {
	_, err := relation.HasManyOf(books, authors)
	require.Error(t, err)
}

func TestViaSelectsColumnExplicitly(t *testing.T) {
	r, err := relation.HasManyOf(authors, books, relation.Via("author_id"))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestLoadAndCache(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	ada := seed(t, e)

	loaded, err := authorBooks.Load(ctx, e, ada)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Cached: the same instances come back without refetching.
	again, err := authorBooks.Load(ctx, e, ada)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Same(t, loaded[0], again[0])

	// New rows appear only after Refresh.
	_, err = e.Exec(ctx, query.InsertInto(books).Set("author_id", ada.ID).Set("title", "three"))
	require.NoError(t, err)

	again, err = authorBooks.Load(ctx, e, ada)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	refreshed, err := authorBooks.Refresh(ctx, e, ada)
	require.NoError(t, err)
	assert.Len(t, refreshed, 3)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	ada := seed(t, e)
	authorBooks.Clear(ada)

	const n = 8
	results := make([][]*book, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			out, err := authorBooks.Load(ctx, e, ada)
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Len(t, results[i], 2)
		// All callers observe the same cached slice.
		assert.Same(t, results[0][0], results[i][0])
	}
}

func TestQueryIsComposable(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	ada := seed(t, e)

	q, err := authorBooks.Query(ada)
	require.NoError(t, err)

	out, err := engine.All(ctx, e, q.Where(books.C("title").Eq("two")))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "two", out[0].Title)
}
