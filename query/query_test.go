package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

type user struct {
	ID    int64   `db:"id,pk"`
	Name  string  `db:"name"`
	Posts []*post `db:"-"`
}

type post struct {
	ID       int64  `db:"id,pk"`
	AuthorID int64  `db:"author_id" ref:"user.id"`
	Title    string `db:"title"`
}

var (
	users = model.MustRegister[user]("")
	posts = model.MustRegister[post]("")
)

func TestSelectExpandsTables(t *testing.T) {
	q := Select(users)
	require.NoError(t, q.Err())
	require.Len(t, q.SelectValues(), 2)
	assert.Equal(t, "id", q.SelectValues()[0].(*model.Field).ColumnName())
	assert.Equal(t, "name", q.SelectValues()[1].(*model.Field).ColumnName())
}

func TestSelectRejectsBadValues(t *testing.T) {
	q := Select(42)
	require.Error(t, q.Err())
}

func TestJoinInfersConditionFromForeignKey(t *testing.T) {
	q := Select(users).From(users).Join(posts, InnerJoin)
	require.NoError(t, q.Err())
	require.Len(t, q.Joins(), 1)

	j := q.Joins()[0]
	assert.Equal(t, users.TableMeta(), j.Src)
	assert.Equal(t, posts.TableMeta(), j.Dest)
	assert.Equal(t, "Posts", j.Attr)
	require.NotNil(t, j.Condition)
	assert.Equal(t, expr.OpEq, j.Condition.ExprOp())
}

func TestJoinWithoutRelationFails(t *testing.T) {
	type orphan struct {
		ID int64 `db:"id,pk"`
	}
	orphans := model.MustRegister[orphan]("orphans")

	q := Select(users).From(users).Join(orphans, LeftJoin)
	require.Error(t, q.Err())

	// An explicit condition always works.
	q = Select(users).From(users).Join(orphans, LeftJoin, On(users.C("id").Eq(orphans.C("id"))))
	require.NoError(t, q.Err())
}

func TestJoinSourceTracking(t *testing.T) {
	type comment struct {
		ID     int64 `db:"id,pk"`
		PostID int64 `db:"post_id" ref:"post.id"`
	}
	comments := model.MustRegister[comment]("")

	// After joining posts, the join source moves to posts, so comments
	// join against posts without naming it.
	q := Select(users).From(users).Join(posts, LeftJoin).Join(comments, LeftJoin)
	require.NoError(t, q.Err())
	require.Len(t, q.Joins(), 2)
	assert.Equal(t, posts.TableMeta(), q.Joins()[1].Src)

	// Switch resets the source back to the last FROM table.
	q = Select(users).From(users).Join(posts, LeftJoin).Switch(nil).Join(posts.As("p2"), LeftJoin)
	require.NoError(t, q.Err())
	assert.Equal(t, users.TableMeta(), q.Joins()[1].Src)
}

func TestCrossJoinNeedsNoCondition(t *testing.T) {
	q := Select(users).From(users).Join(users.As("u2"), CrossJoin)
	require.NoError(t, q.Err())
	assert.Nil(t, q.Joins()[0].Condition)
}

func TestSelectModelDefaults(t *testing.T) {
	q := SelectModel(users)
	require.NoError(t, q.Err())
	assert.Equal(t, users.TableMeta(), q.Source())
	require.Len(t, q.FromTables(), 1)
	assert.Len(t, q.SelectValues(), 2)
}

func TestUnwrapIdentityMapAndAttachment(t *testing.T) {
	q := SelectModel(users, posts).Join(posts, LeftJoin)
	require.NoError(t, q.Err())

	rows := []Row{
		{"user.id": int64(1), "user.name": "ada", "post.id": int64(10), "post.author_id": int64(1), "post.title": "one"},
		{"user.id": int64(1), "user.name": "ada", "post.id": int64(11), "post.author_id": int64(1), "post.title": "two"},
		{"user.id": int64(2), "user.name": "bob", "post.id": nil, "post.author_id": nil, "post.title": nil},
	}

	out, err := q.Unwrap(rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	ada := out[0]
	assert.Equal(t, int64(1), ada.ID)
	assert.Equal(t, "ada", ada.Name)
	require.Len(t, ada.Posts, 2)
	assert.Equal(t, "one", ada.Posts[0].Title)
	assert.Equal(t, "two", ada.Posts[1].Title)

	// The outer join miss left bob without children, not with a phantom
	// zero-valued post.
	bob := out[1]
	assert.Equal(t, "bob", bob.Name)
	assert.Empty(t, bob.Posts)
}

func TestUnwrapDoesNotDuplicateChildren(t *testing.T) {
	q := SelectModel(users, posts).Join(posts, LeftJoin)
	require.NoError(t, q.Err())

	// The same (user, post) pair twice, as a diamond-shaped join produces.
	rows := []Row{
		{"user.id": int64(1), "user.name": "ada", "post.id": int64(10), "post.author_id": int64(1), "post.title": "one"},
		{"user.id": int64(1), "user.name": "ada", "post.id": int64(10), "post.author_id": int64(1), "post.title": "one"},
	}

	out, err := q.Unwrap(rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Posts, 1)
}

func TestInsertRecordSkipsPrimaryKey(t *testing.T) {
	q := InsertInto(posts).Record(&post{AuthorID: 1, Title: "hello"})
	require.NoError(t, q.Err())

	sets := q.Assignments()
	require.Len(t, sets, 2)
	assert.Equal(t, "author_id", sets[0].Field.ColumnName())
	assert.Equal(t, int64(1), sets[0].Value)
	assert.Equal(t, "title", sets[1].Field.ColumnName())
	assert.Equal(t, "hello", sets[1].Value)
}

func TestInsertWithoutValuesFails(t *testing.T) {
	require.Error(t, InsertInto(posts).Err())
}

func TestInsertRecordResolvesTableFromRegistry(t *testing.T) {
	q := InsertRecord(&post{AuthorID: 1, Title: "hello"})
	require.NoError(t, q.Err())
	assert.Equal(t, posts.TableMeta(), q.Table())

	sets := q.Assignments()
	require.Len(t, sets, 2)
	assert.Equal(t, "author_id", sets[0].Field.ColumnName())
	assert.Equal(t, "title", sets[1].Field.ColumnName())
}

func TestInsertRecordUnregisteredType(t *testing.T) {
	type stray struct {
		ID int64 `db:"id,pk"`
	}

	q := InsertRecord(&stray{ID: 1})
	require.Error(t, q.Err())
	assert.True(t, errors.Is(q.Err(), errors.ErrCodeNotRegistered))

	// Chaining after the failure must not panic on the missing table.
	require.Error(t, q.Set("id", 2).Record(&stray{}).Err())
}

func TestInsertReturningUnwrap(t *testing.T) {
	q := InsertInto(users).Set("name", "ada").Returning(users)
	require.NoError(t, q.Err())
	require.Len(t, q.ReturningValues(), 2)

	out, err := q.Unwrap([]Row{{"user.id": int64(5), "user.name": "ada"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(5), out[0].ID)
}

func TestUpdateRequiresAssignments(t *testing.T) {
	require.Error(t, Update(users).Where(users.C("id").Eq(1)).Err())

	q := Update(users).Set("name", "eve").Where(users.C("id").Eq(1))
	require.NoError(t, q.Err())
	assert.Len(t, q.Assignments(), 1)
	assert.Len(t, q.Filters(), 1)
}

func TestDeleteQuery(t *testing.T) {
	q := DeleteFrom(posts).Where(posts.C("author_id").Eq(1)).Returning(posts.C("id"))
	require.NoError(t, q.Err())
	assert.Len(t, q.Filters(), 1)
	assert.Len(t, q.ReturningValues(), 1)
}
