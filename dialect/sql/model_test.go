package sql

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/artisandb/artisan"
)

type user struct {
	attrs  Record
	exists bool

	posts map[string][]Model
}

func (u *user) Table() string   { return "" }
func (u *user) KeyName() string { return "" }

func (u *user) NewInstance(attrs Record, exists bool) Model {
	return &user{attrs: attrs, exists: exists}
}

func (u *user) Relation(name string) (Relation, error) {
	if name != "posts" {
		return nil, artisan.NewUsageError("unknown relation %q", name)
	}
	return &postsRelation{}, nil
}

type orderItem struct{}

func (orderItem) Table() string                  { return "" }
func (orderItem) KeyName() string                { return "" }
func (orderItem) NewInstance(Record, bool) Model { return orderItem{} }

type account struct{}

func (account) Table() string                  { return "billing_accounts" }
func (account) KeyName() string                { return "account_id" }
func (account) NewInstance(Record, bool) Model { return account{} }

// postsRelation is a hand-rolled has-many used to exercise the eager-load
// protocol without a real relation implementation.
type postsRelation struct {
	query       *Builder
	parents     []Model
	constrained bool
}

func (r *postsRelation) AddEagerConstraints(parents []Model) {
	r.parents = parents
	r.constrained = true
}

func (r *postsRelation) InitRelation(parents []Model, name string) {
	for _, p := range parents {
		u := p.(*user)
		if u.posts == nil {
			u.posts = make(map[string][]Model)
		}
		u.posts[name] = nil
	}
}

func (r *postsRelation) GetResults(context.Context) ([]Model, error) {
	return []Model{
		&user{attrs: Record{"user_id": int64(1), "title": "hello"}},
		&user{attrs: Record{"user_id": int64(2), "title": "world"}},
	}, nil
}

func (r *postsRelation) Match(parents []Model, results []Model, name string) {
	for _, p := range parents {
		u := p.(*user)
		for _, res := range results {
			if res.(*user).attrs["user_id"] == u.attrs["id"] {
				u.posts[name] = append(u.posts[name], res)
			}
		}
	}
}

func (r *postsRelation) Query() *Builder {
	if r.query == nil {
		r.query = DialectBuilder("mysql").Table("posts")
	}
	return r.query
}

func TestTableName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "users", TableName(&user{}))
	require.Equal(t, "order_items", TableName(orderItem{}))
	// An explicit table name wins over derivation.
	require.Equal(t, "billing_accounts", TableName(account{}))
}

func TestModel_BindsTableAndKey(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").Model(&user{})
	query, _ := b.Query()
	require.Equal(t, "SELECT * FROM `users`", query)
	require.Equal(t, "id", b.keyName())

	kb := DialectBuilder("mysql").Model(account{})
	require.Equal(t, "account_id", kb.keyName())

	// An explicit Table call is not overridden by the model.
	tb := DialectBuilder("mysql").Table("admins").Model(&user{})
	query, _ = tb.Query()
	require.Equal(t, "SELECT * FROM `admins`", query)
}

func TestGetModels(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "ada").
			AddRow(2, "linus"))

	b := OpenDB("mysql", db).Table("users").Model(&user{})
	models, err := b.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	first := models[0].(*user)
	require.True(t, first.exists)
	require.Equal(t, "ada", first.attrs["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetModels_RequiresModel(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").Table("users")
	_, err := b.GetModels(context.Background())
	require.True(t, artisan.IsUsageError(err))
}

func TestGetModels_EagerLoad(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	constrained := false
	b := OpenDB("mysql", db).Table("users").Model(&user{}).
		WithConstraint("posts", func(q *Builder) {
			constrained = true
		})
	models, err := b.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.True(t, constrained)

	first := models[0].(*user)
	require.Len(t, first.posts["posts"], 1)
	require.Equal(t, "hello", first.posts["posts"][0].(*user).attrs["title"])
	second := models[1].(*user)
	require.Len(t, second.posts["posts"], 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetModels_UnknownRelation(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	b := OpenDB("mysql", db).Table("users").Model(&user{}).With("comments")
	_, err = b.GetModels(context.Background())
	require.True(t, artisan.IsUsageError(err))
}

func TestGetModels_NoRelationResolver(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `billing_accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(1))

	b := OpenDB("mysql", db).Table("billing_accounts").Model(account{}).With("anything")
	_, err = b.GetModels(context.Background())
	require.True(t, artisan.IsUsageError(err))
}

func TestFirstModel(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users` LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "ada"))

	m, err := OpenDB("mysql", db).Table("users").Model(&user{}).FirstModel(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ada", m.(*user).attrs["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstModel_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users` LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = OpenDB("mysql", db).Table("users").Model(&user{}).FirstModel(context.Background())
	require.ErrorIs(t, err, artisan.ErrNotFound)
}

func TestFind(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `id` = \\? LIMIT 1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "grace"))

	m, err := OpenDB("mysql", db).Table("users").Model(&user{}).Find(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "grace", m.(*user).attrs["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_RequiresModel(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").Table("users")
	_, err := b.Find(context.Background(), 1)
	require.True(t, artisan.IsUsageError(err))
}
