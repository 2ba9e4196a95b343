package sql

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisandb/artisan"
)

func TestCompileSelect_Scenario(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").
		Table("users").
		Where("age", ">", 18).
		Where("active", true).
		OrderBy("id", "DESC").
		Limit(10)
	query, args := b.Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `age` > ? AND `active` = ? ORDER BY `id` DESC LIMIT 10", query)
	require.Equal(t, []any{18, true}, args)
}

func TestBindingPlaceholderParity(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").
		Table("orders").
		SelectRaw("price * ? as adjusted", 1.1).
		JoinOn("users", func(j *JoinClause) {
			j.On("users.id", "=", "orders.user_id").OnValue("users.active", "=", true)
		}).
		Where("status", "paid").
		WhereIn("region", []string{"eu", "us"}).
		WhereBetween("total", []any{10, 500}).
		Having("count", ">", 2).
		OrderByRaw("FIELD(status, ?, ?)", "paid", "due")
	query, args := b.Query()
	require.NoError(t, b.Err())
	require.Equal(t, strings.Count(query, "?"), len(args))
	// Buckets flatten as select, from, join, where, having, order — the
	// exact left-to-right order the placeholders appear in the statement.
	require.Equal(t, []any{1.1, true, "paid", "eu", "us", 10, 500, 2, "paid", "due"}, args)
}

func TestWhereIn_EmptyValues(t *testing.T) {
	t.Parallel()
	t.Run("in", func(t *testing.T) {
		t.Parallel()
		query, args := DialectBuilder("mysql").Table("users").WhereIn("id", []int{}).Query()
		require.Equal(t, "SELECT * FROM `users` WHERE 0 = 1", query)
		require.Empty(t, args)
	})
	t.Run("not in", func(t *testing.T) {
		t.Parallel()
		query, args := DialectBuilder("mysql").Table("users").WhereNotIn("id", []int{}).Query()
		require.Equal(t, "SELECT * FROM `users` WHERE 1 = 1", query)
		require.Empty(t, args)
	})
}

func TestWhereIn_Subquery(t *testing.T) {
	t.Parallel()
	t.Run("callback", func(t *testing.T) {
		t.Parallel()
		query, args := DialectBuilder("mysql").
			Table("users").
			WhereIn("id", func(q *Builder) {
				q.Table("orders").Select("user_id").Where("total", ">", 100)
			}).
			Query()
		require.Equal(t, "SELECT * FROM `users` WHERE `id` IN (SELECT `user_id` FROM `orders` WHERE `total` > ?)", query)
		require.Equal(t, []any{100}, args)
	})
	t.Run("builder", func(t *testing.T) {
		t.Parallel()
		sub := DialectBuilder("mysql").Table("orders").Select("user_id").Where("total", ">", 100)
		query, args := DialectBuilder("mysql").Table("users").WhereNotIn("id", sub).Query()
		require.Equal(t, "SELECT * FROM `users` WHERE `id` NOT IN (SELECT `user_id` FROM `orders` WHERE `total` > ?)", query)
		require.Equal(t, []any{100}, args)
	})
}

func TestWhereNested(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		Where("active", true).
		Where(func(q *Builder) {
			q.Where("age", ">", 65).OrWhere("age", "<", 18)
		}).
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `active` = ? AND (`age` > ? OR `age` < ?)", query)
	require.Equal(t, []any{true, 65, 18}, args)
}

func TestWhereNested_EmptyContributesNothing(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		Where("active", true).
		Where(func(q *Builder) {}).
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `active` = ?", query)
	require.Equal(t, []any{true}, args)
}

func TestWhereMap_SortedColumns(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		Where(Record{"name": "ada", "active": true, "role": "admin"}).
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `active` = ? AND `name` = ? AND `role` = ?", query)
	require.Equal(t, []any{true, "ada", "admin"}, args)
}

func TestWhere_InvalidOperator(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").Table("users").Where("age", "%%", 1)
	require.Error(t, b.Err())
	require.True(t, artisan.IsUsageError(b.Err()))

	_, err := b.Get(context.Background())
	require.Error(t, err)
	require.True(t, artisan.IsUsageError(err))
}

func TestWhere_DialectOperators(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("postgres").Table("users").Where("name", "ILIKE", "a%")
	require.NoError(t, b.Err())

	b = DialectBuilder("mysql").Table("users").Where("name", "ilike", "a%")
	require.Error(t, b.Err())
}

func TestWhereBetween(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		WhereBetween("age", []any{18, 65}).
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `age` BETWEEN ? AND ?", query)
	require.Equal(t, []any{18, 65}, args)

	b := DialectBuilder("mysql").Table("users").WhereBetween("age", []any{18})
	require.Error(t, b.Err())
	require.True(t, artisan.IsUsageError(b.Err()))
}

func TestWhereColumn_NeverBound(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		WhereColumn("updated_at", ">", "created_at").
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `updated_at` > `created_at`", query)
	require.Empty(t, args)
}

func TestWhereNull(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		WhereNull("deleted_at").
		OrWhereNotNull("confirmed_at").
		Query()
	require.Equal(t, "SELECT * FROM `users` WHERE `deleted_at` IS NULL OR `confirmed_at` IS NOT NULL", query)
	require.Empty(t, args)
}

func TestWhereRaw(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("orders").
		WhereRaw("price > IF(state = ?, ?, ?)", "TX", 200, 100).
		Query()
	require.Equal(t, "SELECT * FROM `orders` WHERE price > IF(state = ?, ?, ?)", query)
	require.Equal(t, []any{"TX", 200, 100}, args)
}

func TestExpressionExemption(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		Select("id", Raw("count(*) as total")).
		Where("updated_at", "<", Raw("NOW()")).
		Query()
	require.Equal(t, "SELECT `id`, count(*) as total FROM `users` WHERE `updated_at` < NOW()", query)
	require.Empty(t, args)
}

func TestIdempotentCompilation(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").
		Table("users").
		Where("age", ">", 18).
		WhereIn("role", []string{"admin", "editor"}).
		GroupBy("team").
		Having("count", ">", 1).
		OrderBy("id").
		Limit(5).
		Offset(10)
	q1, a1 := b.Query()
	q2, a2 := b.Query()
	require.Equal(t, q1, q2)
	require.Equal(t, a1, a2)
}

func TestClone_Independence(t *testing.T) {
	t.Parallel()
	sub := DialectBuilder("mysql").Table("orders").Select("user_id")
	b := DialectBuilder("mysql").
		Table("users").
		WhereIn("id", sub).
		Where("active", true)
	origQuery, origArgs := b.Query()

	c := b.Clone()
	c.Where("name", "ada")
	// Mutating the clone's embedded subquery must not reach the original.
	c.wheres[0].query.Where("total", ">", 5)

	query, args := b.Query()
	require.Equal(t, origQuery, query)
	require.Equal(t, origArgs, args)

	cloneQuery, _ := c.Query()
	require.NotEqual(t, origQuery, cloneQuery)
}

func TestUpdate_DialectDivergence(t *testing.T) {
	t.Parallel()
	build := func(d string) *Builder {
		return DialectBuilder(d).
			Table("users").
			Where("active", false).
			OrderBy("id").
			Limit(5)
	}
	my := build("mysql")
	mysqlSQL := my.grammar.CompileUpdate(my, []string{"name"}, []any{"x"})
	require.Equal(t, "UPDATE `users` SET `name` = ? WHERE `active` = ? ORDER BY `id` ASC LIMIT 5", mysqlSQL)

	lite := build("sqlite")
	liteSQL := lite.grammar.CompileUpdate(lite, []string{"name"}, []any{"x"})
	require.Equal(t, `UPDATE "users" SET "name" = ? WHERE "active" = ?`, liteSQL)
	assert.NotContains(t, liteSQL, "ORDER BY")
	assert.NotContains(t, liteSQL, "LIMIT")
}

func TestCompileInsert_MultiRow(t *testing.T) {
	t.Parallel()
	b := DialectBuilder("mysql").Table("points")
	query, args := b.compileInsert([]Record{{"a": 1}, {"a": 2}})
	require.Equal(t, "INSERT INTO `points` (`a`) VALUES (?), (?)", query)
	require.Equal(t, []any{1, 2}, args)
}

func TestCompileInsert_DefaultValues(t *testing.T) {
	t.Parallel()
	my := DialectBuilder("mysql").Table("logs")
	query, _ := my.compileInsert([]Record{{}})
	require.Equal(t, "INSERT INTO `logs` () VALUES ()", query)

	lite := DialectBuilder("sqlite").Table("logs")
	query, _ = lite.compileInsert([]Record{{}})
	require.Equal(t, `INSERT INTO "logs" DEFAULT VALUES`, query)
}

func TestPostgres_NumberedPlaceholders(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("postgres").
		Table("users").
		Where("age", ">", 18).
		WhereIn("id", func(q *Builder) {
			q.Table("orders").Select("user_id").Where("total", ">", 100)
		}).
		Where("active", true).
		Query()
	require.Equal(t, `SELECT * FROM "users" WHERE "age" > $1 AND "id" IN (SELECT "user_id" FROM "orders" WHERE "total" > $2) AND "active" = $3`, query)
	require.Equal(t, []any{18, 100, true}, args)
}

func TestWhereDate_Dialects(t *testing.T) {
	t.Parallel()
	t.Run("mysql", func(t *testing.T) {
		t.Parallel()
		query, args := DialectBuilder("mysql").Table("logs").WhereDate("created_at", "=", "2026-01-01").Query()
		require.Equal(t, "SELECT * FROM `logs` WHERE DATE(`created_at`) = ?", query)
		require.Equal(t, []any{"2026-01-01"}, args)

		query, _ = DialectBuilder("mysql").Table("logs").WhereYear("created_at", ">=", 2020).Query()
		require.Equal(t, "SELECT * FROM `logs` WHERE YEAR(`created_at`) >= ?", query)
	})
	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		query, _ := DialectBuilder("sqlite").Table("logs").WhereDate("created_at", "=", "2026-01-01").Query()
		require.Equal(t, `SELECT * FROM "logs" WHERE strftime('%Y-%m-%d', "created_at") = CAST(? AS TEXT)`, query)
	})
	t.Run("postgres", func(t *testing.T) {
		t.Parallel()
		query, _ := DialectBuilder("postgres").Table("logs").WhereMonth("created_at", "=", 6).Query()
		require.Equal(t, `SELECT * FROM "logs" WHERE EXTRACT(MONTH FROM "created_at") = $1`, query)
	})
}

func TestJoins(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("users").
		Select("users.id", "p.title").
		LeftJoin("posts AS p", "users.id", "=", "p.user_id").
		Query()
	require.Equal(t, "SELECT `users`.`id`, `p`.`title` FROM `users` LEFT JOIN `posts` AS `p` ON `users`.`id` = `p`.`user_id`", query)
	require.Empty(t, args)

	query, args = DialectBuilder("mysql").
		Table("users").
		JoinOn("orders", func(j *JoinClause) {
			j.On("users.id", "=", "orders.user_id").OrOnValue("orders.total", ">", 100)
		}).
		Query()
	require.Equal(t, "SELECT * FROM `users` INNER JOIN `orders` ON `users`.`id` = `orders`.`user_id` OR `orders`.`total` > ?", query)
	require.Equal(t, []any{100}, args)
}

func TestCrossJoin(t *testing.T) {
	t.Parallel()
	query, _ := DialectBuilder("mysql").Table("sizes").CrossJoin("colors").Query()
	require.Equal(t, "SELECT * FROM `sizes` CROSS JOIN `colors`", query)
}

func TestGroupHaving(t *testing.T) {
	t.Parallel()
	query, args := DialectBuilder("mysql").
		Table("orders").
		Select("user_id", Raw("SUM(total) as spent")).
		GroupBy("user_id").
		Having("spent", ">", 1000).
		OrHaving("user_id", 1).
		Query()
	require.Equal(t, "SELECT `user_id`, SUM(total) as spent FROM `orders` GROUP BY `user_id` HAVING `spent` > ? OR `user_id` = ?", query)
	require.Equal(t, []any{1000, 1}, args)
}

func TestDistinct(t *testing.T) {
	t.Parallel()
	query, _ := DialectBuilder("mysql").Table("users").Select("role").Distinct().Query()
	require.Equal(t, "SELECT DISTINCT `role` FROM `users`", query)
}

func TestUnknownDialect(t *testing.T) {
	t.Parallel()
	b := NewBuilder("oracle", nil)
	require.Error(t, b.Err())
	require.True(t, artisan.IsUsageError(b.Err()))
}

func newMockBuilder(t *testing.T) (*Builder, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return OpenDB("mysql", db).Table("users"), mk
}

func TestGet_ResetsShapeState(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT \\* FROM `users` WHERE `active` = \\?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	records, err := b.Where("active", true).Get(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mk.ExpectationsWereMet())

	// The shape is fresh, the table binding persists.
	query, args := b.Query()
	require.Equal(t, "SELECT * FROM `users`", query)
	require.Empty(t, args)
}

func TestFirst(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT \\* FROM `users` WHERE `id` = \\? LIMIT 1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "ada"))

	rec, err := b.Where("id", 7).First(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ada", rec["name"])
	// The forced LIMIT 1 was restored.
	require.Equal(t, -1, b.limit)
}

func TestFirst_NotFound(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT \\* FROM `users` LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := b.First(context.Background())
	require.ErrorIs(t, err, artisan.ErrNotFound)
}

func TestAggregate_RoundTrip(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT COUNT\\(\\*\\) AS aggregate FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(3))
	mk.ExpectQuery("SELECT `name` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ada").AddRow("lin"))

	b.Select("name")
	n, err := b.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	// The prior projection survived the aggregate call.
	records, err := b.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Contains(t, records[0], "name")
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestAggregates(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT SUM\\(`total`\\) AS aggregate FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(10.5))
	sum, err := b.Sum(context.Background(), "total")
	require.NoError(t, err)
	require.Equal(t, 10.5, sum)

	mk.ExpectQuery("SELECT MAX\\(`age`\\) AS aggregate FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(99))
	maxAge, err := b.Max(context.Background(), "age")
	require.NoError(t, err)
	require.EqualValues(t, 99, maxAge)
}

func TestExists_RestoresState(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT EXISTS\\(SELECT `id`, `name` FROM `users` WHERE `active` = \\?\\) AS `exists`").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	b.Select("id", "name").Where("active", true)
	ok, err := b.Exists(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	query, _ := b.Query()
	require.Equal(t, "SELECT `id`, `name` FROM `users` WHERE `active` = ?", query)
}

func TestExists_BooleanResult(t *testing.T) {
	t.Parallel()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mk.ExpectQuery(`SELECT EXISTS\(SELECT \* FROM "users" WHERE "active" = \$1\) AS "exists"`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := OpenDB("postgres", db).Table("users").Where("active", true).Exists(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestValuePluck(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectQuery("SELECT `name` FROM `users` WHERE `id` = \\? LIMIT 1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ada"))
	v, err := b.Where("id", 1).Value(context.Background(), "name")
	require.NoError(t, err)
	require.Equal(t, "ada", v)

	b2, mk2 := newMockBuilder(t)
	mk2.ExpectQuery("SELECT `name` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ada").AddRow("lin"))
	names, err := b2.Pluck(context.Background(), "name")
	require.NoError(t, err)
	require.Equal(t, []any{"ada", "lin"}, names)
}

func TestInsert(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("INSERT INTO `users` \\(`age`, `name`\\) VALUES \\(\\?, \\?\\), \\(\\?, \\?\\)").
		WithArgs(36, "ada", 27, "lin").
		WillReturnResult(sqlmock.NewResult(2, 2))

	err := b.Insert(context.Background(),
		Record{"name": "ada", "age": 36},
		Record{"name": "lin", "age": 27},
	)
	require.NoError(t, err)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestInsertGetID(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("INSERT INTO `users` \\(`name`\\) VALUES \\(\\?\\)").
		WithArgs("ada").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := b.InsertGetID(context.Background(), Record{"name": "ada"})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestInsertGetID_PostgresReturning(t *testing.T) {
	t.Parallel()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	b := OpenDB("postgres", db).Table("users")

	mk.ExpectQuery(`INSERT INTO "users" \("name"\) VALUES \(\$1\) RETURNING "id"`).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := b.InsertGetID(context.Background(), Record{"name": "ada"})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("UPDATE `users` SET `active` = \\?, `name` = \\? WHERE `id` = \\?").
		WithArgs(true, "ada", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := b.Where("id", 7).Update(context.Background(), Record{"name": "ada", "active": true})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("DELETE FROM `users` WHERE `active` = \\?").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := b.Where("active", false).Delete(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestUpdate_OrderedWriteBindings(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("UPDATE `users` SET `state` = \\? WHERE `state` = \\? ORDER BY FIELD\\(priority, \\?, \\?\\) LIMIT 1").
		WithArgs("running", "queued", "high", "low").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := b.Where("state", "queued").
		OrderByRaw("FIELD(priority, ?, ?)", "high", "low").
		Limit(1).
		Update(context.Background(), Record{"state": "running"})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestDelete_OrderedWriteBindings(t *testing.T) {
	t.Parallel()
	b, mk := newMockBuilder(t)
	mk.ExpectExec("DELETE FROM `users` WHERE `state` = \\? ORDER BY FIELD\\(priority, \\?, \\?\\) LIMIT 1").
		WithArgs("dead", "low", "high").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := b.Where("state", "dead").
		OrderByRaw("FIELD(priority, ?, ?)", "low", "high").
		Limit(1).
		Delete(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestUpdate_OrderBindingsDroppedWithClause(t *testing.T) {
	t.Parallel()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// SQLite never compiles ORDER BY into UPDATE, so its bindings must
	// not be bound either.
	mk.ExpectExec(`UPDATE "users" SET "state" = \? WHERE "state" = \?`).
		WithArgs("running", "queued").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := OpenDB("sqlite", db).Table("users").
		Where("state", "queued").
		OrderByRaw("FIELD(priority, ?, ?)", "high", "low").
		Update(context.Background(), Record{"state": "running"})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestDelete_ByIDRequiresModel(t *testing.T) {
	t.Parallel()
	b, _ := newMockBuilder(t)
	_, err := b.Delete(context.Background(), 1)
	require.Error(t, err)
	require.True(t, artisan.IsUsageError(err))
}

func TestNoConnection(t *testing.T) {
	t.Parallel()
	_, err := DialectBuilder("mysql").Table("users").Get(context.Background())
	require.Error(t, err)
	require.True(t, artisan.IsUsageError(err))
}
