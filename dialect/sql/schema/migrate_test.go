package schema

import (
	"context"
	"os"
	"strings"
	"testing"

	"ariga.io/atlas/sql/migrate"
	"github.com/stretchr/testify/require"

	"github.com/artisandb/artisan"
)

func testMigrations() []*Migration {
	return []*Migration{
		{
			Name: "20260801100000_create_users",
			Up: func(ctx context.Context, s *Schema) error {
				return s.Create(ctx, "users", func(b *Blueprint) {
					b.Increments("id")
					b.String("name", 100)
				})
			},
			Down: func(ctx context.Context, s *Schema) error {
				return s.Drop(ctx, "users")
			},
		},
		{
			Name: "20260801110000_create_posts",
			Up: func(ctx context.Context, s *Schema) error {
				return s.Create(ctx, "posts", func(b *Blueprint) {
					b.Increments("id")
					b.Integer("user_id")
					b.Text("body").Nullable()
				})
			},
			Down: func(ctx context.Context, s *Schema) error {
				return s.Drop(ctx, "posts")
			},
		},
	}
}

func TestMigrator_RunRollbackStatus(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	m, err := NewMigrator(drv)
	require.NoError(t, err)
	// Registration order does not matter; names do.
	migs := testMigrations()
	m.Register(migs[1], migs[0])
	ctx := context.Background()

	require.NoError(t, m.Run(ctx))
	s, err := New(drv)
	require.NoError(t, err)
	for _, table := range []string{"migrations", "users", "posts"} {
		ok, err := s.HasTable(ctx, table)
		require.NoError(t, err)
		require.True(t, ok, table)
	}

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.Equal(t, "20260801100000_create_users", statuses[0].Name)
	require.True(t, statuses[0].Ran)
	require.Equal(t, 1, statuses[0].Batch)
	require.True(t, statuses[1].Ran)
	require.Equal(t, 1, statuses[1].Batch)

	// A second run applies nothing.
	require.NoError(t, m.Run(ctx))
	n, err := drv.Table("migrations").Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	// Rollback reverts the whole last batch in reverse order.
	require.NoError(t, m.Rollback(ctx))
	for _, table := range []string{"users", "posts"} {
		ok, err := s.HasTable(ctx, table)
		require.NoError(t, err)
		require.False(t, ok, table)
	}
	statuses, err = m.Status(ctx)
	require.NoError(t, err)
	require.False(t, statuses[0].Ran)
	require.False(t, statuses[1].Ran)

	// Rolling back with nothing applied is a no-op.
	require.NoError(t, m.Rollback(ctx))
}

func TestMigrator_Batches(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	m, err := NewMigrator(drv)
	require.NoError(t, err)
	migs := testMigrations()
	ctx := context.Background()

	m.Register(migs[0])
	require.NoError(t, m.Run(ctx))
	m.Register(migs[1])
	require.NoError(t, m.Run(ctx))

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, statuses[0].Batch)
	require.Equal(t, 2, statuses[1].Batch)

	// Only the second batch is reverted.
	require.NoError(t, m.Rollback(ctx))
	s, err := New(drv)
	require.NoError(t, err)
	ok, err := s.HasTable(ctx, "users")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.HasTable(ctx, "posts")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMigrator_MissingUp(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	m, err := NewMigrator(drv)
	require.NoError(t, err)
	m.Register(&Migration{Name: "20260801120000_broken"})
	err = m.Run(context.Background())
	require.True(t, artisan.IsUsageError(err))
}

func TestMigrator_CustomTable(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	m, err := NewMigrator(drv, WithTable("schema_history"))
	require.NoError(t, err)
	m.Register(testMigrations()[0])
	ctx := context.Background()
	require.NoError(t, m.Run(ctx))

	s, err := New(drv)
	require.NoError(t, err)
	ok, err := s.HasTable(ctx, "schema_history")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMigrator_Export(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	dirPath := t.TempDir()
	dir, err := migrate.NewLocalDir(dirPath)
	require.NoError(t, err)

	m, err := NewMigrator(drv, WithDir(dir))
	require.NoError(t, err)
	migs := testMigrations()
	m.Register(migs[0], migs[1])
	require.NoError(t, m.Export(context.Background()))

	entries, err := os.ReadDir(dirPath)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Contains(t, names, "atlas.sum")

	var up, down string
	for _, name := range names {
		if strings.Contains(name, "create_users") && strings.HasSuffix(name, ".up.sql") {
			up = name
		}
		if strings.Contains(name, "create_users") && strings.HasSuffix(name, ".down.sql") {
			down = name
		}
	}
	require.NotEmpty(t, up, "missing up file in %v", names)
	require.NotEmpty(t, down, "missing down file in %v", names)

	upSQL, err := os.ReadFile(dirPath + "/" + up)
	require.NoError(t, err)
	require.Contains(t, string(upSQL), `CREATE TABLE "users"`)
	downSQL, err := os.ReadFile(dirPath + "/" + down)
	require.NoError(t, err)
	require.Contains(t, string(downSQL), `DROP TABLE "users"`)

	// Export never touches the database.
	s, err := New(drv)
	require.NoError(t, err)
	ok, err := s.HasTable(context.Background(), "users")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMigrator_ExportRequiresDir(t *testing.T) {
	t.Parallel()
	drv := liteDriver(t)
	m, err := NewMigrator(drv)
	require.NoError(t, err)
	err = m.Export(context.Background())
	require.True(t, artisan.IsUsageError(err))
}
