package schema

import (
	"context"
	"log/slog"
	"sort"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/sqltool"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
	dsql "github.com/artisandb/artisan/dialect/sql"
)

// Migration is one named, reversible schema change. Names order the run
// lexicographically, so a sortable prefix (e.g. 20260801120000_) is the
// expected convention.
type Migration struct {
	Name string
	Up   func(ctx context.Context, s *Schema) error
	Down func(ctx context.Context, s *Schema) error
}

// MigrationStatus reports one registered migration's bookkeeping state.
type MigrationStatus struct {
	Name  string
	Batch int
	Ran   bool
}

// Migrator sequences registered migrations against a driver, tracking
// applied migrations and their batch numbers in a bookkeeping table, and
// optionally exporting them as versioned migration files through atlas.
type Migrator struct {
	drv    dialect.Driver
	schema *Schema
	table  string
	log    *slog.Logger
	dir    migrate.Dir
	fmt    migrate.Formatter

	migrations []*Migration
}

// MigratorOption configures the Migrator.
type MigratorOption func(*Migrator)

// WithTable overrides the bookkeeping table name. Default is "migrations".
func WithTable(name string) MigratorOption {
	return func(m *Migrator) {
		m.table = name
	}
}

// WithLogger sets the logger used for per-migration progress.
func WithLogger(log *slog.Logger) MigratorOption {
	return func(m *Migrator) {
		m.log = log
	}
}

// WithDir sets the directory Export writes versioned migration files to.
func WithDir(dir migrate.Dir) MigratorOption {
	return func(m *Migrator) {
		m.dir = dir
	}
}

// WithFormatter overrides the migration-file formatter. When unset it is
// derived from the directory implementation.
func WithFormatter(fmt migrate.Formatter) MigratorOption {
	return func(m *Migrator) {
		m.fmt = fmt
	}
}

// NewMigrator returns a migrator over the driver.
func NewMigrator(drv dialect.Driver, opts ...MigratorOption) (*Migrator, error) {
	s, err := New(drv)
	if err != nil {
		return nil, err
	}
	m := &Migrator{
		drv:    drv,
		schema: s,
		table:  "migrations",
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fmt == nil && m.dir != nil {
		m.fmt = formatterFor(m.dir)
	}
	return m, nil
}

// formatterFor selects the file format matching the directory's migration
// tool.
func formatterFor(dir migrate.Dir) migrate.Formatter {
	switch dir.(type) {
	case *sqltool.GooseDir:
		return sqltool.GooseFormatter
	case *sqltool.DBMateDir:
		return sqltool.DBMateFormatter
	case *sqltool.FlywayDir:
		return sqltool.FlywayFormatter
	case *sqltool.LiquibaseDir:
		return sqltool.LiquibaseFormatter
	default:
		return sqltool.GolangMigrateFormatter
	}
}

// Register adds migrations to the set the migrator manages.
func (m *Migrator) Register(migrations ...*Migration) *Migrator {
	m.migrations = append(m.migrations, migrations...)
	return m
}

// sorted returns the registered migrations in lexicographic name order.
func (m *Migrator) sorted() []*Migration {
	out := append([]*Migration(nil), m.migrations...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ensureTable creates the bookkeeping table {id, migration, batch} when it
// does not exist yet.
func (m *Migrator) ensureTable(ctx context.Context) error {
	ok, err := m.schema.HasTable(ctx, m.table)
	if err != nil || ok {
		return err
	}
	return m.schema.Create(ctx, m.table, func(b *Blueprint) {
		b.Increments("id")
		b.String("migration", 255)
		b.Integer("batch")
	})
}

// ran returns the applied migrations mapped to their batch numbers.
func (m *Migrator) ran(ctx context.Context) (map[string]int, error) {
	records, err := m.builder().Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(records))
	for _, rec := range records {
		name, ok := rec["migration"].(string)
		if !ok {
			if raw, isBytes := rec["migration"].([]byte); isBytes {
				name = string(raw)
			}
		}
		out[name] = int(asInt(rec["batch"]))
	}
	return out, nil
}

func (m *Migrator) builder() *dsql.Builder {
	return dsql.NewBuilder(m.drv.Dialect(), m.drv).Table(m.table)
}

// Run applies every pending migration, in lexicographic order, under one
// new batch number.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	ran, err := m.ran(ctx)
	if err != nil {
		return err
	}
	batch := maxBatch(ran) + 1
	for _, mig := range m.sorted() {
		if _, ok := ran[mig.Name]; ok {
			continue
		}
		if mig.Up == nil {
			return artisan.NewUsageError("migration %q has no Up function", mig.Name)
		}
		if err := mig.Up(ctx, m.schema); err != nil {
			return err
		}
		if err := m.builder().Insert(ctx, dsql.Record{"migration": mig.Name, "batch": batch}); err != nil {
			return err
		}
		m.log.InfoContext(ctx, "migrated", "migration", mig.Name, "batch", batch)
	}
	return nil
}

// Rollback reverts the most recent batch, in reverse lexicographic order.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	ran, err := m.ran(ctx)
	if err != nil {
		return err
	}
	last := maxBatch(ran)
	if last == 0 {
		return nil
	}
	sorted := m.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		mig := sorted[i]
		if ran[mig.Name] != last {
			continue
		}
		if mig.Down == nil {
			return artisan.NewUsageError("migration %q has no Down function", mig.Name)
		}
		if err := mig.Down(ctx, m.schema); err != nil {
			return err
		}
		if _, err := m.builder().Where("migration", mig.Name).Delete(ctx); err != nil {
			return err
		}
		m.log.InfoContext(ctx, "rolled back", "migration", mig.Name, "batch", last)
	}
	return nil
}

// Status reports every registered migration with its applied batch.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := m.ran(ctx)
	if err != nil {
		return nil, err
	}
	var out []MigrationStatus
	for _, mig := range m.sorted() {
		batch, ok := ran[mig.Name]
		out = append(out, MigrationStatus{Name: mig.Name, Batch: batch, Ran: ok})
	}
	return out, nil
}

// Export writes every registered migration as a versioned migration file
// pair into the configured directory, without touching the database, and
// updates the directory's checksum file.
func (m *Migrator) Export(ctx context.Context) error {
	if m.dir == nil {
		return artisan.NewUsageError("export requires a migration directory; use WithDir")
	}
	for _, mig := range m.sorted() {
		up, err := m.plan(ctx, mig.Up)
		if err != nil {
			return err
		}
		down, err := m.plan(ctx, mig.Down)
		if err != nil {
			return err
		}
		plan := &migrate.Plan{Name: mig.Name}
		for i, stmt := range up {
			change := &migrate.Change{Cmd: stmt}
			if i < len(down) {
				change.Reverse = down[len(down)-1-i]
			}
			plan.Changes = append(plan.Changes, change)
		}
		files, err := m.fmt.Format(plan)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := m.dir.WriteFile(f.Name(), f.Bytes()); err != nil {
				return err
			}
		}
	}
	sum, err := m.dir.Checksum()
	if err != nil {
		return err
	}
	return migrate.WriteSumFile(m.dir, sum)
}

// plan replays a migration function against a statement recorder and
// returns the DDL it would execute.
func (m *Migrator) plan(ctx context.Context, fn func(context.Context, *Schema) error) ([]string, error) {
	if fn == nil {
		return nil, nil
	}
	rec := &recorder{dialect: m.drv.Dialect()}
	s, err := New(rec)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, s); err != nil {
		return nil, err
	}
	return rec.stmts, nil
}

func maxBatch(ran map[string]int) int {
	top := 0
	for _, b := range ran {
		if b > top {
			top = b
		}
	}
	return top
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		var out int64
		for _, c := range n {
			if c < '0' || c > '9' {
				break
			}
			out = out*10 + int64(c-'0')
		}
		return out
	}
	return 0
}

// recorder is a dialect.Driver that collects executed statements instead
// of running them, used for migration planning.
type recorder struct {
	dialect string
	stmts   []string
}

func (r *recorder) Exec(_ context.Context, query string, _, _ any) error {
	r.stmts = append(r.stmts, query)
	return nil
}

func (r *recorder) Query(context.Context, string, any, any) error {
	return artisan.NewUsageError("queries cannot run during migration planning")
}

func (r *recorder) Tx(context.Context) (dialect.Tx, error) {
	return nil, artisan.NewUsageError("transactions cannot run during migration planning")
}

func (r *recorder) Close() error { return nil }

func (r *recorder) Dialect() string { return r.dialect }

var _ dialect.Driver = (*recorder)(nil)
