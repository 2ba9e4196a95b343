package sql

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/artisandb/artisan"
)

// Model is the domain-type collaborator consumed by the builder: it names
// its table and primary key and hydrates rows into fresh instances. The
// builder calls into this contract; it does not implement it.
type Model interface {
	// Table returns the table name. An empty string means the name is
	// derived from the type name (see TableName).
	Table() string
	// KeyName returns the primary key column. An empty string means "id".
	KeyName() string
	// NewInstance hydrates a fresh instance from raw attributes. The
	// exists flag marks instances loaded from storage.
	NewInstance(attrs Record, exists bool) Model
}

// RelationResolver is implemented by models that define relations. The
// relation name is always passed explicitly by the caller; nothing is
// inferred from the call site.
type RelationResolver interface {
	Relation(name string) (Relation, error)
}

// Relation is the eager-loading protocol the builder drives but does not
// implement: constrain the relation query by the loaded parents, run it
// once, and match the results back onto each parent.
type Relation interface {
	// AddEagerConstraints scopes the relation query to the given parents.
	AddEagerConstraints(parents []Model)
	// InitRelation prepares the named relation to an empty default on
	// each parent.
	InitRelation(parents []Model, name string)
	// GetResults runs the relation query and returns the related models.
	GetResults(ctx context.Context) ([]Model, error)
	// Match distributes the results onto the parents under the name.
	Match(parents []Model, results []Model, name string)
	// Query exposes the relation's underlying builder so constraints and
	// nested eager loads can be applied before it runs.
	Query() *Builder
}

// TableName returns the model's table, deriving a snake_case plural from
// the type name when Table reports empty (User -> users,
// OrderItem -> order_items).
func TableName(m Model) string {
	if t := m.Table(); t != "" {
		return t
	}
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return inflect.Pluralize(inflect.Underscore(t.Name()))
}

// GetModels executes the query and hydrates each row into an instance of
// the bound model, marked as existing. Registered eager-load paths are
// resolved afterwards on the hydrated set. Shape state resets as in Get.
func (b *Builder) GetModels(ctx context.Context) ([]Model, error) {
	if b.model == nil {
		return nil, artisan.NewUsageError("GetModels requires a bound model")
	}
	records, err := b.runSelect(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]Model, len(records))
	for i, rec := range records {
		models[i] = b.model.NewInstance(rec, true)
	}
	eager := b.eager
	b.Reset()
	if len(models) > 0 && len(eager) > 0 {
		if err := eagerLoad(ctx, models, eager); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// FirstModel returns the first matching model with its eager loads
// applied, or artisan.ErrNotFound.
func (b *Builder) FirstModel(ctx context.Context) (Model, error) {
	prev := b.limit
	b.limit = 1
	models, err := b.GetModels(ctx)
	b.limit = prev
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, artisan.ErrNotFound
	}
	return models[0], nil
}

// Find fetches the model with the given primary key. A bound model is
// required so the key column is known.
func (b *Builder) Find(ctx context.Context, id any) (Model, error) {
	if b.model == nil {
		return nil, artisan.NewUsageError("find requires a bound model to know the key column")
	}
	return b.Where(b.keyName(), id).FirstModel(ctx)
}

// eagerLoad resolves the registered relation paths on the hydrated set.
// Dotted paths are grouped by their root segment: the remainder nests as
// an eager load on the relation's own query.
func eagerLoad(ctx context.Context, models []Model, eager map[string]func(*Builder)) error {
	type loadSpec struct {
		constraint func(*Builder)
		children   map[string]func(*Builder)
	}
	roots := make(map[string]*loadSpec)
	for path, fn := range eager {
		name, rest, nested := strings.Cut(path, ".")
		spec := roots[name]
		if spec == nil {
			spec = &loadSpec{children: make(map[string]func(*Builder))}
			roots[name] = spec
		}
		if nested {
			spec.children[rest] = fn
		} else {
			spec.constraint = fn
		}
	}
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)

	resolver, ok := models[0].(RelationResolver)
	if !ok {
		return artisan.NewUsageError("model %T does not define relations", models[0])
	}
	for _, name := range names {
		spec := roots[name]
		rel, err := resolver.Relation(name)
		if err != nil {
			return artisan.NewUsageError("unresolved relation %q on %T: %v", name, models[0], err)
		}
		rel.InitRelation(models, name)
		rel.AddEagerConstraints(models)
		q := rel.Query()
		childPaths := make([]string, 0, len(spec.children))
		for p := range spec.children {
			childPaths = append(childPaths, p)
		}
		sort.Strings(childPaths)
		for _, p := range childPaths {
			q.withConstraint(p, spec.children[p])
		}
		if spec.constraint != nil {
			spec.constraint(q)
		}
		results, err := rel.GetResults(ctx)
		if err != nil {
			return err
		}
		rel.Match(models, results, name)
	}
	return nil
}
